package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/sqli/medwork-client/internal/client/store"
	"github.com/sqli/medwork-client/pkg/cryptox"
	"github.com/sqli/medwork-client/pkg/medisdk"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	sealer, err := cryptox.NewSealer([]byte("store-test-master-key"))
	require.NoError(t, err)

	dsn := filepath.Join(t.TempDir(), "session.db")
	s, err := NewStore(dsn, sealer)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s, dsn
}

func testSession() store.Session {
	return store.Session{
		AccessToken:  "access-token-1",
		RefreshToken: "refresh-token-1",
		User: medisdk.UserInfo{
			Email:    "jane@example.com",
			FullName: "Jane Doe",
			Role:     medisdk.RoleCollaborator,
		},
	}
}

func TestLoadEmptyStore(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	_, err := s.Load(context.Background())
	require.ErrorIs(t, err, store.ErrNoSession)
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testSession()))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, testSession(), loaded)
}

func TestTokensAreSealedAtRest(t *testing.T) {
	t.Parallel()

	s, dsn := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testSession()))

	raw, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer raw.Close()

	var value []byte
	err = raw.QueryRowContext(ctx,
		`SELECT value FROM storage WHERE key = ?`, store.KeyRefreshToken,
	).Scan(&value)
	require.NoError(t, err)
	require.NotContains(t, string(value), "refresh-token-1")
}

func TestUpdateTokens(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	t.Run("without a session", func(t *testing.T) {
		err := s.UpdateTokens(ctx, "a", "r")
		require.ErrorIs(t, err, store.ErrNoSession)
	})

	t.Run("rewrites the pair, keeps the user", func(t *testing.T) {
		require.NoError(t, s.Save(ctx, testSession()))
		require.NoError(t, s.UpdateTokens(ctx, "access-token-2", "refresh-token-2"))

		loaded, err := s.Load(ctx)
		require.NoError(t, err)
		require.Equal(t, "access-token-2", loaded.AccessToken)
		require.Equal(t, "refresh-token-2", loaded.RefreshToken)
		require.Equal(t, testSession().User, loaded.User)
	})
}

func TestClear(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testSession()))
	require.NoError(t, s.Clear(ctx))

	_, err := s.Load(ctx)
	require.ErrorIs(t, err, store.ErrNoSession)

	// Clearing an already empty store is fine.
	require.NoError(t, s.Clear(ctx))
}

func TestLoadHealsPartialState(t *testing.T) {
	t.Parallel()

	s, dsn := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testSession()))

	// Simulate a torn write by dropping the user row out from under the
	// store.
	raw, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.ExecContext(ctx, `DELETE FROM storage WHERE key = ?`, store.KeyUser)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	require.ErrorIs(t, err, store.ErrNoSession)

	// The leftover token rows are gone too.
	var count int
	require.NoError(t, raw.QueryRowContext(ctx, `SELECT COUNT(*) FROM storage`).Scan(&count))
	require.Zero(t, count)
}

func TestLoadHealsUndecryptableState(t *testing.T) {
	t.Parallel()

	s, dsn := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, testSession()))

	raw, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	defer raw.Close()
	_, err = raw.ExecContext(ctx,
		`UPDATE storage SET value = ? WHERE key = ?`, []byte("corrupt"), store.KeyAccessToken)
	require.NoError(t, err)

	_, err = s.Load(ctx)
	require.ErrorIs(t, err, store.ErrNoSession)
}

func TestSessionSurvivesSealerRederivation(t *testing.T) {
	t.Parallel()

	// Two stores, two independently loaded sealers sharing one key file:
	// the shape of two CLI invocations hitting the same database.
	dir := t.TempDir()
	dsn := filepath.Join(dir, "session.db")
	keyFile := filepath.Join(dir, "master.key")
	ctx := context.Background()

	firstKey, err := cryptox.LoadSealer(keyFile)
	require.NoError(t, err)
	first, err := NewStore(dsn, firstKey)
	require.NoError(t, err)
	require.NoError(t, first.ApplyMigrations())
	require.NoError(t, first.Save(ctx, testSession()))
	require.NoError(t, first.Close())

	secondKey, err := cryptox.LoadSealer(keyFile)
	require.NoError(t, err)
	second, err := NewStore(dsn, secondKey)
	require.NoError(t, err)
	defer second.Close()

	loaded, err := second.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, testSession(), loaded)
}

func TestLoadWithDifferentKeyHealsToEmpty(t *testing.T) {
	t.Parallel()

	dsn := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	writerKey, err := cryptox.NewSealer([]byte("key-one"))
	require.NoError(t, err)
	writer, err := NewStore(dsn, writerKey)
	require.NoError(t, err)
	require.NoError(t, writer.ApplyMigrations())
	require.NoError(t, writer.Save(ctx, testSession()))
	require.NoError(t, writer.Close())

	readerKey, err := cryptox.NewSealer([]byte("key-two"))
	require.NoError(t, err)
	reader, err := NewStore(dsn, readerKey)
	require.NoError(t, err)
	defer reader.Close()

	_, err = reader.Load(ctx)
	require.ErrorIs(t, err, store.ErrNoSession)
}

func TestSaveOverwritesPreviousSession(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testSession()))

	second := store.Session{
		AccessToken:  "access-token-9",
		RefreshToken: "refresh-token-9",
		User: medisdk.UserInfo{
			Email:    "john@example.com",
			FullName: "John Roe",
			Role:     medisdk.RoleDoctor,
		},
	}
	require.NoError(t, s.Save(ctx, second))

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, second, loaded)
}
