package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sqli/medwork-client/internal/client/store"
	"github.com/sqli/medwork-client/pkg/cryptox"
	"github.com/sqli/medwork-client/pkg/medisdk"

	_ "modernc.org/sqlite"
)

// Store persists the session in a local SQLite database. Token values are
// sealed before they touch disk; the user record is stored as plain JSON.
type Store struct {
	db     *sql.DB
	sealer *cryptox.Sealer
}

// NewStore opens the session database at dsn. sealer encrypts token values
// at rest; callers build it once at wiring time so every process derives
// the same key.
func NewStore(dsn string, sealer *cryptox.Sealer) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// A session store has exactly one writer; serialize access.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(context.Background(), `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, sealer: sealer}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Load implements store.Store. If only some of the three keys are present
// the remnants are cleared and ErrNoSession is returned, restoring the
// all-or-nothing invariant.
func (s *Store) Load(ctx context.Context) (store.Session, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM storage`)
	if err != nil {
		return store.Session{}, err
	}
	defer rows.Close()

	values := make(map[string][]byte, 3)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return store.Session{}, err
		}
		values[key] = value
	}
	if err := rows.Err(); err != nil {
		return store.Session{}, err
	}

	if len(values) == 0 {
		return store.Session{}, store.ErrNoSession
	}

	sess, err := s.decodeSession(values)
	if err != nil {
		// Partial or unreadable state. Clear it rather than hand back an
		// ambiguous session.
		if clearErr := s.Clear(ctx); clearErr != nil {
			return store.Session{}, clearErr
		}
		return store.Session{}, store.ErrNoSession
	}
	return sess, nil
}

// Save implements store.Store. All three keys land in one transaction.
func (s *Store) Save(ctx context.Context, sess store.Session) error {
	sealedAccess, err := s.sealer.Seal([]byte(sess.AccessToken))
	if err != nil {
		return fmt.Errorf("failed to seal access token: %w", err)
	}
	sealedRefresh, err := s.sealer.Seal([]byte(sess.RefreshToken))
	if err != nil {
		return fmt.Errorf("failed to seal refresh token: %w", err)
	}
	userJSON, err := json.Marshal(sess.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		for key, value := range map[string][]byte{
			store.KeyAccessToken:  sealedAccess,
			store.KeyRefreshToken: sealedRefresh,
			store.KeyUser:         userJSON,
		} {
			if err := upsert(ctx, tx, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateTokens implements store.Store.
func (s *Store) UpdateTokens(ctx context.Context, accessToken, refreshToken string) error {
	sealedAccess, err := s.sealer.Seal([]byte(accessToken))
	if err != nil {
		return fmt.Errorf("failed to seal access token: %w", err)
	}
	sealedRefresh, err := s.sealer.Seal([]byte(refreshToken))
	if err != nil {
		return fmt.Errorf("failed to seal refresh token: %w", err)
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM storage WHERE key = ?`, store.KeyUser,
		).Scan(&exists)
		if err != nil {
			return err
		}
		if exists == 0 {
			return store.ErrNoSession
		}

		if err := upsert(ctx, tx, store.KeyAccessToken, sealedAccess); err != nil {
			return err
		}
		return upsert(ctx, tx, store.KeyRefreshToken, sealedRefresh)
	})
}

// Clear implements store.Store.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM storage`)
	return err
}

// withTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	// Safe to call even after commit.
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func upsert(ctx context.Context, tx *sql.Tx, key string, value []byte) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO storage (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value)
	return err
}

// decodeSession rebuilds a session from the raw key/value rows, failing on
// anything partial or undecryptable.
func (s *Store) decodeSession(values map[string][]byte) (store.Session, error) {
	sealedAccess, okAccess := values[store.KeyAccessToken]
	sealedRefresh, okRefresh := values[store.KeyRefreshToken]
	userJSON, okUser := values[store.KeyUser]
	if !okAccess || !okRefresh || !okUser {
		return store.Session{}, errors.New("partial session state")
	}

	accessToken, err := s.sealer.Open(sealedAccess)
	if err != nil {
		return store.Session{}, err
	}
	refreshToken, err := s.sealer.Open(sealedRefresh)
	if err != nil {
		return store.Session{}, err
	}

	var user medisdk.UserInfo
	if err := json.Unmarshal(userJSON, &user); err != nil {
		return store.Session{}, err
	}

	return store.Session{
		AccessToken:  string(accessToken),
		RefreshToken: string(refreshToken),
		User:         user,
	}, nil
}
