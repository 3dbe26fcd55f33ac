// Package app wires the MediWork CLI together: configuration, logging, the
// encrypted session database, the API client and the session manager, plus
// the subcommand dispatcher.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/sqli/medwork-client/internal/client/session"
	"github.com/sqli/medwork-client/internal/client/store"
	"github.com/sqli/medwork-client/internal/client/store/drivers/sqlite"
	"github.com/sqli/medwork-client/pkg/cryptox"
	"github.com/sqli/medwork-client/pkg/medisdk"
	"github.com/sqli/medwork-client/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the CLI with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	client   *medisdk.Client
	sessions *session.Manager
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "mediwork-cli",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.client = medisdk.NewClient(cfg.APIURL)
	app.client.Logger = app.logger

	app.sessions = session.NewManager(app.client, app.db, app.logger, cfg.CheckInterval)
	app.sessions.OnSessionExpired(func(cause error) {
		fmt.Fprintln(os.Stderr, "Your session has expired. Please log in again.")
		app.logger.Warn("session expired", "error", cause)
	})

	return app, nil
}

func (app *Application) initDatabase() error {
	if dir := filepath.Dir(app.cfg.DatabaseFile); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session directory: %w", err)
		}
	}

	// The sealer key comes from the configured key file, generated on
	// first run, so every invocation can read what the last one wrote.
	sealer, err := cryptox.LoadSealer(app.cfg.MasterKeyPath)
	if err != nil {
		return fmt.Errorf("failed to load master key: %w", err)
	}

	db, err := sqlite.NewStore(app.cfg.DatabaseFile, sealer)
	if err != nil {
		return fmt.Errorf("failed to open session database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		return fmt.Errorf("failed to migrate session database: %w", err)
	}

	app.db = db
	return nil
}

// Run executes a single CLI invocation: restore any persisted session, run
// the subcommand, and shut down cleanly.
func (app *Application) Run(args []string) error {
	defer app.Close()

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.Timeout)
	defer cancel()

	if _, err := app.sessions.Restore(ctx); err != nil {
		app.logger.Warn("failed to restore persisted session", "error", err)
	}

	if len(args) == 0 {
		app.printUsage()
		return fmt.Errorf("no command given")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "login":
		return app.cmdLogin(ctx, rest)
	case "register":
		return app.cmdRegister(ctx, rest)
	case "logout":
		return app.cmdLogout(ctx, rest)
	case "whoami":
		return app.cmdWhoami(ctx, rest)
	case "refresh":
		return app.cmdRefresh(ctx, rest)
	case "watch":
		return app.cmdWatch(rest)
	case "users":
		return app.cmdUsers(ctx, rest)
	case "visits":
		return app.cmdVisits(ctx, rest)
	case "doctor":
		return app.cmdDoctor(ctx, rest)
	case "slots":
		return app.cmdSlots(ctx, rest)
	case "spontaneous":
		return app.cmdSpontaneous(ctx, rest)
	case "version":
		fmt.Println("mediwork", BuildVersion)
		return nil
	case "help", "-h", "--help":
		app.printUsage()
		return nil
	default:
		app.printUsage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// Close releases held resources. Safe to call more than once.
func (app *Application) Close() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing session database", "error", err)
		}
		app.db = nil
	}
}

// session returns the live session or a friendly error telling the user to
// log in.
func (app *Application) session() (*medisdk.Session, error) {
	sess := app.sessions.Session()
	if sess == nil {
		return nil, fmt.Errorf("not logged in, run `mediwork login` first")
	}
	return sess, nil
}

func (app *Application) printUsage() {
	fmt.Fprint(os.Stderr, `Usage: mediwork <command> [flags]

Commands:
  login        Authenticate and start a session
  register     Create a new account (awaits admin approval)
  logout       End the session and revoke the refresh token
  whoami       Show the logged-in user
  refresh      Force an access token refresh
  watch        Keep the session fresh in the background
  users        Admin and RH user management
  visits       Medical visit scheduling
  doctor       Doctor-side visit management
  slots        Availability and recurring slots
  spontaneous  Spontaneous visit requests
  version      Print the CLI version

Environment:
  MEDIWORK_API_URL                  API base URL (default http://localhost:8080/api)
  MEDIWORK_DB_FILE                  Session database path
  MEDIWORK_MASTER_KEY_FILE          Master key file for token encryption (default ~/.mediwork/master.key)
  MEDIWORK_REFRESH_CHECK_INTERVAL   Expiry check interval for watch (default 60s)
  LOG_LEVEL, LOG_FORMAT, ENV        Logging configuration
`)
}
