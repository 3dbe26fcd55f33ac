package app

import (
	"os"
	"path/filepath"
	"time"
)

type Config struct {
	APIURL        string        // Optional: base URL of the MediWork API (default: http://localhost:8080/api)
	DatabaseFile  string        // Optional: path to the SQLite session database (default: ~/.mediwork/session.db)
	MasterKeyPath string        // Path to master encryption key file (default: ~/.mediwork/master.key; empty when MEDIWORK_MASTER_KEY is set)
	Env           string        // Environment (dev, staging, prod) (default: dev)
	LogLevel      string        // Log level (debug, info, warn, error) (default: warn)
	LogFormat     string        // Log format (json, text) (default: text)
	CheckInterval time.Duration // Access token expiry check interval (default: 60s)
	Timeout       time.Duration // Per-command timeout (default: 30s)
}

func LoadConfig() Config {
	return Config{
		APIURL:        getEnvOrDefault("MEDIWORK_API_URL", "http://localhost:8080/api"),
		DatabaseFile:  getEnvOrDefault("MEDIWORK_DB_FILE", defaultDatabaseFile()),
		MasterKeyPath: defaultMasterKeyPath(),
		Env:           getEnvOrDefault("ENV", "dev"),
		LogLevel:      getEnvOrDefault("LOG_LEVEL", "warn"),
		LogFormat:     getEnvOrDefault("LOG_FORMAT", "text"),
		CheckInterval: getEnvDurationOrDefault("MEDIWORK_REFRESH_CHECK_INTERVAL", 60*time.Second),
		Timeout:       getEnvDurationOrDefault("MEDIWORK_TIMEOUT", 30*time.Second),
	}
}

// defaultMasterKeyPath resolves the master key file. Without one, every CLI
// process would seal with its own key and no session could ever be read
// back, so the default points at a real file (created on first use) rather
// than nothing. An explicit MEDIWORK_MASTER_KEY wins and needs no file.
func defaultMasterKeyPath() string {
	if path := os.Getenv("MEDIWORK_MASTER_KEY_FILE"); path != "" {
		return path
	}
	if os.Getenv("MEDIWORK_MASTER_KEY") != "" {
		return ""
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "mediwork-master.key"
	}
	return filepath.Join(home, ".mediwork", "master.key")
}

// defaultDatabaseFile resolves to ~/.mediwork/session.db, falling back to
// the working directory when the home directory is unknown.
func defaultDatabaseFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "mediwork-session.db"
	}
	return filepath.Join(home, ".mediwork", "session.db")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	return defaultValue
}
