package config

import (
	"strings"

	"pantry_tracker/pkg/utils"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

type Config struct {
	App    AppConfig
	Store  StoreConfig
	Logger LoggerConfig
}

type AppConfig struct {
	Env string
}

// StoreConfig locates the pantry store. Path is used by file-backed
// drivers, DSN by server-backed ones.
type StoreConfig struct {
	Driver string
	Path   string
	DSN    string
}

// FileBacked reports whether the store lives in a single local file.
func (s StoreConfig) FileBacked() bool {
	return s.Driver == DriverSQLite
}

type LoggerConfig struct {
	Level   string
	Format  string
	NoColor bool
}

// Load reads the configuration from the environment. Call godotenv.Load
// beforehand to pick up a .env file.
func Load() *Config {
	cfg := &Config{
		App: AppConfig{
			Env: utils.Getenv("APP_ENV", "production"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(utils.Getenv("PANTRY_DB_DRIVER", DriverSQLite)),
			Path:   utils.Getenv("PANTRY_DB_PATH", "/data/pantry_data.db"),
			DSN:    utils.Getenv("PANTRY_DB_DSN", ""),
		},
		Logger: LoggerConfig{
			Level:   utils.Getenv("LOG_LEVEL", "info"),
			Format:  utils.Getenv("LOG_FORMAT", "console"),
			NoColor: utils.GetenvBool("LOG_NO_COLOR", false),
		},
	}
	if cfg.App.Env == "development" && utils.Getenv("LOG_LEVEL", "") == "" {
		cfg.Logger.Level = "debug"
	}
	return cfg
}
