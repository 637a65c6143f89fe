package model

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// Store backends selectable with store.backend.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendREST     = "rest"
	BackendFile     = "file"
)

// PostgresConfig locates a Postgres database holding the sadhna_logs table.
// The password is not part of the file; it comes from the environment or
// the keyring.
type PostgresConfig struct {
	Address      string `mapstructure:"address" yaml:"address"`
	User         string `mapstructure:"user" yaml:"user"`
	Database     string `mapstructure:"database" yaml:"database"`
	SSLMode      string `mapstructure:"sslmode" yaml:"sslmode"`
	EnsureSchema bool   `mapstructure:"ensure_schema" yaml:"ensure_schema"`
}

// RESTConfig locates a PostgREST endpoint (for example a Supabase project).
// The API key comes from the environment or the keyring.
type RESTConfig struct {
	URL string `mapstructure:"url" yaml:"url"`
}

// StoreConfig selects and configures the record store.
type StoreConfig struct {
	// Backend is one of "sqlite", "postgres", "rest" or "file".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// TimeoutSec bounds every fetch and upsert.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	SQLitePath string         `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	FileDir    string         `mapstructure:"file_dir" yaml:"file_dir"`
	Postgres   PostgresConfig `mapstructure:"postgres" yaml:"postgres"`
	REST       RESTConfig     `mapstructure:"rest" yaml:"rest"`
}

// Timeout returns TimeoutSec as a duration, defaulting to 15s.
func (c StoreConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	// WeekStart is the first column of the calendar strip ("monday" or "sunday").
	WeekStart string `mapstructure:"week_start" yaml:"week_start"`
}

// FirstWeekday parses WeekStart, defaulting to Monday.
func (c DisplayConfig) FirstWeekday() time.Weekday {
	if strings.EqualFold(strings.TrimSpace(c.WeekStart), "sunday") {
		return time.Sunday
	}
	return time.Monday
}

// LogConfig controls the file logger. The terminal belongs to the UI, so
// logs never go to stdout.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Store   StoreConfig   `mapstructure:"store" yaml:"store"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// DefaultConfigPath returns ~/.config/sadhana/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "sadhana", "config.yaml")
}

var configDefaults = map[string]any{
	"store.backend":                BackendSQLite,
	"store.timeout_sec":            15,
	"store.sqlite_path":            "~/.local/share/sadhana/sadhana.db",
	"store.file_dir":               "~/.local/share/sadhana/logs",
	"store.postgres.address":       "localhost:5432",
	"store.postgres.user":          "postgres",
	"store.postgres.database":      "postgres",
	"store.postgres.sslmode":       "prefer",
	"store.postgres.ensure_schema": false,
	"store.rest.url":               "",
	"display.week_start":           "monday",
	"log.file":                     "~/.local/state/sadhana/sadhana.log",
	"log.level":                    "info",
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Store: StoreConfig{
			Backend:    BackendSQLite,
			TimeoutSec: 15,
			SQLitePath: "~/.local/share/sadhana/sadhana.db",
			FileDir:    "~/.local/share/sadhana/logs",
			Postgres: PostgresConfig{
				Address:  "localhost:5432",
				User:     "postgres",
				Database: "postgres",
				SSLMode:  "prefer",
			},
		},
		Display: DisplayConfig{WeekStart: "monday"},
		Log: LogConfig{
			File:  "~/.local/state/sadhana/sadhana.log",
			Level: "info",
		},
	}
}

// LoadConfig reads the YAML file at path using Viper. A .env file next to
// the config (if any) is loaded into the environment first, and SADHANA_*
// variables override file values (store.rest.url -> SADHANA_STORE_REST_URL).
// A missing file yields the defaults.
func LoadConfig(path string) (*AppConfig, error) {
	envFile := filepath.Join(filepath.Dir(path), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("SADHANA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range configDefaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *fs.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := DefaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.Store.Backend = strings.ToLower(strings.TrimSpace(cfg.Store.Backend))
	switch cfg.Store.Backend {
	case BackendSQLite, BackendPostgres, BackendREST, BackendFile:
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, creating parent directories.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("store", cfg.Store)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

// ExpandPath resolves a leading "~" in configured paths.
func ExpandPath(p string) (string, error) {
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("expanding %q: %w", p, err)
	}
	return expanded, nil
}
