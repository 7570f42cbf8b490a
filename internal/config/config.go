// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Storage backends.
const (
	StorageMemory   = "memory"
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
)

// Defaults applied by Defaults.
const (
	DefaultPort       = 8080
	DefaultStorage    = StorageMemory
	DefaultSQLitePath = "onboarding.db"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP listen port

	// Storage
	Storage     string `json:"storage,omitempty"`      // memory, sqlite or postgres
	SQLitePath  string `json:"sqlite_path,omitempty"`  // SQLite database file
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// Reference data
	DirectoryFile string `json:"directory_file,omitempty"` // YAML directory seed file; built-in data when empty

	// Behavior
	Verbose          bool `json:"verbose,omitempty"`            // Print detailed debug information
	ResetAfterSubmit bool `json:"reset_after_submit,omitempty"` // Clear a session once its payload is accepted
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FromEnv reads configuration from environment variables. Unset or
// malformed variables leave the field empty.
func FromEnv() Config {
	cfg := Config{
		Storage:       os.Getenv("ONBOARDING_STORAGE"),
		SQLitePath:    os.Getenv("ONBOARDING_SQLITE_PATH"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DirectoryFile: os.Getenv("ONBOARDING_DIRECTORY_FILE"),
	}
	if port, err := strconv.Atoi(os.Getenv("ONBOARDING_PORT")); err == nil {
		cfg.Port = port
	}
	if reset, err := strconv.ParseBool(os.Getenv("ONBOARDING_RESET_AFTER_SUBMIT")); err == nil {
		cfg.ResetAfterSubmit = reset
	}
	return cfg
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:       DefaultPort,
		Storage:    DefaultStorage,
		SQLitePath: DefaultSQLitePath,
	}
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535")
	}

	switch c.Storage {
	case "", StorageMemory, StorageSQLite:
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("config error: 'database_url' is required for postgres storage")
		}
	default:
		return fmt.Errorf("config error: unknown storage %q (want memory, sqlite or postgres)", c.Storage)
	}

	// Validate file paths exist (if specified)
	if c.DirectoryFile != "" {
		if _, err := os.Stat(c.DirectoryFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: directory file not found: %s", c.DirectoryFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Storage == "" {
		result.Storage = defaults.Storage
	}
	if result.SQLitePath == "" {
		result.SQLitePath = defaults.SQLitePath
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DirectoryFile == "" {
		result.DirectoryFile = defaults.DirectoryFile
	}

	// Int fields: use default if zero
	if result.Port == 0 {
		result.Port = defaults.Port
	}

	// Bool fields: cannot distinguish unset from false, so only an enabled
	// default is carried over
	result.Verbose = result.Verbose || defaults.Verbose
	result.ResetAfterSubmit = result.ResetAfterSubmit || defaults.ResetAfterSubmit

	return result
}
