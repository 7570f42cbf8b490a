package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_ValidJSON(t *testing.T) {
	// Create temp config file
	content := `{
		"port": 9090,
		"storage": "sqlite",
		"sqlite_path": "/tmp/wizard.db",
		"verbose": true,
		"reset_after_submit": true
	}`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, StorageSQLite, cfg.Storage)
	assert.Equal(t, "/tmp/wizard.db", cfg.SQLitePath)
	assert.True(t, cfg.Verbose)
	assert.True(t, cfg.ResetAfterSubmit)
}

func TestLoadConfig_InvalidJSON(t *testing.T) {
	content := `{ invalid json }`

	tmpFile := filepath.Join(t.TempDir(), "config.json")
	err := os.WriteFile(tmpFile, []byte(content), 0644)
	require.NoError(t, err)

	cfg, err := LoadConfig(tmpFile)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to parse config JSON")
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	cfg, err := LoadConfig("/nonexistent/path/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	cfg, err := LoadConfig("")
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "config path is empty")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("ONBOARDING_PORT", "7070")
	t.Setenv("ONBOARDING_STORAGE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://localhost/onboarding")
	t.Setenv("ONBOARDING_SQLITE_PATH", "")
	t.Setenv("ONBOARDING_DIRECTORY_FILE", "directory.yaml")
	t.Setenv("ONBOARDING_RESET_AFTER_SUBMIT", "true")

	cfg := FromEnv()
	assert.Equal(t, 7070, cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, "postgres://localhost/onboarding", cfg.DatabaseURL)
	assert.Empty(t, cfg.SQLitePath)
	assert.Equal(t, "directory.yaml", cfg.DirectoryFile)
	assert.True(t, cfg.ResetAfterSubmit)
}

func TestFromEnv_MalformedPort(t *testing.T) {
	t.Setenv("ONBOARDING_PORT", "eighty")
	assert.Zero(t, FromEnv().Port)
}

func TestValidate(t *testing.T) {
	dirFile := filepath.Join(t.TempDir(), "directory.yaml")
	require.NoError(t, os.WriteFile(dirFile, []byte("departments: []"), 0644))

	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "empty", cfg: Config{}},
		{name: "defaults", cfg: Defaults()},
		{name: "postgres with url", cfg: Config{Storage: StoragePostgres, DatabaseURL: "postgres://x"}},
		{name: "existing directory file", cfg: Config{DirectoryFile: dirFile}},
		{name: "negative port", cfg: Config{Port: -1}, wantErr: "'port'"},
		{name: "port too large", cfg: Config{Port: 70000}, wantErr: "'port'"},
		{name: "unknown storage", cfg: Config{Storage: "redis"}, wantErr: "unknown storage"},
		{name: "postgres without url", cfg: Config{Storage: StoragePostgres}, wantErr: "'database_url'"},
		{name: "missing directory file", cfg: Config{DirectoryFile: "/nonexistent/directory.yaml"}, wantErr: "directory file not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMergeWithDefaults(t *testing.T) {
	cfg := &Config{
		Port:    9000,
		Storage: StorageSQLite,
	}

	defaults := Config{
		Port:          8080,
		Storage:       StorageMemory,
		SQLitePath:    "default.db",
		DatabaseURL:   "postgres://default",
		DirectoryFile: "dir.yaml",
		Verbose:       true,
	}

	result := cfg.MergeWithDefaults(defaults)

	// Values from cfg should be preserved
	assert.Equal(t, 9000, result.Port)
	assert.Equal(t, StorageSQLite, result.Storage)

	// Empty values should use defaults
	assert.Equal(t, "default.db", result.SQLitePath)
	assert.Equal(t, "postgres://default", result.DatabaseURL)
	assert.Equal(t, "dir.yaml", result.DirectoryFile)
	assert.True(t, result.Verbose)
	assert.False(t, result.ResetAfterSubmit)
}

func TestMergeWithDefaults_EmptyDefaults(t *testing.T) {
	cfg := &Config{}
	result := cfg.MergeWithDefaults(Config{})
	assert.Equal(t, Config{}, result)

	withBuiltins := cfg.MergeWithDefaults(Defaults())
	assert.Equal(t, DefaultPort, withBuiltins.Port)
	assert.Equal(t, StorageMemory, withBuiltins.Storage)
	assert.Equal(t, DefaultSQLitePath, withBuiltins.SQLitePath)
}
