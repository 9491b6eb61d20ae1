package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, BackendSQLite, c.StorageBackend)
	assert.Equal(t, DefaultQuotaBytes, c.QuotaBytes)
	assert.Equal(t, 5*time.Second, c.ConnectTimeout)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, "vault/", c.S3Prefix)
	assert.NotEmpty(t, c.DataDir)
}

func TestSQLiteFile(t *testing.T) {
	c := Config{DataDir: "/data"}
	assert.Equal(t, filepath.Join("/data", "vault.db"), c.SQLiteFile())

	c.SQLitePath = "/tmp/x.db"
	assert.Equal(t, "/tmp/x.db", c.SQLiteFile())
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg, "LoadConfig must not return nil")
	assert.Equal(t, BackendSQLite, cfg.StorageBackend)
	assert.Equal(t, 5*time.Second, cfg.ConnectTimeout)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	jsonPath := writeTempJSON(t, dir, "cfg.json", map[string]any{
		"storage_backend": "file",
		"log_level":       "warn",
	})

	t.Setenv("VAULT_STORAGE_BACKEND", "memory")
	t.Setenv("VAULT_LOG_LEVEL", "debug")
	t.Setenv("VAULT_QUOTA_BYTES", "1024")

	os.Args = []string{"testbin", "-c", jsonPath, "-l", "error"}

	cfg := LoadConfig()

	// env < json
	assert.Equal(t, BackendFile, cfg.StorageBackend)
	// json < flags
	assert.Equal(t, "error", cfg.LogLevel)
	// env only
	assert.Equal(t, int64(1024), cfg.QuotaBytes)
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all storage flags",
			args: []string{"cmd", "-b", "postgres", "-d", "postgres://x", "-q", "2048", "-t", "2s", "-l", "debug"},
			expected: &Config{
				StorageBackend: "postgres",
				PostgresDSN:    "postgres://x",
				QuotaBytes:     2048,
				ConnectTimeout: 2 * time.Second,
				LogLevel:       "debug",
			},
		},
		{
			name: "s3 flags mixed with foreign flags",
			args: []string{"cmd", "-c", "cfg.json", "-s3-bucket", "b", "-s3-endpoint", "http://minio:9000", "-E", "x.env"},
			expected: &Config{
				S3Bucket:       "b",
				S3BaseEndpoint: "http://minio:9000",
			},
		},
		{name: "bad quota", args: []string{"cmd", "-q", "lots"}, expectPanic: true},
		{name: "bad timeout", args: []string{"cmd", "-t", "10"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			config := &Config{}

			if !tt.expectPanic {
				require.NotPanics(t, func() { parseFlags(config) })
				assert.Empty(t, cmp.Diff(config, tt.expected))
			} else {
				require.Panics(t, func() { parseFlags(config) })
			}
		})
	}
}
