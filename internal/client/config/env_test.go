package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_parseEnv(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("variables overlay config", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("VAULT_STORAGE_BACKEND", "postgres")
		t.Setenv("VAULT_POSTGRES_DSN", "postgres://env")
		t.Setenv("VAULT_CONNECT_TIMEOUT", "750ms")

		cfg := &Config{StorageBackend: "sqlite"}
		parseEnv(cfg)

		assert.Equal(t, BackendPostgres, cfg.StorageBackend)
		assert.Equal(t, "postgres://env", cfg.PostgresDSN)
		assert.Equal(t, 750*time.Millisecond, cfg.ConnectTimeout)
	})

	t.Run("dotenv file from flag", func(t *testing.T) {
		dir := t.TempDir()
		envFile := filepath.Join(dir, "vault.env")
		require.NoError(t, os.WriteFile(envFile, []byte("VAULT_S3_BUCKET=from-file\nVAULT_S3_PREFIX=p/\n"), 0o600))

		// godotenv sets variables directly; register them for cleanup.
		t.Setenv("VAULT_S3_BUCKET", "")
		os.Unsetenv("VAULT_S3_BUCKET")
		t.Setenv("VAULT_S3_PREFIX", "preset/")

		os.Args = []string{"testbin", "-E", envFile}

		cfg := &Config{}
		parseEnv(cfg)

		assert.Equal(t, "from-file", cfg.S3Bucket)
		assert.Equal(t, "preset/", cfg.S3Prefix, "existing environment wins over the file")
	})

	t.Run("explicit missing dotenv file panics", func(t *testing.T) {
		os.Args = []string{"testbin", "-env-file", filepath.Join(t.TempDir(), "missing.env")}
		require.Panics(t, func() { parseEnv(&Config{}) })
	})

	t.Run("bad quota panics", func(t *testing.T) {
		os.Args = []string{"testbin"}
		t.Setenv("VAULT_QUOTA_BYTES", "many")
		require.Panics(t, func() { parseEnv(&Config{}) })
	})
}
