package config

import (
	"os"
	"path/filepath"
	"time"
)

// Storage backends understood by kv.Open.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendFile     = "file"
	BackendS3       = "s3"
	BackendMemory   = "memory"
)

// DefaultQuotaBytes mirrors the usual per-origin browser storage budget.
const DefaultQuotaBytes int64 = 5 << 20

// Config holds runtime settings for the vault CLI.
//
// StorageBackend selects the key/value substrate; the remaining storage
// fields are only read by the backend they belong to. QuotaBytes <= 0
// disables the quota check.
type Config struct {
	StorageBackend string
	DataDir        string
	SQLitePath     string
	PostgresDSN    string

	S3Bucket       string
	S3Region       string
	S3BaseEndpoint string
	S3AccessKey    string
	S3SecretKey    string
	S3Prefix       string

	QuotaBytes     int64
	ConnectTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.StorageBackend = BackendSQLite
	c.DataDir = defaultDataDir()
	c.S3Region = "us-east-1"
	c.S3Prefix = "vault/"
	c.QuotaBytes = DefaultQuotaBytes
	c.ConnectTimeout = 5 * time.Second
	c.LogLevel = "info"
}

// SQLiteFile returns the database path, falling back to vault.db in DataDir.
func (c *Config) SQLiteFile() string {
	if c.SQLitePath != "" {
		return c.SQLitePath
	}
	return filepath.Join(c.DataDir, "vault.db")
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".gophvault"
	}
	return filepath.Join(home, ".gophvault")
}
