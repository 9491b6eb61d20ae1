package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
)

const envPrefix = "VAULT_"

// parseEnv loads a dotenv file into the process environment and then
// overlays Config with VAULT_* variables.
//
// The file is taken from -E/-env-file; without the flag ".env" in the working
// directory is tried and silently skipped when missing. Variables already set
// in the environment win over the file, as godotenv never overrides them.
// Malformed numeric or duration values panic, like the JSON and flag stages.
func parseEnv(cfg *Config) {
	envFile := flagx.EnvFileFlags()
	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}

	if err := godotenv.Load(envFile); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			panic(err)
		}
	}

	setString(&cfg.StorageBackend, "STORAGE_BACKEND")
	setString(&cfg.DataDir, "DATA_DIR")
	setString(&cfg.SQLitePath, "SQLITE_PATH")
	setString(&cfg.PostgresDSN, "POSTGRES_DSN")
	setString(&cfg.S3Bucket, "S3_BUCKET")
	setString(&cfg.S3Region, "S3_REGION")
	setString(&cfg.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	setString(&cfg.S3AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.S3SecretKey, "S3_SECRET_KEY")
	setString(&cfg.S3Prefix, "S3_PREFIX")
	setString(&cfg.LogLevel, "LOG_LEVEL")

	if v, ok := os.LookupEnv(envPrefix + "QUOTA_BYTES"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			panic(err)
		}
		cfg.QuotaBytes = n
	}
	if v, ok := os.LookupEnv(envPrefix + "CONNECT_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.ConnectTimeout = d
	}
}

func setString(dst *string, name string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok {
		*dst = v
	}
}
