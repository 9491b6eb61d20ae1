package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
	"github.com/dmitrijs2005/gophvault/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// ConnectTimeout is a timex.Duration so the file may say "5s" or give
// integer nanoseconds.
type JsonConfig struct {
	StorageBackend string         `json:"storage_backend"`
	DataDir        string         `json:"data_dir"`
	SQLitePath     string         `json:"sqlite_path"`
	PostgresDSN    string         `json:"postgres_dsn"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	S3Prefix       string         `json:"s3_prefix"`
	QuotaBytes     *int64         `json:"quota_bytes"`
	ConnectTimeout timex.Duration `json:"connect_timeout"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from a JSON file named by
// -c or -config. Without the flag nothing is loaded. Fields missing from the
// file keep their current values. Read or unmarshal errors panic.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.StorageBackend, jc.StorageBackend)
	overlay(&cfg.DataDir, jc.DataDir)
	overlay(&cfg.SQLitePath, jc.SQLitePath)
	overlay(&cfg.PostgresDSN, jc.PostgresDSN)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	overlay(&cfg.S3AccessKey, jc.S3AccessKey)
	overlay(&cfg.S3SecretKey, jc.S3SecretKey)
	overlay(&cfg.S3Prefix, jc.S3Prefix)
	overlay(&cfg.LogLevel, jc.LogLevel)

	if jc.QuotaBytes != nil {
		cfg.QuotaBytes = *jc.QuotaBytes
	}
	if jc.ConnectTimeout.Duration != 0 {
		cfg.ConnectTimeout = jc.ConnectTimeout.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
