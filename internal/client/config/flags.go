package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/gophvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-b string          storage backend (sqlite, postgres, file, s3, memory)
//	-D string          data directory
//	-s string          sqlite database file
//	-d string          postgres DSN
//	-q int             storage quota in bytes, 0 disables
//	-t duration        connect timeout
//	-l string          log level
//	-s3-bucket string
//	-s3-region string
//	-s3-endpoint string
//	-s3-prefix string
//
// os.Args is filtered with flagx.FilterArgs first so that flags owned by
// other components (-c, -E) do not break parsing. Credentials are only
// accepted from the environment or the JSON file.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-b", "-D", "-s", "-d", "-q", "-t", "-l",
		"-s3-bucket", "-s3-region", "-s3-endpoint", "-s3-prefix",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.StorageBackend, "b", cfg.StorageBackend, "storage backend")
	fs.StringVar(&cfg.DataDir, "D", cfg.DataDir, "data directory")
	fs.StringVar(&cfg.SQLitePath, "s", cfg.SQLitePath, "sqlite database file")
	fs.StringVar(&cfg.PostgresDSN, "d", cfg.PostgresDSN, "postgres DSN")
	fs.Int64Var(&cfg.QuotaBytes, "q", cfg.QuotaBytes, "storage quota in bytes")
	fs.DurationVar(&cfg.ConnectTimeout, "t", cfg.ConnectTimeout, "connect timeout")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.S3Bucket, "s3-bucket", cfg.S3Bucket, "s3 bucket")
	fs.StringVar(&cfg.S3Region, "s3-region", cfg.S3Region, "s3 region")
	fs.StringVar(&cfg.S3BaseEndpoint, "s3-endpoint", cfg.S3BaseEndpoint, "s3 endpoint override")
	fs.StringVar(&cfg.S3Prefix, "s3-prefix", cfg.S3Prefix, "s3 key prefix")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
