package kv

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/gophvault/internal/client/config"
	"github.com/dmitrijs2005/gophvault/internal/client/migrations"
	"github.com/dmitrijs2005/gophvault/internal/common"
	"github.com/dmitrijs2005/gophvault/internal/filex"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

var (
	sqlOpen = sql.Open

	// gooseUpContext is a seam for testing goose.UpContext.
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}

	dialS3 = func(ctx context.Context, o S3Options) (Repository, error) {
		return DialS3(ctx, o)
	}
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

var nopCloser = closerFunc(func() error { return nil })

// Open builds the Repository selected by cfg.StorageBackend. The returned
// Closer releases the underlying connection and must be called once the
// repository is no longer used.
func Open(ctx context.Context, cfg *config.Config, logger logging.Logger) (Repository, io.Closer, error) {
	log := logger.With("backend", cfg.StorageBackend)

	switch cfg.StorageBackend {
	case config.BackendSQLite:
		path := cfg.SQLiteFile()
		if _, err := filex.EnsureDir(filepath.Dir(path)); err != nil {
			return nil, nil, err
		}
		db, err := openSQL(ctx, "sqlite", path, "sqlite3", migrations.SQLiteDir, cfg)
		if err != nil {
			return nil, nil, err
		}
		// A single connection serialises writers, which SQLite needs anyway.
		db.SetMaxOpenConns(1)
		log.Info(ctx, "storage opened", "path", path)
		return NewSQLiteRepository(db), db, nil

	case config.BackendPostgres:
		db, err := openSQL(ctx, "pgx", cfg.PostgresDSN, "pgx", migrations.PostgresDir, cfg)
		if err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "storage opened")
		return NewPostgresRepository(db), db, nil

	case config.BackendFile:
		dir, err := filex.EnsureDir(filepath.Join(cfg.DataDir, "kv"))
		if err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "storage opened", "dir", dir)
		return NewFileRepository(dir), nopCloser, nil

	case config.BackendS3:
		repo, err := dialS3(ctx, S3Options{
			Bucket:       cfg.S3Bucket,
			Prefix:       cfg.S3Prefix,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		})
		if err != nil {
			return nil, nil, err
		}
		log.Info(ctx, "storage opened", "bucket", cfg.S3Bucket, "prefix", cfg.S3Prefix)
		return repo, nopCloser, nil

	case config.BackendMemory:
		log.Warn(ctx, "using in-memory storage, nothing survives exit")
		return NewMemoryRepository(), nopCloser, nil
	}

	return nil, nil, fmt.Errorf("%w: %q", common.ErrUnknownBackend, cfg.StorageBackend)
}

// openSQL opens the database, checks it is reachable within the connect
// timeout and applies the embedded migrations for dialect.
func openSQL(ctx context.Context, driver, dsn, dialect, dir string, cfg *config.Config) (*sql.DB, error) {
	db, err := sqlOpen(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}

	pingCtx := ctx
	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}

	if err := RunMigrations(ctx, db, dialect, dir); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// RunMigrations sets up goose with the embedded migrations and applies the
// ones under dir.
func RunMigrations(ctx context.Context, db *sql.DB, dialect, dir string) error {
	goose.SetBaseFS(migrations.Migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
