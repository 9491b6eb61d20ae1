package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophvault/internal/buildinfo"
	"github.com/dmitrijs2005/gophvault/internal/client/cli"
	"github.com/dmitrijs2005/gophvault/internal/client/config"
	"github.com/dmitrijs2005/gophvault/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gophvault/internal/client/services"
	"github.com/dmitrijs2005/gophvault/internal/client/storage"
	"github.com/dmitrijs2005/gophvault/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger logging.Logger) error {
	repo, closer, err := kv.Open(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closer.Close(); err != nil {
			logger.Error(ctx, "close storage", "error", err)
		}
	}()

	adapter := storage.NewAdapter(repo,
		storage.WithQuota(cfg.QuotaBytes),
		storage.WithLogger(logger),
	)

	session, err := services.NewSessionStore(ctx, adapter, services.WithLogger(logger))
	if err != nil {
		return err
	}
	defer session.Dispose()

	vault, err := services.NewVaultStore(ctx, adapter, services.WithLogger(logger))
	if err != nil {
		return err
	}
	defer vault.Dispose()

	logger.Info(ctx, "vault opened", "backend", cfg.StorageBackend)

	cli.NewApp(session, vault, os.Stdin, os.Stdout, logger).Run(ctx)
	return nil
}
