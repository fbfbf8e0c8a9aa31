package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/hoangnm2212/meetmerge/internal/cli"
	"github.com/hoangnm2212/meetmerge/internal/composer"
	"github.com/hoangnm2212/meetmerge/internal/config"
	"github.com/hoangnm2212/meetmerge/internal/logger"
	"github.com/hoangnm2212/meetmerge/internal/metrics"
	"github.com/hoangnm2212/meetmerge/internal/processor"
	"github.com/hoangnm2212/meetmerge/internal/store"
	"github.com/hoangnm2212/meetmerge/internal/summarizer"
	"github.com/hoangnm2212/meetmerge/internal/transcriber"
	"github.com/hoangnm2212/meetmerge/pkg/executor"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env for local development; secrets can also come from the
	// real environment.
	_ = godotenv.Load()

	configPath := os.Getenv("MEETMERGE_CONFIG")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	ctx := context.Background()

	if err := ensureDirectories(cfg); err != nil {
		return err
	}

	st, err := store.New(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("connecting store: %w", err)
	}

	if cfg.Metrics.Enabled {
		go func() {
			if err := metrics.Serve(cfg.Metrics.Address); err != nil {
				log.Error(ctx, "Metrics server stopped: %v", err)
			}
		}()
		log.Info(ctx, "Metrics listening on %s", cfg.Metrics.Address)
	}

	exec := executor.New()
	comp := composer.New(cfg, exec, log)
	tr := transcriber.New(cfg, exec, log)
	sum := summarizer.New(cfg.Gemini.APIKeys, cfg.Gemini.Model, log)
	proc := processor.New(cfg, st, comp, tr, sum, log)

	deps := &cli.Dependencies{
		Config:    cfg,
		Logger:    log,
		Store:     st,
		Processor: proc,
	}

	return cli.NewRootCmd(deps).ExecuteContext(ctx)
}

// ensureDirectories creates the working directories if they don't exist.
func ensureDirectories(cfg *config.Config) error {
	dirs := []string{
		cfg.Paths.Inbox,
		cfg.Paths.Uploads,
		cfg.Paths.Merged,
		cfg.Paths.Temp,
		cfg.Paths.Output,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
