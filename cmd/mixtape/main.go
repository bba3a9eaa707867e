package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"mixtape/internal/app/playlists"
	"mixtape/internal/archive"
	"mixtape/internal/config"
	"mixtape/internal/console"
	"mixtape/internal/export"
	"mixtape/internal/logging"
	"mixtape/internal/store"
)

func main() {
	os.Exit(run(os.Stdin, os.Stdout))
}

// run wires the program and returns its exit code, so deferred cleanup
// happens before the process exits.
func run(stdin io.Reader, stdout io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		logging.New(logging.Config{}).Error(err, "load config")
		return 1
	}

	logger := logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	logging.SetGlobalLogger(logger)
	logger.Debug("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.NewSession(ctx)

	dataStore := store.New(cfg.Store.Capacity, cfg.Store.PlaylistCapacity)

	opts := playlists.Options{
		Writer:  cfg.Writer(),
		Journal: export.Journal{Path: cfg.Save.Journal},
		Logger:  logger,
	}

	if cfg.Database.Enabled() {
		db, err := openArchiveDB(ctx, cfg.Database)
		if err != nil {
			logger.Error(err, "open archive database")
			return 1
		}
		defer db.Close()

		arch := archive.New(db)
		if err := arch.EnsureSchema(ctx); err != nil {
			logger.Error(err, "prepare archive schema")
			return 1
		}
		opts.Archiver = arch
		logger.Info("Archive database connected")
	} else {
		logger.Warn("DATABASE_URL not set, archive menu disabled")
	}

	svc := playlists.New(dataStore, opts)

	if cfg.Demo {
		if err := bootstrapDemoPlaylists(ctx, svc); err != nil {
			logger.Error(err, "seed demo playlists")
		}
	}

	logger.WithContext(ctx).Info().
		Int("store_capacity", dataStore.Capacity()).
		Int("playlist_capacity", dataStore.PlaylistCapacity()).
		Str("save_mode", string(cfg.Save.Mode)).
		Msg("Music playlist manager ready")

	if err := console.New(svc, stdin, stdout, logger).Run(ctx); err != nil {
		logger.Error(err, "console stopped")
		return 1
	}
	return 0
}
