package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/fsarwari/pgCompare/internal/catalog"
	"github.com/fsarwari/pgCompare/internal/config"
	"github.com/fsarwari/pgCompare/internal/connect"
	"github.com/fsarwari/pgCompare/internal/errs"
	"github.com/fsarwari/pgCompare/internal/filestore"
	"github.com/fsarwari/pgCompare/internal/filestore/minio"
	"github.com/fsarwari/pgCompare/internal/logger"
)

// app is everything a subcommand needs, built from the config file.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	fetcher *catalog.Fetcher
	conns   *connect.Manager
}

func loadApp() (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Log.Logger()
	if logLevel != "" {
		logCfg.Level = logLevel
	}
	log := logger.New(logCfg)
	logger.SetGlobal(log)

	return &app{
		cfg: cfg,
		log: log,
		fetcher: catalog.NewFetcher(cfg, catalog.Options{
			Strict: cfg.Engine.Strict,
			Engine: cfg.Engine.Options(),
			Logger: log,
		}),
		conns: connect.NewManager(cfg, nil, log),
	}, nil
}

func (a *app) Close() {
	a.conns.Close()
}

// store opens the archive backend named in the config.
func (a *app) store(ctx context.Context) (filestore.Store, string, error) {
	if !a.cfg.Archive.Enabled {
		return nil, "", errs.New(errs.ErrKindInvalidInput, "archive is not enabled in the config")
	}
	fsCfg := a.cfg.Archive.Filestore()

	if fsCfg.Provider == filestore.ProviderMemory {
		return nil, "", errs.New(errs.ErrKindInvalidInput,
			"archive.provider memory keeps nothing past this process; configure minio to archive from the CLI")
	}
	store, err := minio.New(ctx, fsCfg)
	if err != nil {
		return nil, "", err
	}

	if err := store.EnsureBucket(ctx, fsCfg.DefaultBucket); err != nil {
		_ = store.Close()
		return nil, "", err
	}
	return store, fsCfg.DefaultBucket, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
