package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/hpungsan/sprig/internal/config"
	"github.com/hpungsan/sprig/internal/db"
	"github.com/hpungsan/sprig/internal/store"
)

// openStore builds the key-value store named by cfg.Backend. The returned
// close function releases the underlying connection and is never nil.
// An unusable storage_key is rejected before any backend is opened.
func openStore(ctx context.Context, cfg *config.Config, baseDir string) (store.Store, func() error, error) {
	noop := func() error { return nil }

	if cfg.StorageKey != "" {
		if err := store.ValidateKey(cfg.StorageKey); err != nil {
			return nil, noop, fmt.Errorf("storage_key: %w", err)
		}
	}

	switch cfg.Backend {
	case store.BackendSQLite, "":
		database, err := db.Init(baseDir)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to initialize database: %w", err)
		}
		db.ConfigurePool(database, cfg)
		return store.NewSQLite(database), database.Close, nil

	case store.BackendFile:
		s, err := store.NewFile(filepath.Join(baseDir, "store"))
		if err != nil {
			return nil, noop, fmt.Errorf("failed to open file store: %w", err)
		}
		return s, noop, nil

	case store.BackendRedis:
		s, err := store.NewRedis(ctx, store.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	case store.BackendMemory:
		return store.NewMemory(), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown backend %q", cfg.Backend)
}
