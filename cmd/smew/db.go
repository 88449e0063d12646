package main

import (
	"context"
	"fmt"
	"strings"

	"smew/internal/config"
	"smew/internal/store"
	"smew/internal/store/postgres"
	"smew/internal/store/sqlite"
)

func openStore(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	dsn := strings.TrimSpace(cfg.Store.DSN)
	var (
		db  store.Store
		err error
	)
	switch {
	case dsn == "":
		return nil, fmt.Errorf("no store configured: set store.dsn in %s", configPath)
	case strings.HasPrefix(dsn, "sqlite://"):
		db, err = sqlite.New(ctx, dsn)
	default:
		db, err = postgres.New(ctx, dsn)
	}
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(ctx); err != nil {
		db.Close(ctx)
		return nil, err
	}
	return db, nil
}
