package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"entityscrape/internal/composition"
	"entityscrape/internal/config"
	"entityscrape/internal/ingest"
	"entityscrape/internal/store"
	"entityscrape/internal/store/postgres"
	"entityscrape/internal/store/sqlite"
)

var errNoStore = errors.New("source.dsn is not configured")

func openStore(ctx context.Context, cfg *config.ProjectConfig) (store.Store, error) {
	dsn := cfg.Source.DSN
	switch {
	case dsn == "":
		return nil, errNoStore
	case strings.HasPrefix(dsn, "sqlite://"):
		client, err := sqlite.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		client, err := postgres.New(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported dsn scheme: %s", dsn)
	}
}

// compositionSource is what the scan, track and serve commands read
// compositions from. db is nil when the source is an in-memory catalog.
type compositionSource struct {
	composition.Source
	db store.Store
}

func (s *compositionSource) Close(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	return s.db.Close(ctx)
}

// openSource returns nil with no error when the config names neither a
// store nor a catalog.
func openSource(ctx context.Context, cfg *config.ProjectConfig, logger *zap.Logger) (*compositionSource, error) {
	switch {
	case cfg.Source.DSN != "":
		db, err := openStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return &compositionSource{Source: store.NewSource(db), db: db}, nil
	case cfg.Source.Catalog != "":
		catalog, result, err := ingest.LoadCatalog(ctx, cfg.Source.Catalog, logger)
		if err != nil {
			return nil, err
		}
		for _, err := range result.Errors {
			logger.Warn("catalog file skipped", zap.Error(err))
		}
		return &compositionSource{Source: catalog}, nil
	default:
		return nil, nil
	}
}
