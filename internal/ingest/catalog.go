package ingest

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"entityscrape/internal/composition"
)

// LoadCatalog reads a catalog directory straight into an in-memory
// composition.Catalog, for runs that have no cache store configured.
// Per-file failures are collected in the result and the rest still load.
func LoadCatalog(ctx context.Context, catalogDir string, logger *zap.Logger) (*composition.Catalog, *Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	paths, err := walkCatalog(catalogDir, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("walking catalog %s: %w", catalogDir, err)
	}

	files := make([]*catalogFile, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files[i] = loadFile(path, nil)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	catalog := composition.NewCatalog()
	result := &Result{}
	for _, f := range files {
		switch {
		case f.err != nil:
			result.Errors = append(result.Errors, f.err)
		case f.skip:
			result.FilesSkipped++
		case f.icon:
			catalog.PutIcon(f.id, f.png)
			result.IconsUpserted++
		default:
			for _, item := range f.doc.Items {
				catalog.PutItem(item)
				result.ItemsUpserted++
			}
			for _, npc := range f.doc.NPCs {
				catalog.PutNPC(npc)
				result.NPCsUpserted++
			}
		}
	}

	logger.Debug("catalog loaded",
		zap.String("catalog", catalogDir),
		zap.Int("items", result.ItemsUpserted),
		zap.Int("npcs", result.NPCsUpserted),
		zap.Int("icons", result.IconsUpserted),
		zap.Int("errors", len(result.Errors)))
	return catalog, result, nil
}
