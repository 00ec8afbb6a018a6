package ingest

import (
	"context"

	"entityscrape/internal/store"
)

// Store is the subset of store.Store an import needs.
type Store interface {
	EnsureSchema(ctx context.Context) error
	GetSourceHashes(ctx context.Context) (map[string]string, error)
	UpsertItem(ctx context.Context, in store.ItemInput) error
	UpsertNPC(ctx context.Context, in store.NPCInput) error
	UpsertIcon(ctx context.Context, in store.IconInput) error
	RemoveStale(ctx context.Context, currentSourceFiles []string) (int64, error)
}
