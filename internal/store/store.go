// Package store is the composition cache: items, NPCs and icons imported
// from catalog files, served back to the extractors by identifier.
package store

import (
	"context"
)

type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	UpsertItem(ctx context.Context, in ItemInput) error
	UpsertNPC(ctx context.Context, in NPCInput) error
	UpsertIcon(ctx context.Context, in IconInput) error
	RemoveStale(ctx context.Context, currentSourceFiles []string) (int64, error)
	GetSourceHashes(ctx context.Context) (map[string]string, error)

	GetItem(ctx context.Context, id int) (*Item, error)
	GetNPC(ctx context.Context, id int) (*NPC, error)
	GetIcon(ctx context.Context, id int) ([]byte, error)
	ListEntries(ctx context.Context, kind string) ([]Summary, error)
	Search(ctx context.Context, query, kind string) ([]SearchResult, error)

	ListDanglingNoteLinks(ctx context.Context) ([]NoteLink, error)
	ListOneWayNoteLinks(ctx context.Context) ([]NoteLink, error)
	ListItemsMissingIcon(ctx context.Context) ([]Summary, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
