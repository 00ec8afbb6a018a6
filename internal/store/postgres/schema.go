package postgres

import (
	"context"
	"fmt"
)

// EnsureSchema runs every statement in one Exec, which PostgreSQL applies
// inside an implicit transaction.
func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
CREATE TABLE IF NOT EXISTS items (
    id                      INTEGER PRIMARY KEY,
    name                    TEXT NOT NULL,
    members                 BOOLEAN NOT NULL DEFAULT FALSE,
    tradeable               BOOLEAN NOT NULL DEFAULT FALSE,
    stackable               BOOLEAN NOT NULL DEFAULT FALSE,
    note                    INTEGER NOT NULL DEFAULT -1,
    linked_note_id          INTEGER NOT NULL DEFAULT -1,
    placeholder_template_id INTEGER NOT NULL DEFAULT -1,
    price                   INTEGER NOT NULL DEFAULT 0,
    inventory_actions       TEXT[] NOT NULL DEFAULT '{}',
    source_file             TEXT,
    source_hash             TEXT,
    search_vector           TSVECTOR,
    last_ingested           TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS npcs (
    id            INTEGER PRIMARY KEY,
    name          TEXT NOT NULL,
    combat_level  INTEGER NOT NULL DEFAULT 0,
    models        INTEGER[] NOT NULL DEFAULT '{}',
    size          INTEGER NOT NULL DEFAULT 1,
    clickable     BOOLEAN NOT NULL DEFAULT TRUE,
    actions       TEXT[] NOT NULL DEFAULT '{}',
    source_file   TEXT,
    source_hash   TEXT,
    search_vector TSVECTOR,
    last_ingested TIMESTAMPTZ DEFAULT now()
);

CREATE TABLE IF NOT EXISTS icons (
    id            INTEGER PRIMARY KEY,
    png           BYTEA NOT NULL,
    source_file   TEXT,
    source_hash   TEXT,
    last_ingested TIMESTAMPTZ DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_items_search ON items USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_npcs_search ON npcs USING GIN (search_vector);
CREATE INDEX IF NOT EXISTS idx_items_source_file ON items (source_file);
CREATE INDEX IF NOT EXISTS idx_items_linked_note ON items (linked_note_id);
CREATE INDEX IF NOT EXISTS idx_npcs_source_file ON npcs (source_file);
CREATE INDEX IF NOT EXISTS idx_icons_source_file ON icons (source_file);
`
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
