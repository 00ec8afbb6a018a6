package sqlite

import (
	"context"
	"fmt"
	"strings"
)

func (c *Client) EnsureSchema(ctx context.Context) error {
	ddl := `
	CREATE TABLE IF NOT EXISTS items (
		id                      INTEGER PRIMARY KEY,
		name                    TEXT NOT NULL,
		members                 INTEGER NOT NULL DEFAULT 0,
		tradeable               INTEGER NOT NULL DEFAULT 0,
		stackable               INTEGER NOT NULL DEFAULT 0,
		note                    INTEGER NOT NULL DEFAULT -1,
		linked_note_id          INTEGER NOT NULL DEFAULT -1,
		placeholder_template_id INTEGER NOT NULL DEFAULT -1,
		price                   INTEGER NOT NULL DEFAULT 0,
		inventory_actions       TEXT DEFAULT '[]',
		source_file             TEXT,
		source_hash             TEXT,
		last_ingested           TEXT DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS npcs (
		id            INTEGER PRIMARY KEY,
		name          TEXT NOT NULL,
		combat_level  INTEGER NOT NULL DEFAULT 0,
		models        TEXT DEFAULT '[]',
		size          INTEGER NOT NULL DEFAULT 1,
		clickable     INTEGER NOT NULL DEFAULT 1,
		actions       TEXT DEFAULT '[]',
		source_file   TEXT,
		source_hash   TEXT,
		last_ingested TEXT DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS icons (
		id            INTEGER PRIMARY KEY,
		png           BLOB NOT NULL,
		source_file   TEXT,
		source_hash   TEXT,
		last_ingested TEXT DEFAULT (datetime('now'))
	);

	CREATE INDEX IF NOT EXISTS idx_items_source_file ON items (source_file);
	CREATE INDEX IF NOT EXISTS idx_items_linked_note ON items (linked_note_id);
	CREATE INDEX IF NOT EXISTS idx_npcs_source_file ON npcs (source_file);
	CREATE INDEX IF NOT EXISTS idx_icons_source_file ON icons (source_file);

	CREATE VIRTUAL TABLE IF NOT EXISTS entries_fts USING fts5(
		kind UNINDEXED,
		entry_id UNINDEXED,
		name,
		actions
	);

	CREATE TRIGGER IF NOT EXISTS items_ai AFTER INSERT ON items BEGIN
		INSERT INTO entries_fts(kind, entry_id, name, actions)
		VALUES ('item', new.id, new.name, new.inventory_actions);
	END;

	CREATE TRIGGER IF NOT EXISTS items_ad AFTER DELETE ON items BEGIN
		DELETE FROM entries_fts WHERE kind = 'item' AND entry_id = old.id;
	END;

	CREATE TRIGGER IF NOT EXISTS items_au AFTER UPDATE ON items BEGIN
		DELETE FROM entries_fts WHERE kind = 'item' AND entry_id = old.id;
		INSERT INTO entries_fts(kind, entry_id, name, actions)
		VALUES ('item', new.id, new.name, new.inventory_actions);
	END;

	CREATE TRIGGER IF NOT EXISTS npcs_ai AFTER INSERT ON npcs BEGIN
		INSERT INTO entries_fts(kind, entry_id, name, actions)
		VALUES ('npc', new.id, new.name, new.actions);
	END;

	CREATE TRIGGER IF NOT EXISTS npcs_ad AFTER DELETE ON npcs BEGIN
		DELETE FROM entries_fts WHERE kind = 'npc' AND entry_id = old.id;
	END;

	CREATE TRIGGER IF NOT EXISTS npcs_au AFTER UPDATE ON npcs BEGIN
		DELETE FROM entries_fts WHERE kind = 'npc' AND entry_id = old.id;
		INSERT INTO entries_fts(kind, entry_id, name, actions)
		VALUES ('npc', new.id, new.name, new.actions);
	END;
	`

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}

	return nil
}

// splitStatements splits on lines ending in ';'. Trigger bodies are kept
// whole by tracking BEGIN/END nesting.
func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder
	depth := 0

	for _, line := range strings.Split(ddl, "\n") {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)
		current.WriteString("\n")

		upper := strings.ToUpper(stripped)
		if strings.HasSuffix(upper, " BEGIN") {
			depth++
		}
		if upper == "END;" && depth > 0 {
			depth--
		}

		if depth == 0 && strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}

	if current.Len() > 0 {
		statements = append(statements, current.String())
	}

	return statements
}
