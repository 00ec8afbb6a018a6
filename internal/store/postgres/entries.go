package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"entityscrape/internal/store"
)

const searchVectorExpr = `setweight(to_tsvector('simple', coalesce($2, '')), 'A') ||
    setweight(to_tsvector('simple', array_to_string(%s, ' ')), 'B')`

func (c *Client) UpsertItem(ctx context.Context, in store.ItemInput) error {
	query := `
INSERT INTO items (id, name, members, tradeable, stackable, note, linked_note_id, placeholder_template_id, price, inventory_actions, source_file, source_hash, last_ingested, search_vector)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, now(), ` + fmt.Sprintf(searchVectorExpr, "$10::text[]") + `)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    members = EXCLUDED.members,
    tradeable = EXCLUDED.tradeable,
    stackable = EXCLUDED.stackable,
    note = EXCLUDED.note,
    linked_note_id = EXCLUDED.linked_note_id,
    placeholder_template_id = EXCLUDED.placeholder_template_id,
    price = EXCLUDED.price,
    inventory_actions = EXCLUDED.inventory_actions,
    source_file = EXCLUDED.source_file,
    source_hash = EXCLUDED.source_hash,
    last_ingested = now(),
    search_vector = EXCLUDED.search_vector
`

	it := in.Item
	_, err := c.pool.Exec(ctx, query,
		it.ID,
		it.Name,
		it.Members,
		it.Tradeable,
		it.Stackable,
		it.Note,
		it.LinkedNoteID,
		it.PlaceholderTemplateID,
		it.Price,
		nonNilStrings(it.InventoryActions),
		in.SourceFile,
		in.SourceHash,
	)
	if err != nil {
		return fmt.Errorf("upserting item %d: %w", it.ID, err)
	}
	return nil
}

func (c *Client) UpsertNPC(ctx context.Context, in store.NPCInput) error {
	query := `
INSERT INTO npcs (id, name, combat_level, models, size, clickable, actions, source_file, source_hash, last_ingested, search_vector)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, now(), ` + fmt.Sprintf(searchVectorExpr, "$7::text[]") + `)
ON CONFLICT (id) DO UPDATE SET
    name = EXCLUDED.name,
    combat_level = EXCLUDED.combat_level,
    models = EXCLUDED.models,
    size = EXCLUDED.size,
    clickable = EXCLUDED.clickable,
    actions = EXCLUDED.actions,
    source_file = EXCLUDED.source_file,
    source_hash = EXCLUDED.source_hash,
    last_ingested = now(),
    search_vector = EXCLUDED.search_vector
`

	n := in.NPC
	models := n.Models
	if models == nil {
		models = []int{}
	}
	_, err := c.pool.Exec(ctx, query,
		n.ID,
		n.Name,
		n.CombatLevel,
		models,
		n.Size,
		n.Clickable,
		nonNilStrings(n.Actions),
		in.SourceFile,
		in.SourceHash,
	)
	if err != nil {
		return fmt.Errorf("upserting npc %d: %w", n.ID, err)
	}
	return nil
}

func (c *Client) UpsertIcon(ctx context.Context, in store.IconInput) error {
	query := `
INSERT INTO icons (id, png, source_file, source_hash, last_ingested)
VALUES ($1, $2, $3, $4, now())
ON CONFLICT (id) DO UPDATE SET
    png = EXCLUDED.png,
    source_file = EXCLUDED.source_file,
    source_hash = EXCLUDED.source_hash,
    last_ingested = now()
`
	if _, err := c.pool.Exec(ctx, query, in.ID, in.PNG, in.SourceFile, in.SourceHash); err != nil {
		return fmt.Errorf("upserting icon %d: %w", in.ID, err)
	}
	return nil
}

func (c *Client) GetItem(ctx context.Context, id int) (*store.Item, error) {
	query := `
SELECT id, name, members, tradeable, stackable, note, linked_note_id, placeholder_template_id, price, inventory_actions,
    COALESCE(source_file, ''), COALESCE(source_hash, '')
FROM items
WHERE id = $1
`
	var item store.Item
	err := c.pool.QueryRow(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Members,
		&item.Tradeable,
		&item.Stackable,
		&item.Note,
		&item.LinkedNoteID,
		&item.PlaceholderTemplateID,
		&item.Price,
		&item.InventoryActions,
		&item.SourceFile,
		&item.SourceHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item %d: %w", id, err)
	}
	return &item, nil
}

func (c *Client) GetNPC(ctx context.Context, id int) (*store.NPC, error) {
	query := `
SELECT id, name, combat_level, models, size, clickable, actions,
    COALESCE(source_file, ''), COALESCE(source_hash, '')
FROM npcs
WHERE id = $1
`
	var npc store.NPC
	err := c.pool.QueryRow(ctx, query, id).Scan(
		&npc.ID,
		&npc.Name,
		&npc.CombatLevel,
		&npc.Models,
		&npc.Size,
		&npc.Clickable,
		&npc.Actions,
		&npc.SourceFile,
		&npc.SourceHash,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting npc %d: %w", id, err)
	}
	return &npc, nil
}

func (c *Client) GetIcon(ctx context.Context, id int) ([]byte, error) {
	var png []byte
	err := c.pool.QueryRow(ctx, "SELECT png FROM icons WHERE id = $1", id).Scan(&png)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting icon %d: %w", id, err)
	}
	return png, nil
}

func (c *Client) ListEntries(ctx context.Context, kind string) ([]store.Summary, error) {
	query := `
SELECT kind, id, name FROM (
    SELECT 'item' AS kind, id, name FROM items
    UNION ALL
    SELECT 'npc' AS kind, id, name FROM npcs
) entries
WHERE ($1 = '' OR kind = $1)
ORDER BY kind ASC, id ASC
`
	return c.querySummaries(ctx, query, kind)
}

func (c *Client) querySummaries(ctx context.Context, query string, args ...any) ([]store.Summary, error) {
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	summaries := []store.Summary{}
	for rows.Next() {
		var s store.Summary
		if err := rows.Scan(&s.Kind, &s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}
	return summaries, nil
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}
