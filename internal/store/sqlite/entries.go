package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"entityscrape/internal/store"
)

func (c *Client) UpsertItem(ctx context.Context, in store.ItemInput) error {
	actionsJSON, err := json.Marshal(nonNilStrings(in.Item.InventoryActions))
	if err != nil {
		return fmt.Errorf("marshaling inventory actions: %w", err)
	}

	query := `
	INSERT INTO items (id, name, members, tradeable, stackable, note, linked_note_id, placeholder_template_id, price, inventory_actions, source_file, source_hash, last_ingested)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		members = excluded.members,
		tradeable = excluded.tradeable,
		stackable = excluded.stackable,
		note = excluded.note,
		linked_note_id = excluded.linked_note_id,
		placeholder_template_id = excluded.placeholder_template_id,
		price = excluded.price,
		inventory_actions = excluded.inventory_actions,
		source_file = excluded.source_file,
		source_hash = excluded.source_hash,
		last_ingested = datetime('now')
	`

	it := in.Item
	_, err = c.db.ExecContext(ctx, query,
		it.ID,
		it.Name,
		it.Members,
		it.Tradeable,
		it.Stackable,
		it.Note,
		it.LinkedNoteID,
		it.PlaceholderTemplateID,
		it.Price,
		string(actionsJSON),
		in.SourceFile,
		in.SourceHash,
	)
	if err != nil {
		return fmt.Errorf("upserting item %d: %w", it.ID, err)
	}
	return nil
}

func (c *Client) UpsertNPC(ctx context.Context, in store.NPCInput) error {
	modelsJSON, err := json.Marshal(nonNilInts(in.NPC.Models))
	if err != nil {
		return fmt.Errorf("marshaling models: %w", err)
	}
	actionsJSON, err := json.Marshal(nonNilStrings(in.NPC.Actions))
	if err != nil {
		return fmt.Errorf("marshaling actions: %w", err)
	}

	query := `
	INSERT INTO npcs (id, name, combat_level, models, size, clickable, actions, source_file, source_hash, last_ingested)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))
	ON CONFLICT (id) DO UPDATE SET
		name = excluded.name,
		combat_level = excluded.combat_level,
		models = excluded.models,
		size = excluded.size,
		clickable = excluded.clickable,
		actions = excluded.actions,
		source_file = excluded.source_file,
		source_hash = excluded.source_hash,
		last_ingested = datetime('now')
	`

	n := in.NPC
	_, err = c.db.ExecContext(ctx, query,
		n.ID,
		n.Name,
		n.CombatLevel,
		string(modelsJSON),
		n.Size,
		n.Clickable,
		string(actionsJSON),
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
	VALUES (?, ?, ?, ?, datetime('now'))
	ON CONFLICT (id) DO UPDATE SET
		png = excluded.png,
		source_file = excluded.source_file,
		source_hash = excluded.source_hash,
		last_ingested = datetime('now')
	`
	if _, err := c.db.ExecContext(ctx, query, in.ID, in.PNG, in.SourceFile, in.SourceHash); err != nil {
		return fmt.Errorf("upserting icon %d: %w", in.ID, err)
	}
	return nil
}

func (c *Client) GetItem(ctx context.Context, id int) (*store.Item, error) {
	query := `
	SELECT id, name, members, tradeable, stackable, note, linked_note_id, placeholder_template_id, price, inventory_actions,
		   COALESCE(source_file, ''), COALESCE(source_hash, '')
	FROM items
	WHERE id = ?
	`

	var item store.Item
	var actions string
	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&item.ID,
		&item.Name,
		&item.Members,
		&item.Tradeable,
		&item.Stackable,
		&item.Note,
		&item.LinkedNoteID,
		&item.PlaceholderTemplateID,
		&item.Price,
		&actions,
		&item.SourceFile,
		&item.SourceHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(actions), &item.InventoryActions); err != nil {
		return nil, fmt.Errorf("unmarshaling inventory actions: %w", err)
	}
	return &item, nil
}

func (c *Client) GetNPC(ctx context.Context, id int) (*store.NPC, error) {
	query := `
	SELECT id, name, combat_level, models, size, clickable, actions,
		   COALESCE(source_file, ''), COALESCE(source_hash, '')
	FROM npcs
	WHERE id = ?
	`

	var npc store.NPC
	var models, actions string
	err := c.db.QueryRowContext(ctx, query, id).Scan(
		&npc.ID,
		&npc.Name,
		&npc.CombatLevel,
		&models,
		&npc.Size,
		&npc.Clickable,
		&actions,
		&npc.SourceFile,
		&npc.SourceHash,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting npc %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(models), &npc.Models); err != nil {
		return nil, fmt.Errorf("unmarshaling models: %w", err)
	}
	if err := json.Unmarshal([]byte(actions), &npc.Actions); err != nil {
		return nil, fmt.Errorf("unmarshaling actions: %w", err)
	}
	return &npc, nil
}

func (c *Client) GetIcon(ctx context.Context, id int) ([]byte, error) {
	var png []byte
	err := c.db.QueryRowContext(ctx, "SELECT png FROM icons WHERE id = ?", id).Scan(&png)
	if errors.Is(err, sql.ErrNoRows) {
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
	)
	WHERE (? = '' OR kind = ?)
	ORDER BY kind ASC, id ASC
	`
	return c.querySummaries(ctx, query, kind, kind)
}

func (c *Client) querySummaries(ctx context.Context, query string, args ...any) ([]store.Summary, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
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

func nonNilInts(v []int) []int {
	if v == nil {
		return []int{}
	}
	return v
}
