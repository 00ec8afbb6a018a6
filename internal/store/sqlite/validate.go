package sqlite

import (
	"context"
	"fmt"

	"entityscrape/internal/store"
)

func (c *Client) ListDanglingNoteLinks(ctx context.Context) ([]store.NoteLink, error) {
	query := `
	SELECT i.id, i.name, i.linked_note_id FROM items i
	WHERE i.linked_note_id <> -1
	  AND NOT EXISTS (SELECT 1 FROM items t WHERE t.id = i.linked_note_id)
	ORDER BY i.id
	`
	return c.queryNoteLinks(ctx, query)
}

func (c *Client) ListOneWayNoteLinks(ctx context.Context) ([]store.NoteLink, error) {
	query := `
	SELECT i.id, i.name, i.linked_note_id FROM items i
	JOIN items t ON t.id = i.linked_note_id
	WHERE i.linked_note_id <> -1
	  AND t.linked_note_id <> i.id
	ORDER BY i.id
	`
	return c.queryNoteLinks(ctx, query)
}

func (c *Client) ListItemsMissingIcon(ctx context.Context) ([]store.Summary, error) {
	query := `
	SELECT 'item', i.id, i.name FROM items i
	WHERE NOT EXISTS (SELECT 1 FROM icons WHERE icons.id = i.id)
	  AND lower(trim(i.name)) NOT IN ('', 'null')
	ORDER BY i.id
	`
	return c.querySummaries(ctx, query)
}

func (c *Client) queryNoteLinks(ctx context.Context, query string) ([]store.NoteLink, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing note links: %w", err)
	}
	defer rows.Close()

	links := []store.NoteLink{}
	for rows.Next() {
		var l store.NoteLink
		if err := rows.Scan(&l.ItemID, &l.ItemName, &l.LinkedID); err != nil {
			return nil, fmt.Errorf("scanning note link: %w", err)
		}
		links = append(links, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating note links: %w", err)
	}
	return links, nil
}
