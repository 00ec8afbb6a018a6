package postgres

import (
	"context"
	"fmt"
)

// RemoveStale deletes every record whose source file is no longer in
// currentSourceFiles. An empty list removes nothing.
func (c *Client) RemoveStale(ctx context.Context, currentSourceFiles []string) (int64, error) {
	if len(currentSourceFiles) == 0 {
		return 0, nil
	}

	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var total int64
	for _, table := range []string{"items", "npcs", "icons"} {
		query := fmt.Sprintf(`
DELETE FROM %s
WHERE source_file IS NOT NULL
  AND source_file <> ''
  AND NOT (source_file = ANY($1))
`, table)
		tag, err := tx.Exec(ctx, query, currentSourceFiles)
		if err != nil {
			return 0, fmt.Errorf("removing stale %s: %w", table, err)
		}
		total += tag.RowsAffected()
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing cleanup: %w", err)
	}
	return total, nil
}

func (c *Client) GetSourceHashes(ctx context.Context) (map[string]string, error) {
	query := `
SELECT source_file, source_hash FROM items WHERE source_file IS NOT NULL AND source_file <> ''
UNION
SELECT source_file, source_hash FROM npcs WHERE source_file IS NOT NULL AND source_file <> ''
UNION
SELECT source_file, source_hash FROM icons WHERE source_file IS NOT NULL AND source_file <> ''
`

	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query source hashes: %w", err)
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var sourceFile, sourceHash string
		if err := rows.Scan(&sourceFile, &sourceHash); err != nil {
			return nil, fmt.Errorf("scanning source hash: %w", err)
		}
		hashes[sourceFile] = sourceHash
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating source hashes: %w", err)
	}

	return hashes, nil
}
