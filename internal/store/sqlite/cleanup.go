package sqlite

import (
	"context"
	"fmt"
	"strings"
)

var cacheTables = []string{"items", "npcs", "icons"}

// RemoveStale deletes every record whose source file is no longer in
// currentSourceFiles. An empty list removes nothing.
func (c *Client) RemoveStale(ctx context.Context, currentSourceFiles []string) (int64, error) {
	if len(currentSourceFiles) == 0 {
		return 0, nil
	}

	placeholders := make([]string, len(currentSourceFiles))
	args := make([]any, len(currentSourceFiles))
	for i, f := range currentSourceFiles {
		placeholders[i] = "?"
		args[i] = f
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var total int64
	for _, table := range cacheTables {
		query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE source_file IS NOT NULL
		  AND source_file <> ''
		  AND source_file NOT IN (%s)
		`, table, strings.Join(placeholders, ", "))

		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return 0, fmt.Errorf("removing stale %s: %w", table, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("getting rows affected: %w", err)
		}
		total += affected
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing cleanup: %w", err)
	}
	return total, nil
}

func (c *Client) GetSourceHashes(ctx context.Context) (map[string]string, error) {
	query := `
	SELECT source_file, source_hash FROM items
	WHERE source_file IS NOT NULL AND source_file <> ''
	UNION
	SELECT source_file, source_hash FROM npcs
	WHERE source_file IS NOT NULL AND source_file <> ''
	UNION
	SELECT source_file, source_hash FROM icons
	WHERE source_file IS NOT NULL AND source_file <> ''
	`

	rows, err := c.db.QueryContext(ctx, query)
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
