package postgres

import (
	"context"
	"fmt"
	"strings"

	"entityscrape/internal/store"
)

func (c *Client) Search(ctx context.Context, query, kind string) ([]store.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query must not be empty")
	}

	sql := `
SELECT kind, id, name, score, snippet FROM (
    SELECT 'item' AS kind, id, name,
        ts_rank(search_vector, websearch_to_tsquery('simple', $1)) AS score,
        ts_headline('simple', name, websearch_to_tsquery('simple', $1), 'StartSel=**, StopSel=**') AS snippet
    FROM items
    WHERE search_vector @@ websearch_to_tsquery('simple', $1)
    UNION ALL
    SELECT 'npc' AS kind, id, name,
        ts_rank(search_vector, websearch_to_tsquery('simple', $1)) AS score,
        ts_headline('simple', name, websearch_to_tsquery('simple', $1), 'StartSel=**, StopSel=**') AS snippet
    FROM npcs
    WHERE search_vector @@ websearch_to_tsquery('simple', $1)
) matches
WHERE ($2 = '' OR kind = $2)
ORDER BY score DESC, name ASC
LIMIT 50
`

	rows, err := c.pool.Query(ctx, sql, query, kind)
	if err != nil {
		return nil, fmt.Errorf("searching entries: %w", err)
	}
	defer rows.Close()

	results := []store.SearchResult{}
	for rows.Next() {
		var r store.SearchResult
		var score float32
		if err := rows.Scan(&r.Kind, &r.ID, &r.Name, &score, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search result: %w", err)
		}
		r.Score = float64(score)
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating search results: %w", err)
	}

	return results, nil
}
