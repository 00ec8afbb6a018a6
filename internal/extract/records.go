package extract

import "entityscrape/internal/classify"

// Output document names.
const (
	SummaryFile     = "items-summary.json"
	ScraperFile     = "items-scraper.json"
	MetadataFile    = "items-metadata.json"
	NPCMetadataFile = "npcs-metadata.json"
)

type SummaryEntry struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ScraperItem is the full record written by the scraper pipeline.
type ScraperItem struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Members       bool   `json:"members"`
	TradeableOnGE bool   `json:"tradeable_on_ge"`
	Stackable     bool   `json:"stackable"`
	Noted         bool   `json:"noted"`
	Noteable      bool   `json:"noteable"`
	LinkedID      *int   `json:"linked_id"`
	Placeholder   bool   `json:"placeholder"`
	Equipable     bool   `json:"equipable"`
	Cost          int    `json:"cost"`
	LowAlch       int    `json:"lowalch"`
	HighAlch      int    `json:"highalch"`
}

// MetadataItem is the full record written by the metadata pipeline. It
// differs from ScraperItem only in the alchemy field names.
type MetadataItem struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Members       bool   `json:"members"`
	TradeableOnGE bool   `json:"tradeable_on_ge"`
	Stackable     bool   `json:"stackable"`
	Noted         bool   `json:"noted"`
	Noteable      bool   `json:"noteable"`
	LinkedID      *int   `json:"linked_id"`
	Placeholder   bool   `json:"placeholder"`
	Equipable     bool   `json:"equipable"`
	Cost          int    `json:"cost"`
	LowAlch       int    `json:"low_alch"`
	HighAlch      int    `json:"high_alch"`
}

type NPCMetadata struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	CombatLevel int      `json:"combat_level"`
	ModelIDs    []int    `json:"model_ids"`
	Size        int      `json:"size"`
	Clickable   bool     `json:"clickable"`
	Actions     []string `json:"actions"`
}

func scraperItem(item classify.Item) ScraperItem {
	return ScraperItem{
		ID:            item.ID,
		Name:          item.Name,
		Members:       item.Members,
		TradeableOnGE: item.TradeableOnGE,
		Stackable:     item.Stackable,
		Noted:         item.Noted,
		Noteable:      item.Noteable,
		LinkedID:      item.LinkedID,
		Placeholder:   item.Placeholder,
		Equipable:     item.Equipable,
		Cost:          item.Cost,
		LowAlch:       item.LowAlch,
		HighAlch:      item.HighAlch,
	}
}

func metadataItem(item classify.Item) MetadataItem {
	return MetadataItem(scraperItem(item))
}
