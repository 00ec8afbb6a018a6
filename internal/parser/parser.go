// Package parser reads catalog files: YAML (or JSON) documents holding
// lists of raw item and NPC compositions.
package parser

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"entityscrape/internal/composition"
)

type Document struct {
	Items      []composition.Item
	NPCs       []composition.NPC
	SourceFile string
}

var (
	ErrNoEntries   = errors.New("no items or npcs found")
	ErrInvalidYAML = errors.New("invalid YAML in catalog file")
	ErrMissingID   = errors.New("entry missing required 'id' field")
	ErrNegativeID  = errors.New("entry id must not be negative")
)

type rawCatalog struct {
	Items []rawItem `yaml:"items"`
	NPCs  []rawNPC  `yaml:"npcs"`
}

// rawItem leaves sentinel-bearing fields as pointers so an absent key can
// be told apart from an explicit zero.
type rawItem struct {
	ID                    *int     `yaml:"id"`
	Name                  string   `yaml:"name"`
	Members               bool     `yaml:"members"`
	Tradeable             bool     `yaml:"tradeable"`
	Stackable             bool     `yaml:"stackable"`
	Note                  *int     `yaml:"note"`
	LinkedNoteID          *int     `yaml:"linked_note_id"`
	PlaceholderTemplateID *int     `yaml:"placeholder_template_id"`
	Price                 int      `yaml:"price"`
	InventoryActions      []string `yaml:"inventory_actions"`
}

type rawNPC struct {
	ID          *int     `yaml:"id"`
	Name        string   `yaml:"name"`
	CombatLevel int      `yaml:"combat_level"`
	Models      []int    `yaml:"models"`
	Size        int      `yaml:"size"`
	Clickable   *bool    `yaml:"clickable"`
	Actions     []string `yaml:"actions"`
}

func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, err
	}
	doc.SourceFile = path
	return doc, nil
}

func Parse(content []byte) (*Document, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, ErrInvalidYAML
	}
	if len(raw.Items) == 0 && len(raw.NPCs) == 0 {
		return nil, ErrNoEntries
	}

	doc := &Document{
		Items: make([]composition.Item, 0, len(raw.Items)),
		NPCs:  make([]composition.NPC, 0, len(raw.NPCs)),
	}
	seen := make(map[int]struct{}, len(raw.Items))
	for i, r := range raw.Items {
		id, err := entryID(r.ID)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate item id %d", id)
		}
		seen[id] = struct{}{}
		doc.Items = append(doc.Items, composition.Item{
			ID:                    id,
			Name:                  r.Name,
			Members:               r.Members,
			Tradeable:             r.Tradeable,
			Stackable:             r.Stackable,
			Note:                  intOr(r.Note, composition.NoteNone),
			LinkedNoteID:          intOr(r.LinkedNoteID, composition.LinkedNoteNone),
			PlaceholderTemplateID: intOr(r.PlaceholderTemplateID, composition.PlaceholderTemplateNone),
			Price:                 r.Price,
			InventoryActions:      r.InventoryActions,
		})
	}

	seen = make(map[int]struct{}, len(raw.NPCs))
	for i, r := range raw.NPCs {
		id, err := entryID(r.ID)
		if err != nil {
			return nil, fmt.Errorf("npc %d: %w", i, err)
		}
		if _, dup := seen[id]; dup {
			return nil, fmt.Errorf("duplicate npc id %d", id)
		}
		seen[id] = struct{}{}
		clickable := true
		if r.Clickable != nil {
			clickable = *r.Clickable
		}
		doc.NPCs = append(doc.NPCs, composition.NPC{
			ID:          id,
			Name:        r.Name,
			CombatLevel: r.CombatLevel,
			Models:      r.Models,
			Size:        r.Size,
			Clickable:   clickable,
			Actions:     r.Actions,
		})
	}
	return doc, nil
}

// IconID reports the identifier an icon file is named after, e.g.
// icons/4151.png.
func IconID(path string) (int, bool) {
	base := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(base), ".png") {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}

// IsCatalogFile reports whether path has a catalog extension.
func IsCatalogFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

func entryID(id *int) (int, error) {
	if id == nil {
		return 0, ErrMissingID
	}
	if *id < 0 {
		return 0, ErrNegativeID
	}
	return *id, nil
}

func intOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
