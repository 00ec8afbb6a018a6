package composition

import (
	"context"
	"image"
)

// Sentinel values carried by raw item compositions.
const (
	NoteNone                = -1
	NoteTemplate            = 799
	LinkedNoteNone          = -1
	PlaceholderTemplate     = 14401
	PlaceholderTemplateNone = -1
)

// Item is an immutable item composition as the content cache stores it.
type Item struct {
	ID                    int      `json:"id" yaml:"id"`
	Name                  string   `json:"name" yaml:"name"`
	Members               bool     `json:"members" yaml:"members"`
	Tradeable             bool     `json:"tradeable" yaml:"tradeable"`
	Stackable             bool     `json:"stackable" yaml:"stackable"`
	Note                  int      `json:"note" yaml:"note"`
	LinkedNoteID          int      `json:"linked_note_id" yaml:"linked_note_id"`
	PlaceholderTemplateID int      `json:"placeholder_template_id" yaml:"placeholder_template_id"`
	Price                 int      `json:"price" yaml:"price"`
	InventoryActions      []string `json:"inventory_actions" yaml:"inventory_actions"`
}

// NPC is an immutable NPC composition.
type NPC struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	CombatLevel int      `json:"combat_level" yaml:"combat_level"`
	Models      []int    `json:"models" yaml:"models"`
	Size        int      `json:"size" yaml:"size"`
	Clickable   bool     `json:"clickable" yaml:"clickable"`
	Actions     []string `json:"actions" yaml:"actions"`
}

// Source looks up compositions by identifier. A miss is reported as a nil
// result with a nil error; a non-nil error means the lookup itself failed.
type Source interface {
	Item(ctx context.Context, id int) (*Item, error)
	NPC(ctx context.Context, id int) (*NPC, error)
	Icon(ctx context.Context, id int) (image.Image, error)
}
