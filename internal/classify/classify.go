// Package classify derives the inferred fields of an item from its raw
// composition. Every function here is pure and evaluated per record.
package classify

import (
	"math"

	"entityscrape/internal/composition"
)

var equipActions = []string{"Wear", "Wield", "Equip"}

// Item is a classified item composition.
type Item struct {
	ID            int
	Name          string
	Members       bool
	TradeableOnGE bool
	Stackable     bool
	Noted         bool
	Noteable      bool
	LinkedID      *int
	Placeholder   bool
	Equipable     bool
	Cost          int
	LowAlch       int
	HighAlch      int
}

// Classify derives every inferred field of c.
func Classify(c composition.Item) Item {
	return Item{
		ID:            c.ID,
		Name:          c.Name,
		Members:       c.Members,
		TradeableOnGE: c.Tradeable,
		Stackable:     c.Stackable,
		Noted:         Noted(c),
		Noteable:      Noteable(c),
		LinkedID:      LinkedID(c),
		Placeholder:   Placeholder(c),
		Equipable:     Equipable(c),
		Cost:          c.Price,
		LowAlch:       LowAlch(c.Price),
		HighAlch:      HighAlch(c.Price),
	}
}

// Noted reports whether c is the paper note form of an item.
func Noted(c composition.Item) bool {
	return c.Note == composition.NoteTemplate
}

// Noteable is true for noted items and for items with a linked note.
func Noteable(c composition.Item) bool {
	return Noted(c) || c.LinkedNoteID != composition.LinkedNoteNone
}

// LinkedID returns nil when the composition has no linked note.
func LinkedID(c composition.Item) *int {
	if c.LinkedNoteID == composition.LinkedNoteNone {
		return nil
	}
	id := c.LinkedNoteID
	return &id
}

// Placeholder reports whether c is a bank placeholder.
func Placeholder(c composition.Item) bool {
	return c.PlaceholderTemplateID == composition.PlaceholderTemplate
}

// Equipable matches action labels exactly and case-sensitively.
func Equipable(c composition.Item) bool {
	if c.InventoryActions == nil {
		return false
	}
	for _, action := range c.InventoryActions {
		for _, equip := range equipActions {
			if action == equip {
				return true
			}
		}
	}
	return false
}

// LowAlch is floor(price*0.4); negative prices are not clamped.
func LowAlch(price int) int {
	return int(math.Floor(float64(price) * 0.4))
}

// HighAlch is floor(price*0.6).
func HighAlch(price int) int {
	return int(math.Floor(float64(price) * 0.6))
}
