package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entityscrape/internal/composition"
)

func rawItem() composition.Item {
	return composition.Item{
		ID:                    1,
		Name:                  "Toolkit",
		Note:                  composition.NoteNone,
		LinkedNoteID:          composition.LinkedNoteNone,
		PlaceholderTemplateID: composition.PlaceholderTemplateNone,
	}
}

func TestAlchValues(t *testing.T) {
	cases := []struct {
		price int
		low   int
		high  int
	}{
		{price: 100, low: 40, high: 60},
		{price: 1, low: 0, high: 0},
		{price: 250, low: 100, high: 150},
		{price: 0, low: 0, high: 0},
		{price: 7, low: 2, high: 4},
		{price: -10, low: -4, high: -6},
		{price: -1, low: -1, high: -1},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.low, LowAlch(tc.price), "low alch for price %d", tc.price)
		assert.Equal(t, tc.high, HighAlch(tc.price), "high alch for price %d", tc.price)
	}
}

func TestNotedAndNoteable(t *testing.T) {
	t.Run("plain item", func(t *testing.T) {
		item := Classify(rawItem())
		assert.False(t, item.Noted)
		assert.False(t, item.Noteable)
		assert.Nil(t, item.LinkedID)
	})

	t.Run("noted item", func(t *testing.T) {
		raw := rawItem()
		raw.Note = composition.NoteTemplate
		item := Classify(raw)
		assert.True(t, item.Noted)
		assert.True(t, item.Noteable)
	})

	t.Run("unnoted item with linked note", func(t *testing.T) {
		raw := rawItem()
		raw.LinkedNoteID = 1512
		item := Classify(raw)
		assert.False(t, item.Noted)
		assert.True(t, item.Noteable)
		require.NotNil(t, item.LinkedID)
		assert.Equal(t, 1512, *item.LinkedID)
	})

	t.Run("other note codes are not noted", func(t *testing.T) {
		raw := rawItem()
		raw.Note = 800
		assert.False(t, Noted(raw))
	})
}

func TestNotedImpliesNoteable(t *testing.T) {
	for _, note := range []int{-1, 0, 799, 800} {
		for _, linked := range []int{-1, 0, 5, 799} {
			raw := rawItem()
			raw.Note = note
			raw.LinkedNoteID = linked
			item := Classify(raw)
			if item.Noted {
				assert.True(t, item.Noteable, "note=%d linked=%d", note, linked)
			}
			assert.Equal(t, linked == -1, item.LinkedID == nil, "note=%d linked=%d", note, linked)
		}
	}
}

func TestPlaceholder(t *testing.T) {
	raw := rawItem()
	assert.False(t, Placeholder(raw))
	raw.PlaceholderTemplateID = 14401
	assert.True(t, Placeholder(raw))
	raw.PlaceholderTemplateID = 14400
	assert.False(t, Placeholder(raw))
}

func TestEquipable(t *testing.T) {
	cases := []struct {
		name    string
		actions []string
		want    bool
	}{
		{name: "nil actions", actions: nil, want: false},
		{name: "no equip action", actions: []string{"", "", "", "", "Drop"}, want: false},
		{name: "wear", actions: []string{"", "Wear", "", "", "Drop"}, want: true},
		{name: "wield", actions: []string{"", "Wield"}, want: true},
		{name: "equip", actions: []string{"Equip"}, want: true},
		{name: "case sensitive", actions: []string{"wear", "WIELD"}, want: false},
		{name: "no partial match", actions: []string{"Wear-out"}, want: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := rawItem()
			raw.InventoryActions = tc.actions
			assert.Equal(t, tc.want, Equipable(raw))
		})
	}
}

func TestClassifyCopiesBaseFields(t *testing.T) {
	raw := composition.Item{
		ID:                    4151,
		Name:                  "Abyssal whip",
		Members:               true,
		Tradeable:             true,
		Stackable:             false,
		Note:                  composition.NoteNone,
		LinkedNoteID:          4152,
		PlaceholderTemplateID: composition.PlaceholderTemplateNone,
		Price:                 120001,
		InventoryActions:      []string{"", "Wield", "", "", "Drop"},
	}

	item := Classify(raw)
	assert.Equal(t, 4151, item.ID)
	assert.Equal(t, "Abyssal whip", item.Name)
	assert.True(t, item.Members)
	assert.True(t, item.TradeableOnGE)
	assert.False(t, item.Stackable)
	assert.True(t, item.Equipable)
	assert.Equal(t, 120001, item.Cost)
	assert.Equal(t, 48000, item.LowAlch)
	assert.Equal(t, 72000, item.HighAlch)
}
