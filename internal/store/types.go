package store

import "entityscrape/internal/composition"

const (
	KindItem = "item"
	KindNPC  = "npc"
)

type ItemInput struct {
	Item       composition.Item
	SourceFile string
	SourceHash string
}

type NPCInput struct {
	NPC        composition.NPC
	SourceFile string
	SourceHash string
}

type IconInput struct {
	ID         int
	PNG        []byte
	SourceFile string
	SourceHash string
}

type Item struct {
	composition.Item
	SourceFile string
	SourceHash string
}

type NPC struct {
	composition.NPC
	SourceFile string
	SourceHash string
}

type Summary struct {
	Kind string
	ID   int
	Name string
}

type SearchResult struct {
	Kind    string
	ID      int
	Name    string
	Score   float64
	Snippet string
}

// NoteLink is an item whose linked-note identifier does not resolve to a
// partner that links back.
type NoteLink struct {
	ItemID   int
	ItemName string
	LinkedID int
}
