package mcp

import (
	"context"
	"errors"
	"image"
	"testing"

	"entityscrape/internal/composition"
	"entityscrape/internal/session"
	"entityscrape/internal/store"
	"entityscrape/internal/tracker"
)

type mockSession struct {
	report  session.Report
	state   session.State
	err     error
	lastCmd string
}

func (m *mockSession) Exec(ctx context.Context, token string) (session.Report, error) {
	m.lastCmd = token
	return m.report, m.err
}

func (m *mockSession) State(ctx context.Context) (session.State, error) {
	return m.state, m.err
}

type mockSearcher struct {
	results   []store.SearchResult
	lastQuery string
	lastKind  string
}

func (m *mockSearcher) Search(ctx context.Context, query, kind string) ([]store.SearchResult, error) {
	m.lastQuery = query
	m.lastKind = kind
	return m.results, nil
}

type failingSource struct{}

func (failingSource) Item(ctx context.Context, id int) (*composition.Item, error) {
	return nil, errors.New("cache offline")
}

func (failingSource) NPC(ctx context.Context, id int) (*composition.NPC, error) {
	return nil, errors.New("cache offline")
}

func (failingSource) Icon(ctx context.Context, id int) (image.Image, error) {
	return nil, errors.New("cache offline")
}

func testCatalog() *composition.Catalog {
	catalog := composition.NewCatalog()
	catalog.PutItem(composition.Item{
		ID:                    1277,
		Name:                  "Bronze sword",
		Tradeable:             true,
		Note:                  composition.NoteNone,
		LinkedNoteID:          1278,
		PlaceholderTemplateID: composition.PlaceholderTemplateNone,
		Price:                 26,
		InventoryActions:      []string{"", "Wield", "", "", "Drop"},
	})
	catalog.PutNPC(composition.NPC{
		ID:          3010,
		Name:        "Guard",
		CombatLevel: 21,
		Size:        1,
		Clickable:   true,
		Actions:     []string{"", "Attack"},
	})
	return catalog
}

func TestRunCommand(t *testing.T) {
	sess := &mockSession{report: session.Report{
		Command: "items",
		Known:   true,
		Emitted: 2,
		Written: []string{"item_metadata.json"},
	}}
	server := NewServer(sess, nil, nil, "test")

	_, output, err := server.handleRunCommand(context.Background(), nil, RunCommandInput{Command: "items"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sess.lastCmd != "items" {
		t.Fatalf("expected items, got %q", sess.lastCmd)
	}
	if !output.Known || output.Emitted != 2 || len(output.Written) != 1 {
		t.Fatalf("unexpected output: %+v", output)
	}
}

func TestRunCommand_Errors(t *testing.T) {
	server := NewServer(&mockSession{err: session.ErrClosed}, nil, nil, "test")

	if _, _, err := server.handleRunCommand(context.Background(), nil, RunCommandInput{}); err == nil {
		t.Fatalf("expected error for empty command")
	}
	_, _, err := server.handleRunCommand(context.Background(), nil, RunCommandInput{Command: "dump"})
	if !errors.Is(err, session.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestGetState(t *testing.T) {
	sess := &mockSession{state: session.State{
		Tick:  7,
		World: 301,
		Locations: map[int]tracker.Entity{
			42: {Name: "Guard", Locations: []tracker.Position{{X: 3200, Y: 3200, Plane: 0}}},
			7:  {Name: "Man", Locations: []tracker.Position{{X: 3210, Y: 3205, Plane: 0}}},
		},
		ChatBuffered: 3,
	}}
	server := NewServer(sess, nil, nil, "test")

	_, output, err := server.handleGetState(context.Background(), nil, GetStateInput{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Tick != 7 || output.World != 301 || output.ChatBuffered != 3 {
		t.Fatalf("unexpected state: %+v", output)
	}
	if len(output.NPCs) != 2 || output.NPCs[0].Index != 7 || output.NPCs[1].Index != 42 {
		t.Fatalf("expected npcs sorted by index, got %+v", output.NPCs)
	}
	if got := output.NPCs[1].Locations; len(got) != 1 || got[0] != (LocationOutput{X: 3200, Y: 3200}) {
		t.Fatalf("unexpected locations: %+v", got)
	}
}

func TestGetItem(t *testing.T) {
	server := NewServer(&mockSession{}, testCatalog(), nil, "test")

	_, output, err := server.handleGetItem(context.Background(), nil, GetItemInput{ID: 1277})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Name != "Bronze sword" || !output.Equipable || !output.TradeableOnGE {
		t.Fatalf("unexpected item: %+v", output)
	}
	if output.LinkedID == nil || *output.LinkedID != 1278 || !output.Noteable || output.Noted {
		t.Fatalf("unexpected note fields: %+v", output)
	}
	if output.LowAlch != 10 || output.HighAlch != 15 {
		t.Fatalf("unexpected alch values: %d %d", output.LowAlch, output.HighAlch)
	}
}

func TestGetItem_NotFound(t *testing.T) {
	server := NewServer(&mockSession{}, testCatalog(), nil, "test")

	if _, _, err := server.handleGetItem(context.Background(), nil, GetItemInput{ID: 1}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestGetItem_NoCache(t *testing.T) {
	server := NewServer(&mockSession{}, nil, nil, "test")

	if _, _, err := server.handleGetItem(context.Background(), nil, GetItemInput{ID: 1277}); !errors.Is(err, errNoCache) {
		t.Fatalf("expected errNoCache, got %v", err)
	}
	if _, _, err := server.handleGetNPC(context.Background(), nil, GetNPCInput{ID: 3010}); !errors.Is(err, errNoCache) {
		t.Fatalf("expected errNoCache, got %v", err)
	}
}

func TestGetNPC(t *testing.T) {
	server := NewServer(&mockSession{}, testCatalog(), nil, "test")

	_, output, err := server.handleGetNPC(context.Background(), nil, GetNPCInput{ID: 3010})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if output.Name != "Guard" || output.CombatLevel != 21 || len(output.Actions) != 2 {
		t.Fatalf("unexpected npc: %+v", output)
	}

	failing := NewServer(&mockSession{}, failingSource{}, nil, "test")
	if _, _, err := failing.handleGetNPC(context.Background(), nil, GetNPCInput{ID: 3010}); err == nil {
		t.Fatalf("expected source error")
	}
}

func TestSearch(t *testing.T) {
	searcher := &mockSearcher{results: []store.SearchResult{
		{Kind: store.KindItem, ID: 1277, Name: "Bronze sword", Score: 1.5},
	}}
	server := NewServer(&mockSession{}, nil, searcher, "test")

	_, output, err := server.handleSearch(context.Background(), nil, SearchInput{Query: "bronze", Kind: store.KindItem})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(output.Results) != 1 || output.Results[0].ID != 1277 {
		t.Fatalf("unexpected search output: %+v", output)
	}
	if searcher.lastQuery != "bronze" || searcher.lastKind != store.KindItem {
		t.Fatalf("unexpected search params")
	}
}

func TestSearch_Validation(t *testing.T) {
	server := NewServer(&mockSession{}, nil, &mockSearcher{}, "test")

	if _, _, err := server.handleSearch(context.Background(), nil, SearchInput{}); err == nil {
		t.Fatalf("expected error for empty query")
	}
	if _, _, err := server.handleSearch(context.Background(), nil, SearchInput{Query: "x", Kind: "quest"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	noCache := NewServer(&mockSession{}, nil, nil, "test")
	if _, _, err := noCache.handleSearch(context.Background(), nil, SearchInput{Query: "x"}); !errors.Is(err, errNoCache) {
		t.Fatalf("expected errNoCache, got %v", err)
	}
}
