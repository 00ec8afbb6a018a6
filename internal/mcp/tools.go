package mcp

import (
	"context"
	"errors"
	"fmt"
	"sort"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"entityscrape/internal/classify"
	"entityscrape/internal/session"
	"entityscrape/internal/store"
)

var errNoCache = errors.New("no composition cache configured")

type RunCommandInput struct {
	Command string `json:"command" jsonschema:"chat command token, e.g. dump, items, npcs, icons, dumpnpcs, csave"`
}

type RunCommandOutput struct {
	Command string   `json:"command"`
	Known   bool     `json:"known"`
	Emitted int      `json:"emitted"`
	Written []string `json:"written"`
	Errors  []string `json:"errors"`
}

type GetStateInput struct{}

type LocationOutput struct {
	X     int `json:"x"`
	Y     int `json:"y"`
	Plane int `json:"plane"`
}

type TrackedNPCOutput struct {
	Index     int              `json:"index"`
	Name      string           `json:"name"`
	Locations []LocationOutput `json:"locations"`
}

type GetStateOutput struct {
	Tick           int                `json:"tick"`
	World          int                `json:"world"`
	ChatBuffered   int                `json:"chat_buffered"`
	VisiblePlayers int                `json:"visible_players"`
	NPCs           []TrackedNPCOutput `json:"npcs"`
}

type GetItemInput struct {
	ID int `json:"id" jsonschema:"item identifier"`
}

type ItemOutput struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Members       bool   `json:"members"`
	TradeableOnGE bool   `json:"tradeable_on_ge"`
	Stackable     bool   `json:"stackable"`
	Noted         bool   `json:"noted"`
	Noteable      bool   `json:"noteable"`
	LinkedID      *int   `json:"linked_id,omitempty"`
	Placeholder   bool   `json:"placeholder"`
	Equipable     bool   `json:"equipable"`
	Cost          int    `json:"cost"`
	LowAlch       int    `json:"low_alch"`
	HighAlch      int    `json:"high_alch"`
}

type GetNPCInput struct {
	ID int `json:"id" jsonschema:"npc identifier"`
}

type NPCOutput struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	CombatLevel int      `json:"combat_level"`
	Size        int      `json:"size"`
	Clickable   bool     `json:"clickable"`
	Actions     []string `json:"actions"`
}

type SearchInput struct {
	Query string `json:"query" jsonschema:"search terms"`
	Kind  string `json:"kind,omitempty" jsonschema:"restrict to item or npc"`
}

type SearchResultOutput struct {
	Kind    string  `json:"kind"`
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet,omitempty"`
}

type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "run_command",
		Description: "Run a chat command against the live session",
	}, s.handleRunCommand)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_state",
		Description: "Return the session tick, world and tracked NPC locations",
	}, s.handleGetState)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_item",
		Description: "Look up and classify an item composition",
	}, s.handleGetItem)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_npc",
		Description: "Look up an NPC composition",
	}, s.handleGetNPC)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "search_entries",
		Description: "Full-text search over cached item and NPC names",
	}, s.handleSearch)
}

func (s *Server) handleRunCommand(ctx context.Context, req *sdk.CallToolRequest, input RunCommandInput) (*sdk.CallToolResult, RunCommandOutput, error) {
	if input.Command == "" {
		return nil, RunCommandOutput{}, fmt.Errorf("command is required")
	}
	report, err := s.session.Exec(ctx, input.Command)
	if err != nil {
		return nil, RunCommandOutput{}, err
	}
	return nil, runCommandOutputFromReport(report), nil
}

func (s *Server) handleGetState(ctx context.Context, req *sdk.CallToolRequest, input GetStateInput) (*sdk.CallToolResult, GetStateOutput, error) {
	state, err := s.session.State(ctx)
	if err != nil {
		return nil, GetStateOutput{}, err
	}
	return nil, stateOutputFromSession(state), nil
}

func (s *Server) handleGetItem(ctx context.Context, req *sdk.CallToolRequest, input GetItemInput) (*sdk.CallToolResult, ItemOutput, error) {
	if s.source == nil {
		return nil, ItemOutput{}, errNoCache
	}
	item, err := s.source.Item(ctx, input.ID)
	if err != nil {
		return nil, ItemOutput{}, err
	}
	if item == nil {
		return nil, ItemOutput{}, fmt.Errorf("item %d not found", input.ID)
	}
	return nil, itemOutputFromClassified(classify.Classify(*item)), nil
}

func (s *Server) handleGetNPC(ctx context.Context, req *sdk.CallToolRequest, input GetNPCInput) (*sdk.CallToolResult, NPCOutput, error) {
	if s.source == nil {
		return nil, NPCOutput{}, errNoCache
	}
	npc, err := s.source.NPC(ctx, input.ID)
	if err != nil {
		return nil, NPCOutput{}, err
	}
	if npc == nil {
		return nil, NPCOutput{}, fmt.Errorf("npc %d not found", input.ID)
	}
	return nil, NPCOutput{
		ID:          npc.ID,
		Name:        npc.Name,
		CombatLevel: npc.CombatLevel,
		Size:        npc.Size,
		Clickable:   npc.Clickable,
		Actions:     append([]string{}, npc.Actions...),
	}, nil
}

func (s *Server) handleSearch(ctx context.Context, req *sdk.CallToolRequest, input SearchInput) (*sdk.CallToolResult, SearchOutput, error) {
	if input.Query == "" {
		return nil, SearchOutput{}, fmt.Errorf("query is required")
	}
	if s.searcher == nil {
		return nil, SearchOutput{}, errNoCache
	}
	if input.Kind != "" && input.Kind != store.KindItem && input.Kind != store.KindNPC {
		return nil, SearchOutput{}, fmt.Errorf("unknown kind %q", input.Kind)
	}
	results, err := s.searcher.Search(ctx, input.Query, input.Kind)
	if err != nil {
		return nil, SearchOutput{}, err
	}

	output := make([]SearchResultOutput, 0, len(results))
	for _, result := range results {
		output = append(output, SearchResultOutput{
			Kind:    result.Kind,
			ID:      result.ID,
			Name:    result.Name,
			Score:   result.Score,
			Snippet: result.Snippet,
		})
	}
	return nil, SearchOutput{Results: output}, nil
}

func runCommandOutputFromReport(report session.Report) RunCommandOutput {
	return RunCommandOutput{
		Command: report.Command,
		Known:   report.Known,
		Emitted: report.Emitted,
		Written: append([]string{}, report.Written...),
		Errors:  append([]string{}, report.Errors...),
	}
}

func stateOutputFromSession(state session.State) GetStateOutput {
	out := GetStateOutput{
		Tick:           state.Tick,
		World:          state.World,
		ChatBuffered:   state.ChatBuffered,
		VisiblePlayers: state.VisiblePlayers,
		NPCs:           make([]TrackedNPCOutput, 0, len(state.Locations)),
	}
	for index, entity := range state.Locations {
		npc := TrackedNPCOutput{
			Index:     index,
			Name:      entity.Name,
			Locations: make([]LocationOutput, 0, len(entity.Locations)),
		}
		for _, p := range entity.Locations {
			npc.Locations = append(npc.Locations, LocationOutput{X: p.X, Y: p.Y, Plane: p.Plane})
		}
		out.NPCs = append(out.NPCs, npc)
	}
	sort.Slice(out.NPCs, func(i, j int) bool { return out.NPCs[i].Index < out.NPCs[j].Index })
	return out
}

func itemOutputFromClassified(item classify.Item) ItemOutput {
	return ItemOutput{
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
