package session

import (
	"entityscrape/internal/chat"
	"entityscrape/internal/players"
	"entityscrape/internal/tracker"
)

// Event is anything the session loop consumes.
type Event interface {
	event()
}

// TickEvent carries one tick's visible NPCs and players. NPC entries and
// their names may be nil.
type TickEvent struct {
	Tick    int
	World   int
	NPCs    []*tracker.Sighting
	Players []players.Player
}

// CommandEvent runs the action bound to Token. When Reply is set the
// report is sent on it; Reply must be buffered.
type CommandEvent struct {
	Token string
	Reply chan<- Report
}

type ChatEvent struct {
	Message chat.Message
}

// MenuEvent asks for the player named by Target to be scraped.
type MenuEvent struct {
	Target string
}

// StateRequest asks the loop for a copy of its current state. Reply must
// be buffered.
type StateRequest struct {
	Reply chan<- State
}

// State is a point-in-time copy of the session's tracked data.
type State struct {
	Tick           int                    `json:"tick"`
	World          int                    `json:"world"`
	Locations      map[int]tracker.Entity `json:"locations"`
	ChatBuffered   int                    `json:"chat_buffered"`
	VisiblePlayers int                    `json:"visible_players"`
}

func (TickEvent) event()    {}
func (CommandEvent) event() {}
func (ChatEvent) event()    {}
func (MenuEvent) event()    {}
func (StateRequest) event() {}
