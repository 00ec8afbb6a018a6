// Package host reads the frames a game host emits and turns them into
// session events. Frames are JSON Lines, optionally zstd-compressed, and
// each line is checked against an embedded JSON schema before decoding.
package host

import (
	"errors"
	"fmt"

	"entityscrape/internal/chat"
	"entityscrape/internal/players"
	"entityscrape/internal/session"
	"entityscrape/internal/tracker"
)

var ErrUnknownFrame = errors.New("unknown frame type")

const (
	FrameTick    = "tick"
	FrameCommand = "command"
	FrameChat    = "chat"
	FrameMenu    = "menu"
)

type Frame struct {
	Type    string           `json:"type"`
	Tick    int              `json:"tick,omitempty"`
	World   int              `json:"world,omitempty"`
	NPCs    []*NPC           `json:"npcs,omitempty"`
	Players []players.Player `json:"players,omitempty"`
	Command string           `json:"command,omitempty"`
	Chat    *chat.Message    `json:"chat,omitempty"`
	Target  string           `json:"target,omitempty"`
}

// NPC is one visible NPC. Name is null for entries the host could not
// resolve yet.
type NPC struct {
	Index int     `json:"index"`
	Name  *string `json:"name"`
	X     int     `json:"x"`
	Y     int     `json:"y"`
	Plane int     `json:"plane"`
}

// Event converts the frame into the event the session loop consumes.
func (f *Frame) Event() (session.Event, error) {
	switch f.Type {
	case FrameTick:
		sightings := make([]*tracker.Sighting, len(f.NPCs))
		for i, npc := range f.NPCs {
			if npc == nil {
				continue
			}
			sightings[i] = &tracker.Sighting{
				Index:    npc.Index,
				Name:     npc.Name,
				Position: tracker.Position{X: npc.X, Y: npc.Y, Plane: npc.Plane},
			}
		}
		return session.TickEvent{
			Tick:    f.Tick,
			World:   f.World,
			NPCs:    sightings,
			Players: f.Players,
		}, nil
	case FrameCommand:
		return session.CommandEvent{Token: f.Command}, nil
	case FrameChat:
		if f.Chat == nil {
			return nil, errors.New("chat frame without message")
		}
		return session.ChatEvent{Message: *f.Chat}, nil
	case FrameMenu:
		return session.MenuEvent{Target: f.Target}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFrame, f.Type)
	}
}
