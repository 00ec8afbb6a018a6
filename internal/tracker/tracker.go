// Package tracker keeps a per-entity history of observed world positions.
//
// A Tracker is not safe for concurrent use. It is owned by the session loop,
// which serialises ticks, exports and resets.
package tracker

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// ExportFile is the document written on the dumpnpcs command.
const ExportFile = "npcs-locations.json"

// Position is a world coordinate. Two positions are equal when all three
// components are equal.
type Position struct {
	X     int
	Y     int
	Plane int
}

func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{p.X, p.Y, p.Plane})
}

func (p *Position) UnmarshalJSON(data []byte) error {
	var triple []int
	if err := json.Unmarshal(data, &triple); err != nil {
		return err
	}
	if len(triple) != 3 {
		return fmt.Errorf("position must have 3 components, got %d", len(triple))
	}
	p.X, p.Y, p.Plane = triple[0], triple[1], triple[2]
	return nil
}

// Sighting is one entry of a tick snapshot. A nil Name marks a transient
// entry that is not tracked.
type Sighting struct {
	Index    int
	Name     *string
	Position Position
}

// Entity is the tracked history of one entity index.
type Entity struct {
	Name      string     `json:"name"`
	Locations []Position `json:"npcWorldLocations"`
}

type Options struct {
	// AbortOnInvalid stops processing the rest of a snapshot at the first nil
	// entry or nil name instead of skipping just that entry.
	AbortOnInvalid bool
}

type Tracker struct {
	entities map[int]*Entity
	opts     Options
	log      *zap.Logger
}

func New(opts Options, logger *zap.Logger) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		entities: make(map[int]*Entity),
		opts:     opts,
		log:      logger,
	}
}

// Observe records one tick snapshot. It returns the number of positions
// appended across all entities.
func (t *Tracker) Observe(snapshot []*Sighting) int {
	added := 0
	for _, s := range snapshot {
		if s == nil || s.Name == nil {
			if t.opts.AbortOnInvalid {
				return added
			}
			continue
		}

		entity, ok := t.entities[s.Index]
		if !ok {
			t.log.Debug("tracking entity", zap.Int("index", s.Index), zap.String("name", *s.Name))
			t.entities[s.Index] = &Entity{
				Name:      *s.Name,
				Locations: []Position{s.Position},
			}
			added++
			continue
		}

		// TODO: index seen positions per entity once histories grow past a
		// linear scan; the slice must stay the source of insertion order.
		if containsPosition(entity.Locations, s.Position) {
			continue
		}
		entity.Locations = append(entity.Locations, s.Position)
		added++
	}
	return added
}

func containsPosition(history []Position, p Position) bool {
	for _, seen := range history {
		if seen == p {
			return true
		}
	}
	return false
}

// Export returns a deep copy of the tracked entities keyed by index.
func (t *Tracker) Export() map[int]Entity {
	doc := make(map[int]Entity, len(t.entities))
	for index, entity := range t.entities {
		doc[index] = Entity{
			Name:      entity.Name,
			Locations: append([]Position(nil), entity.Locations...),
		}
	}
	return doc
}

func (t *Tracker) Len() int {
	return len(t.entities)
}

func (t *Tracker) Reset() {
	t.entities = make(map[int]*Entity)
}
