// Package players scrapes the equipment of visible players into per-player
// JSON documents. Scrapes run on background goroutines so the caller never
// waits on composition lookups or file writes.
package players

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"entityscrape/internal/composition"
	"entityscrape/internal/export"
)

// EmptySlot marks an equipment slot with nothing in it.
const EmptySlot = -1

var tagPattern = regexp.MustCompile(`<[^>]*>`)

type Player struct {
	Name        string         `json:"name"`
	CombatLevel int            `json:"combat_level"`
	Equipment   map[string]int `json:"equipment"`
}

// Snapshot is the set of players visible on one tick.
type Snapshot struct {
	World   int
	Players []Player
}

type EquippedItem struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

type Record struct {
	Name        string                  `json:"name"`
	World       int                     `json:"world"`
	CombatLevel int                     `json:"combat_level"`
	Items       map[string]EquippedItem `json:"items"`
}

// CleanName strips markup tags from a menu target and replaces the
// non-breaking spaces the menu uses with plain spaces.
func CleanName(target string) string {
	return strings.ReplaceAll(tagPattern.ReplaceAllString(target, ""), "\u00a0", " ")
}

// Select returns the players to scrape: every player when all is set,
// otherwise the first player whose name matches target.
func Select(snapshot Snapshot, target string, all bool) []Player {
	if all {
		seen := make(map[string]struct{}, len(snapshot.Players))
		selected := make([]Player, 0, len(snapshot.Players))
		for _, p := range snapshot.Players {
			if p.Name == "" {
				continue
			}
			if _, ok := seen[p.Name]; ok {
				continue
			}
			seen[p.Name] = struct{}{}
			selected = append(selected, p)
		}
		return selected
	}

	name := CleanName(target)
	for _, p := range snapshot.Players {
		if p.Name == name {
			return []Player{p}
		}
	}
	return nil
}

// Resolve looks up every equipped item of p.
func Resolve(ctx context.Context, source composition.Source, world int, p Player) (Record, error) {
	record := Record{
		Name:        p.Name,
		World:       world,
		CombatLevel: p.CombatLevel,
		Items:       make(map[string]EquippedItem),
	}

	slots := make([]string, 0, len(p.Equipment))
	for slot := range p.Equipment {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	for _, slot := range slots {
		id := p.Equipment[slot]
		if id == EmptySlot {
			continue
		}
		item, err := source.Item(ctx, id)
		if err != nil {
			return Record{}, fmt.Errorf("looking up %s item %d: %w", slot, id, err)
		}
		if item == nil {
			continue
		}
		record.Items[strings.ToLower(slot)] = EquippedItem{Name: item.Name, ID: item.ID}
	}
	return record, nil
}

type Scraper struct {
	source composition.Source
	sink   export.Sink
	log    *zap.Logger

	wg sync.WaitGroup
}

func NewScraper(source composition.Source, sink export.Sink, logger *zap.Logger) *Scraper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scraper{source: source, sink: sink, log: logger}
}

// Enqueue starts a background scrape of the selected players and returns
// immediately. The snapshot must not be shared with the caller afterwards.
func (s *Scraper) Enqueue(ctx context.Context, snapshot Snapshot, target string, all bool) string {
	job := uuid.NewString()
	log := s.log.With(zap.String("job", job))

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		selected := Select(snapshot, target, all)
		if len(selected) == 0 {
			log.Debug("no matching player", zap.String("target", CleanName(target)))
			return
		}
		for _, p := range selected {
			if err := ctx.Err(); err != nil {
				return
			}
			record, err := Resolve(ctx, s.source, snapshot.World, p)
			if err != nil {
				log.Warn("resolving player failed", zap.String("player", p.Name), zap.Error(err))
				continue
			}
			name, err := FileName(record.Name)
			if err != nil {
				log.Warn("skipping player", zap.String("player", p.Name), zap.Error(err))
				continue
			}
			if err := s.sink.WriteJSON(name, record); err != nil {
				log.Warn("writing player failed", zap.String("player", p.Name), zap.Error(err))
				continue
			}
			log.Debug("scraped player", zap.String("player", p.Name), zap.Int("items", len(record.Items)))
		}
	}()
	return job
}

// FileName is the document a player's record is written to. Names that
// would resolve outside the players directory are rejected.
func FileName(player string) (string, error) {
	name := player + ".json"
	if player == "" || filepath.Base(name) != name || !filepath.IsLocal(name) {
		return "", fmt.Errorf("unsafe player name %q", player)
	}
	return name, nil
}

// Wait blocks until every enqueued scrape has finished.
func (s *Scraper) Wait() {
	s.wg.Wait()
}
