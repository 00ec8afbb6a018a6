package players

import (
	"context"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"entityscrape/internal/composition"
	"entityscrape/internal/export"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memorySink struct {
	mu   sync.Mutex
	docs map[string]any
}

func (s *memorySink) WriteJSON(name string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.docs == nil {
		s.docs = make(map[string]any)
	}
	s.docs[name] = v
	return nil
}

func (s *memorySink) WriteIcon(id int, img image.Image) error { return nil }

func testSource() *composition.Catalog {
	catalog := composition.NewCatalog()
	catalog.PutItem(composition.Item{ID: 1163, Name: "Rune full helm"})
	catalog.PutItem(composition.Item{ID: 4151, Name: "Abyssal whip"})
	return catalog
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "Zezima", CleanName("<col=ffffff>Zezima</col>"))
	assert.Equal(t, "Iron Man", CleanName("Iron\u00a0Man"))
	assert.Equal(t, "B0aty", CleanName("<img=2>B0aty"))
}

func TestSelect(t *testing.T) {
	snapshot := Snapshot{World: 301, Players: []Player{
		{Name: "Alice", CombatLevel: 3},
		{Name: "Bob Smith", CombatLevel: 90},
		{Name: "Alice", CombatLevel: 100},
		{Name: ""},
	}}

	t.Run("target by cleaned name", func(t *testing.T) {
		got := Select(snapshot, "<col=ff>Bob Smith</col>", false)
		require.Len(t, got, 1)
		assert.Equal(t, 90, got[0].CombatLevel)
	})

	t.Run("first match wins", func(t *testing.T) {
		got := Select(snapshot, "Alice", false)
		require.Len(t, got, 1)
		assert.Equal(t, 3, got[0].CombatLevel)
	})

	t.Run("missing target", func(t *testing.T) {
		assert.Empty(t, Select(snapshot, "Carol", false))
	})

	t.Run("all players", func(t *testing.T) {
		got := Select(snapshot, "", true)
		require.Len(t, got, 2)
		assert.Equal(t, "Alice", got[0].Name)
		assert.Equal(t, "Bob Smith", got[1].Name)
	})
}

func TestResolve(t *testing.T) {
	p := Player{Name: "Alice", CombatLevel: 70, Equipment: map[string]int{
		"HEAD":   1163,
		"weapon": 4151,
		"cape":   EmptySlot,
		"legs":   99999,
	}}

	record, err := Resolve(context.Background(), testSource(), 302, p)
	require.NoError(t, err)
	assert.Equal(t, Record{
		Name:        "Alice",
		World:       302,
		CombatLevel: 70,
		Items: map[string]EquippedItem{
			"head":   {Name: "Rune full helm", ID: 1163},
			"weapon": {Name: "Abyssal whip", ID: 4151},
		},
	}, record)
}

func TestScraper_WritesSelectedPlayers(t *testing.T) {
	sink := &memorySink{}
	scraper := NewScraper(testSource(), sink, nil)

	snapshot := Snapshot{World: 301, Players: []Player{
		{Name: "Alice", Equipment: map[string]int{"weapon": 4151}},
		{Name: "Bob"},
	}}
	job := scraper.Enqueue(context.Background(), snapshot, "", true)
	scraper.Wait()

	assert.NotEmpty(t, job)
	require.Contains(t, sink.docs, "Alice.json")
	require.Contains(t, sink.docs, "Bob.json")
	alice := sink.docs["Alice.json"].(Record)
	assert.Equal(t, 301, alice.World)
	assert.Equal(t, EquippedItem{Name: "Abyssal whip", ID: 4151}, alice.Items["weapon"])
}

func TestScraper_FileSink(t *testing.T) {
	dir := t.TempDir()
	scraper := NewScraper(testSource(), export.NewFileSink(export.Options{Dir: dir}, nil), nil)

	scraper.Enqueue(context.Background(), Snapshot{World: 1, Players: []Player{{Name: "Zezima", CombatLevel: 126}}}, "Zezima", false)
	scraper.Wait()

	data, err := os.ReadFile(filepath.Join(dir, "Zezima.json"))
	require.NoError(t, err)
	var record Record
	require.NoError(t, json.Unmarshal(data, &record))
	assert.Equal(t, 126, record.CombatLevel)
	assert.Empty(t, record.Items)
}

func TestFileName(t *testing.T) {
	name, err := FileName("Iron Man")
	require.NoError(t, err)
	assert.Equal(t, "Iron Man.json", name)

	for _, bad := range []string{"", "../escaped", "a/b", "/etc/passwd", ".."} {
		_, err := FileName(bad)
		assert.Error(t, err, bad)
	}
}

func TestScraper_RejectsEscapingName(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "playerscraper")
	scraper := NewScraper(testSource(), export.NewFileSink(export.Options{Dir: dir}, nil), nil)

	snapshot := Snapshot{World: 1, Players: []Player{{Name: "../escaped"}, {Name: "Zezima"}}}
	scraper.Enqueue(context.Background(), snapshot, "", true)
	scraper.Wait()

	_, err := os.Stat(filepath.Join(root, "escaped.json"))
	assert.True(t, os.IsNotExist(err), "record written outside %s", dir)
	_, err = os.Stat(filepath.Join(dir, "Zezima.json"))
	assert.NoError(t, err)
}
