package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entityscrape/internal/composition"
	"entityscrape/internal/store"
)

// Runs only against a disposable database named by ENTITYSCRAPE_TEST_POSTGRES.
func TestClient_Integration(t *testing.T) {
	dsn := os.Getenv("ENTITYSCRAPE_TEST_POSTGRES")
	if dsn == "" {
		t.Skip("ENTITYSCRAPE_TEST_POSTGRES not set")
	}
	ctx := context.Background()

	client, err := New(ctx, dsn)
	require.NoError(t, err)
	defer client.Close(ctx)
	require.NoError(t, client.EnsureSchema(ctx))

	require.NoError(t, client.UpsertItem(ctx, store.ItemInput{
		Item:       composition.Item{ID: 4151, Name: "Abyssal whip", Note: -1, LinkedNoteID: 4152, PlaceholderTemplateID: -1, InventoryActions: []string{"", "Wield"}},
		SourceFile: "it-items.yaml",
		SourceHash: "h1",
	}))
	require.NoError(t, client.UpsertNPC(ctx, store.NPCInput{
		NPC:        composition.NPC{ID: 3, Name: "Man", Models: []int{217}, Clickable: true},
		SourceFile: "it-npcs.yaml",
		SourceHash: "h2",
	}))

	item, err := client.GetItem(ctx, 4151)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, []string{"", "Wield"}, item.InventoryActions)

	npc, err := client.GetNPC(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, npc)
	assert.Equal(t, []int{217}, npc.Models)

	results, err := client.Search(ctx, "whip", store.KindItem)
	require.NoError(t, err)
	assert.NotEmpty(t, results)

	dangling, err := client.ListDanglingNoteLinks(ctx)
	require.NoError(t, err)
	assert.Contains(t, dangling, store.NoteLink{ItemID: 4151, ItemName: "Abyssal whip", LinkedID: 4152})

	_, err = client.RemoveStale(ctx, []string{"it-items.yaml"})
	require.NoError(t, err)
	npc, err = client.GetNPC(ctx, 3)
	require.NoError(t, err)
	assert.Nil(t, npc)
}
