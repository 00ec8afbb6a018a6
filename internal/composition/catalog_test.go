package composition

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLookups(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog()

	actions := []string{"", "Wield", "", "", "Drop"}
	catalog.PutItem(Item{ID: 4151, Name: "Abyssal whip", InventoryActions: actions})
	catalog.PutNPC(NPC{ID: 3010, Name: "Guard", Actions: []string{"Attack"}})

	item, err := catalog.Item(ctx, 4151)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "Abyssal whip", item.Name)

	// Neither the caller's slice nor a returned copy aliases the stored record.
	actions[1] = "Eat"
	item.InventoryActions[4] = "Destroy"
	again, err := catalog.Item(ctx, 4151)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "Wield", "", "", "Drop"}, again.InventoryActions)

	npc, err := catalog.NPC(ctx, 3010)
	require.NoError(t, err)
	require.NotNil(t, npc)
	assert.Equal(t, "Guard", npc.Name)

	missing, err := catalog.Item(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)
	missingNPC, err := catalog.NPC(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, missingNPC)
}

func TestCatalogIcons(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalog()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 36, 32))))
	catalog.PutIcon(4151, buf.Bytes())
	catalog.PutIcon(4152, []byte("not a png"))

	icon, err := catalog.Icon(ctx, 4151)
	require.NoError(t, err)
	require.NotNil(t, icon)
	assert.Equal(t, image.Rect(0, 0, 36, 32), icon.Bounds())

	_, err = catalog.Icon(ctx, 4152)
	assert.Error(t, err)

	none, err := catalog.Icon(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, none)
}
