package composition

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"sync"
)

var _ Source = (*Catalog)(nil)

// Catalog is an in-memory Source. Icons are held as encoded PNG bytes and
// decoded on lookup, the same way the database-backed stores serve them.
type Catalog struct {
	mu    sync.RWMutex
	items map[int]Item
	npcs  map[int]NPC
	icons map[int][]byte
}

func NewCatalog() *Catalog {
	return &Catalog{
		items: make(map[int]Item),
		npcs:  make(map[int]NPC),
		icons: make(map[int][]byte),
	}
}

func (c *Catalog) PutItem(item Item) {
	c.mu.Lock()
	defer c.mu.Unlock()
	item.InventoryActions = append([]string(nil), item.InventoryActions...)
	c.items[item.ID] = item
}

func (c *Catalog) PutNPC(npc NPC) {
	c.mu.Lock()
	defer c.mu.Unlock()
	npc.Models = append([]int(nil), npc.Models...)
	npc.Actions = append([]string(nil), npc.Actions...)
	c.npcs[npc.ID] = npc
}

func (c *Catalog) PutIcon(id int, encoded []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.icons[id] = append([]byte(nil), encoded...)
}

func (c *Catalog) Item(ctx context.Context, id int) (*Item, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	item, ok := c.items[id]
	if !ok {
		return nil, nil
	}
	item.InventoryActions = append([]string(nil), item.InventoryActions...)
	return &item, nil
}

func (c *Catalog) NPC(ctx context.Context, id int) (*NPC, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	npc, ok := c.npcs[id]
	if !ok {
		return nil, nil
	}
	npc.Models = append([]int(nil), npc.Models...)
	npc.Actions = append([]string(nil), npc.Actions...)
	return &npc, nil
}

func (c *Catalog) Icon(ctx context.Context, id int) (image.Image, error) {
	c.mu.RLock()
	encoded, ok := c.icons[id]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return DecodeIcon(encoded)
}

// DecodeIcon decodes a stored PNG icon.
func DecodeIcon(encoded []byte) (image.Image, error) {
	img, err := png.Decode(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("decoding icon: %w", err)
	}
	return img, nil
}
