package store

import (
	"context"
	"image"

	"entityscrape/internal/composition"
)

var _ composition.Source = (*Source)(nil)

// Source serves compositions straight from a Store.
type Source struct {
	db Store
}

func NewSource(db Store) *Source {
	return &Source{db: db}
}

func (s *Source) Item(ctx context.Context, id int) (*composition.Item, error) {
	item, err := s.db.GetItem(ctx, id)
	if err != nil || item == nil {
		return nil, err
	}
	return &item.Item, nil
}

func (s *Source) NPC(ctx context.Context, id int) (*composition.NPC, error) {
	npc, err := s.db.GetNPC(ctx, id)
	if err != nil || npc == nil {
		return nil, err
	}
	return &npc.NPC, nil
}

func (s *Source) Icon(ctx context.Context, id int) (image.Image, error) {
	encoded, err := s.db.GetIcon(ctx, id)
	if err != nil || encoded == nil {
		return nil, err
	}
	return composition.DecodeIcon(encoded)
}
