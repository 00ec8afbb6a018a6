package ingest

import (
	"context"
	"path/filepath"
	"testing"
)

func TestLoadCatalog(t *testing.T) {
	dir := writeCatalog(t)

	catalog, result, err := LoadCatalog(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if result.ItemsUpserted != 2 || result.NPCsUpserted != 1 || result.IconsUpserted != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected one parse error, got %v", result.Errors)
	}

	ctx := context.Background()
	item, err := catalog.Item(ctx, 4152)
	if err != nil || item == nil {
		t.Fatalf("expected item 4152, got %v %v", item, err)
	}
	if item.Note != 799 || item.LinkedNoteID != 4151 {
		t.Fatalf("unexpected item: %+v", item)
	}
	npc, err := catalog.NPC(ctx, 3)
	if err != nil || npc == nil || npc.Name != "Man" {
		t.Fatalf("expected npc 3, got %v %v", npc, err)
	}
	icon, err := catalog.Icon(ctx, 4151)
	if err != nil || icon == nil {
		t.Fatalf("expected icon 4151, got %v %v", icon, err)
	}
	if missing, _ := catalog.Item(ctx, 1); missing != nil {
		t.Fatalf("expected miss, got %+v", missing)
	}
}

func TestLoadCatalog_Missing(t *testing.T) {
	if _, _, err := LoadCatalog(context.Background(), filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatalf("expected error for missing catalog")
	}
}
