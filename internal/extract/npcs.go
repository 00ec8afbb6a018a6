package extract

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type NPCResult struct {
	NPCs    map[int]NPCMetadata
	Emitted int
	Missing int
	Skipped int
	Written []string
	Errors  []error
}

func (e *Extractor) ScanNPCs(ctx context.Context, r Range) *NPCResult {
	result := &NPCResult{NPCs: make(map[int]NPCMetadata)}

	for id := r.Start; id < r.End; id++ {
		raw, err := e.source.NPC(ctx, id)
		if err != nil {
			e.log.Warn("npc lookup failed", zap.Int("id", id), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Errorf("looking up npc %d: %w", id, err))
			continue
		}
		if raw == nil {
			result.Missing++
			continue
		}
		if IsUnusedName(raw.Name) {
			result.Skipped++
			continue
		}
		result.NPCs[id] = NPCMetadata{
			ID:          raw.ID,
			Name:        raw.Name,
			CombatLevel: raw.CombatLevel,
			ModelIDs:    append([]int(nil), raw.Models...),
			Size:        raw.Size,
			Clickable:   raw.Clickable,
			Actions:     append([]string(nil), raw.Actions...),
		}
		result.Emitted++
	}
	return result
}

func (e *Extractor) DumpNPCs(ctx context.Context, r Range) *NPCResult {
	result := e.ScanNPCs(ctx, r)
	if err := e.sink.WriteJSON(NPCMetadataFile, result.NPCs); err != nil {
		e.log.Warn("writing document failed", zap.String("file", NPCMetadataFile), zap.Error(err))
		result.Errors = append(result.Errors, err)
		return result
	}
	result.Written = append(result.Written, NPCMetadataFile)
	return result
}
