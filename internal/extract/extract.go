// Package extract scans identifier ranges of the composition source and
// builds the item and NPC export documents.
package extract

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"entityscrape/internal/classify"
	"entityscrape/internal/composition"
	"entityscrape/internal/export"
)

// Range is the half-open identifier range [Start, End).
type Range struct {
	Start int
	End   int
}

type Options struct {
	Range     Range
	DumpIcons bool
}

type Pipeline int

const (
	PipelineScraper Pipeline = iota
	PipelineMetadata
)

func (p Pipeline) String() string {
	switch p {
	case PipelineScraper:
		return "scraper"
	case PipelineMetadata:
		return "metadata"
	default:
		return fmt.Sprintf("pipeline(%d)", int(p))
	}
}

type Result struct {
	Summary map[int]SummaryEntry
	Items   map[int]classify.Item

	Emitted      int
	Missing      int
	Skipped      int
	IconsWritten int
	Written      []string
	Errors       []error
}

type Extractor struct {
	source composition.Source
	sink   export.Sink
	log    *zap.Logger
}

func New(source composition.Source, sink export.Sink, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{source: source, sink: sink, log: logger}
}

// IsUnusedName reports whether a composition name marks an unused slot.
func IsUnusedName(name string) bool {
	return strings.TrimSpace(name) == "" || strings.EqualFold(name, "null")
}

// ScanItems classifies every item in the range. Icons are written when
// requested; the documents themselves are only returned.
func (e *Extractor) ScanItems(ctx context.Context, opts Options) *Result {
	result := &Result{
		Summary: make(map[int]SummaryEntry),
		Items:   make(map[int]classify.Item),
	}

	for id := opts.Range.Start; id < opts.Range.End; id++ {
		raw, err := e.source.Item(ctx, id)
		if err != nil {
			e.log.Warn("item lookup failed", zap.Int("id", id), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Errorf("looking up item %d: %w", id, err))
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

		result.Summary[id] = SummaryEntry{ID: raw.ID, Name: raw.Name}
		result.Items[id] = classify.Classify(*raw)
		result.Emitted++

		if opts.DumpIcons {
			written, err := e.writeIcon(ctx, id)
			if err != nil {
				result.Errors = append(result.Errors, err)
			}
			if written {
				result.IconsWritten++
			}
		}
	}

	e.log.Debug("item scan complete",
		zap.Int("start", opts.Range.Start),
		zap.Int("end", opts.Range.End),
		zap.Int("emitted", result.Emitted),
		zap.Int("missing", result.Missing),
		zap.Int("skipped", result.Skipped))
	return result
}

// DumpItems runs a scan and writes the documents of the given pipeline.
// A failed document write is logged and does not stop the other.
func (e *Extractor) DumpItems(ctx context.Context, pipeline Pipeline, opts Options) *Result {
	result := e.ScanItems(ctx, opts)

	switch pipeline {
	case PipelineScraper:
		e.write(SummaryFile, SummaryDocument(result), result)
		e.write(ScraperFile, ScraperDocument(result), result)
	case PipelineMetadata:
		e.write(MetadataFile, MetadataDocument(result), result)
	}
	return result
}

// SummaryDocument is the items-summary.json body: id to {id, name}.
func SummaryDocument(result *Result) map[int]SummaryEntry {
	doc := make(map[int]SummaryEntry, len(result.Summary))
	for id, entry := range result.Summary {
		doc[id] = entry
	}
	return doc
}

// ScraperDocument is the items-scraper.json body, with lowalch/highalch.
func ScraperDocument(result *Result) map[int]ScraperItem {
	doc := make(map[int]ScraperItem, len(result.Items))
	for id, item := range result.Items {
		doc[id] = scraperItem(item)
	}
	return doc
}

// MetadataDocument is the items-metadata.json body, with low_alch/high_alch.
func MetadataDocument(result *Result) map[int]MetadataItem {
	doc := make(map[int]MetadataItem, len(result.Items))
	for id, item := range result.Items {
		doc[id] = metadataItem(item)
	}
	return doc
}

func (e *Extractor) write(name string, doc any, result *Result) {
	if err := e.sink.WriteJSON(name, doc); err != nil {
		e.log.Warn("writing document failed", zap.String("file", name), zap.Error(err))
		result.Errors = append(result.Errors, err)
		return
	}
	result.Written = append(result.Written, name)
}

func (e *Extractor) writeIcon(ctx context.Context, id int) (bool, error) {
	img, err := e.source.Icon(ctx, id)
	if err != nil {
		e.log.Warn("icon lookup failed", zap.Int("id", id), zap.Error(err))
		return false, fmt.Errorf("looking up icon %d: %w", id, err)
	}
	if img == nil {
		e.log.Debug("no icon", zap.Int("id", id))
		return false, nil
	}
	if err := e.sink.WriteIcon(id, img); err != nil {
		e.log.Warn("writing icon failed", zap.Int("id", id), zap.Error(err))
		return false, err
	}
	return true, nil
}
