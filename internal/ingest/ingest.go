// Package ingest imports a catalog directory into the composition cache.
// Unchanged files are skipped by content hash, and records whose source
// file disappeared are removed.
package ingest

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"entityscrape/internal/parser"
	"entityscrape/internal/store"
)

// IconsDir is the catalog subdirectory holding <id>.png icons.
const IconsDir = "icons"

type Result struct {
	ItemsUpserted  int
	NPCsUpserted   int
	IconsUpserted  int
	RecordsRemoved int
	FilesSkipped   int
	Errors         []error
}

type Options struct {
	Full    bool
	Exclude []string
}

type catalogFile struct {
	path string
	hash string
	icon bool
	id   int
	doc  *parser.Document
	png  []byte
	err  error
	skip bool
}

func Run(ctx context.Context, catalogDir string, db Store, options Options, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var existingHashes map[string]string
	if !options.Full {
		var err error
		existingHashes, err = db.GetSourceHashes(ctx)
		if err != nil {
			return nil, fmt.Errorf("get source hashes: %w", err)
		}
	}

	paths, err := walkCatalog(catalogDir, options.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walking catalog %s: %w", catalogDir, err)
	}

	files := make([]*catalogFile, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			files[i] = loadFile(path, existingHashes)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	for _, f := range files {
		switch {
		case f.err != nil:
			result.Errors = append(result.Errors, f.err)
		case f.skip:
			result.FilesSkipped++
		case f.icon:
			if err := db.UpsertIcon(ctx, store.IconInput{ID: f.id, PNG: f.png, SourceFile: f.path, SourceHash: f.hash}); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("upserting %s: %w", f.path, err))
				continue
			}
			result.IconsUpserted++
		default:
			upsertDocument(ctx, db, f, result)
		}
	}

	removed, err := db.RemoveStale(ctx, paths)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("removing stale records: %w", err))
	} else {
		result.RecordsRemoved = int(removed)
	}

	logger.Info("catalog imported",
		zap.String("catalog", catalogDir),
		zap.Int("items", result.ItemsUpserted),
		zap.Int("npcs", result.NPCsUpserted),
		zap.Int("icons", result.IconsUpserted),
		zap.Int("removed", result.RecordsRemoved),
		zap.Int("skipped", result.FilesSkipped),
		zap.Int("errors", len(result.Errors)))
	return result, nil
}

func upsertDocument(ctx context.Context, db Store, f *catalogFile, result *Result) {
	for _, item := range f.doc.Items {
		if err := db.UpsertItem(ctx, store.ItemInput{Item: item, SourceFile: f.path, SourceHash: f.hash}); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("upserting item %d from %s: %w", item.ID, f.path, err))
			continue
		}
		result.ItemsUpserted++
	}
	for _, npc := range f.doc.NPCs {
		if err := db.UpsertNPC(ctx, store.NPCInput{NPC: npc, SourceFile: f.path, SourceHash: f.hash}); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("upserting npc %d from %s: %w", npc.ID, f.path, err))
			continue
		}
		result.NPCsUpserted++
	}
}

func loadFile(path string, existingHashes map[string]string) *catalogFile {
	f := &catalogFile{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		f.err = fmt.Errorf("reading %s: %w", path, err)
		return f
	}
	f.hash = hashBytes(data)
	if existing, ok := existingHashes[path]; ok && existing == f.hash {
		f.skip = true
		return f
	}

	if id, ok := parser.IconID(path); ok && isIconPath(path) {
		if _, err := png.DecodeConfig(bytes.NewReader(data)); err != nil {
			f.err = fmt.Errorf("decoding icon %s: %w", path, err)
			return f
		}
		f.icon, f.id, f.png = true, id, data
		return f
	}

	doc, err := parser.Parse(data)
	if err != nil {
		if errors.Is(err, parser.ErrNoEntries) {
			f.skip = true
			return f
		}
		f.err = fmt.Errorf("parsing %s: %w", path, err)
		return f
	}
	doc.SourceFile = path
	f.doc = doc
	return f
}

func walkCatalog(root string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	err := filepath.WalkDir(filepath.Clean(root), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if isExcluded(path, excluded) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if parser.IsCatalogFile(path) {
			files = append(files, path)
			return nil
		}
		if _, ok := parser.IconID(path); ok && isIconPath(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func isIconPath(path string) bool {
	return filepath.Base(filepath.Dir(path)) == IconsDir
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func computeHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return hashBytes(data), nil
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
