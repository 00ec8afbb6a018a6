// Package export writes the JSON documents and icon images produced by the
// extractors and the location tracker. Writes are plain create-and-write;
// a crash mid-write leaves a partial file behind.
package export

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// Sink receives export documents and icons.
type Sink interface {
	WriteJSON(name string, v any) error
	WriteIcon(id int, img image.Image) error
}

type Options struct {
	Dir      string
	IconsDir string
	Archive  bool
}

var _ Sink = (*FileSink)(nil)

// FileSink writes documents under Dir and icons under IconsDir. A relative
// IconsDir is resolved against Dir.
type FileSink struct {
	dir      string
	iconsDir string
	archive  *Archiver
	log      *zap.Logger
	now      func() time.Time
}

func NewFileSink(opts Options, logger *zap.Logger) *FileSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir := opts.Dir
	if dir == "" {
		dir = "."
	}
	iconsDir := opts.IconsDir
	if iconsDir == "" {
		iconsDir = "items-icons"
	}
	if !filepath.IsAbs(iconsDir) {
		iconsDir = filepath.Join(dir, iconsDir)
	}
	s := &FileSink{
		dir:      dir,
		iconsDir: iconsDir,
		log:      logger,
		now:      time.Now,
	}
	if opts.Archive {
		s.archive = NewArchiver(filepath.Join(dir, "archive"))
	}
	return s
}

func (s *FileSink) Dir() string      { return s.dir }
func (s *FileSink) IconsDir() string { return s.iconsDir }

func (s *FileSink) WriteJSON(name string, v any) error {
	if !filepath.IsLocal(name) {
		return fmt.Errorf("document name %q is outside %s", name, s.dir)
	}
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	s.log.Debug("wrote document", zap.String("path", path), zap.Int("bytes", len(payload)))

	if s.archive != nil {
		archived, err := s.archive.Write(name, payload, s.now())
		if err != nil {
			s.log.Warn("archiving document failed", zap.String("name", name), zap.Error(err))
		} else {
			s.log.Debug("archived document", zap.String("path", archived))
		}
	}
	return nil
}

// WriteIcon writes <id>.png, creating the icon directory on demand.
func (s *FileSink) WriteIcon(id int, img image.Image) error {
	if img == nil {
		return fmt.Errorf("icon %d: no image", id)
	}
	if err := os.MkdirAll(s.iconsDir, 0o755); err != nil {
		return fmt.Errorf("creating icon directory: %w", err)
	}
	path := filepath.Join(s.iconsDir, strconv.Itoa(id)+".png")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	return nil
}
