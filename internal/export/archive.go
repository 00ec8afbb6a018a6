package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Archiver keeps zstd-compressed, timestamped copies of exported documents.
type Archiver struct {
	dir string
}

func NewArchiver(dir string) *Archiver {
	return &Archiver{dir: dir}
}

func (a *Archiver) Write(name string, payload []byte, at time.Time) (string, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return "", fmt.Errorf("creating archive directory: %w", err)
	}
	base := strings.TrimSuffix(name, filepath.Ext(name))
	path := filepath.Join(a.dir, fmt.Sprintf("%s-%s.json.zst", base, at.UTC().Format("20060102T150405")))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		_ = f.Close()
		return "", err
	}
	if _, err := enc.Write(payload); err != nil {
		_ = enc.Close()
		_ = f.Close()
		return "", err
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
