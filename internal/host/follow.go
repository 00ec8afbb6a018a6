package host

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// tailReader reads a file the host keeps appending to. At end of file it
// blocks until the file is written again, removed, or ctx ends; the last
// two end the stream with io.EOF.
type tailReader struct {
	ctx     context.Context
	f       *os.File
	watcher *fsnotify.Watcher
	log     *zap.Logger
}

// Follow opens path for reading and keeps the stream open across appends
// until ctx is cancelled.
func Follow(ctx context.Context, path string, logger *zap.Logger) (io.ReadCloser, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening frames: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(path); err != nil {
		watcher.Close()
		f.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return &tailReader{ctx: ctx, f: f, watcher: watcher, log: logger}, nil
}

func (t *tailReader) Read(p []byte) (int, error) {
	for {
		n, err := t.f.Read(p)
		if n > 0 {
			return n, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}

		select {
		case <-t.ctx.Done():
			return 0, io.EOF
		case event, ok := <-t.watcher.Events:
			if !ok {
				return 0, io.EOF
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				t.log.Info("frame file went away", zap.String("path", event.Name))
				return 0, io.EOF
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return 0, io.EOF
			}
			return 0, fmt.Errorf("watching frames: %w", err)
		}
	}
}

func (t *tailReader) Close() error {
	werr := t.watcher.Close()
	ferr := t.f.Close()
	return errors.Join(werr, ferr)
}
