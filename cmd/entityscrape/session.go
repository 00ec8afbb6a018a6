package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"entityscrape/internal/config"
	"entityscrape/internal/export"
	"entityscrape/internal/extract"
	"entityscrape/internal/host"
	"entityscrape/internal/players"
	"entityscrape/internal/session"
	"entityscrape/internal/tracker"
)

// newSession wires a session to the configured composition source and
// output directories. The returned source is nil when none is configured;
// the session then only tracks locations and chat.
func newSession(ctx context.Context, cfg *config.ProjectConfig, logger *zap.Logger) (*session.Session, *compositionSource, error) {
	logger = logger.With(zap.String("session", uuid.NewString()))

	src, err := openSource(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	sink := export.NewFileSink(export.Options{
		Dir:      cfg.Output.Dir,
		IconsDir: cfg.Output.IconsDir,
		Archive:  cfg.Output.Archive,
	}, logger)

	deps := session.Deps{Sink: sink, Logger: logger}
	if src != nil {
		playersDir := cfg.Players.Dir
		if !filepath.IsAbs(playersDir) {
			playersDir = filepath.Join(cfg.Output.Dir, playersDir)
		}
		playerSink := export.NewFileSink(export.Options{Dir: playersDir}, logger)
		deps.Extractor = extract.New(src, sink, logger)
		deps.Players = players.NewScraper(src, playerSink, logger)
	}

	sess := session.New(session.Config{
		Items:          extract.Range{Start: cfg.Items.Start, End: cfg.Items.End},
		DumpIcons:      cfg.Items.DumpIcons,
		NPCs:           extract.Range{Start: cfg.NPCs.Start, End: cfg.NPCs.End},
		Icons:          extract.Range{Start: cfg.Icons.Start, End: cfg.Icons.End},
		TrackerEnabled: cfg.Tracker.Enabled,
		Tracker:        tracker.Options{AbortOnInvalid: cfg.Tracker.AbortOnInvalid},
		PublicChatOnly: cfg.Chat.PublicOnly,
		AllPlayers:     cfg.Players.All,
	}, deps)
	return sess, src, nil
}

// openFrames opens the host frame feed: "-" is stdin, anything else a
// file, tailed with follow.
func openFrames(ctx context.Context, path string, follow bool, logger *zap.Logger) (io.ReadCloser, error) {
	if path == "-" {
		if follow {
			return nil, fmt.Errorf("--follow needs a file path, not stdin")
		}
		return os.Stdin, nil
	}
	if follow {
		return host.Follow(ctx, path, logger)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening frames: %w", err)
	}
	return f, nil
}

// feed pumps frames from path into sess until EOF or ctx ends.
func feed(ctx context.Context, sess *session.Session, path string, follow bool, logger *zap.Logger) error {
	r, err := openFrames(ctx, path, follow, logger)
	if err != nil {
		return err
	}
	// Unblocks a pending read on stdin or a pipe once ctx ends.
	stop := context.AfterFunc(ctx, func() { r.Close() })
	defer func() {
		if stop() {
			r.Close()
		}
	}()

	reader, err := host.NewReader(r, logger)
	if err != nil {
		return err
	}
	defer reader.Close()

	n, err := host.Pump(ctx, reader, sess)
	logger.Info("frames consumed", zap.Int("submitted", n), zap.Int("skipped", reader.Skipped()))
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}

// ignoreShutdown drops the errors a loop returns when it was stopped on
// purpose.
func ignoreShutdown(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, session.ErrClosed) {
		return nil
	}
	return err
}
