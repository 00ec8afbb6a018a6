package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"entityscrape/internal/session"
)

func trackCmd() *cobra.Command {
	var frames string
	var follow bool
	var exportOnExit bool
	cmd := &cobra.Command{
		Use:   "track",
		Short: "Run a session fed by host frames (ticks, commands, chat, menu actions)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrack(frames, follow, exportOnExit)
		},
	}
	cmd.Flags().StringVar(&frames, "frames", "-", "Frame log (.jsonl or .jsonl.zst); - reads stdin")
	cmd.Flags().BoolVar(&follow, "follow", false, "Keep reading as the host appends to the frame log")
	cmd.Flags().BoolVar(&exportOnExit, "export-on-exit", false, "Write npcs-locations.json when the feed ends")
	return cmd
}

func runTrack(frames string, follow, exportOnExit bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	sess, src, err := newSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if src != nil {
		defer src.Close(context.Background())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreShutdown(sess.Run(gctx))
	})
	g.Go(func() error {
		defer sess.Close()
		if err := feed(gctx, sess, frames, follow, logger); err != nil {
			return err
		}
		if !exportOnExit || gctx.Err() != nil {
			return nil
		}
		report, err := sess.Exec(gctx, session.CommandDumpNPCs.String())
		if err != nil {
			return err
		}
		logger.Info("exported locations", zap.Int("npcs", report.Emitted), zap.Strings("written", report.Written))
		if len(report.Errors) > 0 {
			return fmt.Errorf("exporting locations: %s", report.Errors[0])
		}
		return nil
	})
	return g.Wait()
}
