package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"entityscrape/internal/composition"
	"entityscrape/internal/mcp"
)

func serveCmd() *cobra.Command {
	var frames string
	var follow bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(frames, follow)
		},
	}
	cmd.Flags().StringVar(&frames, "frames", "", "Frame log to feed the session while serving (stdin is taken by MCP)")
	cmd.Flags().BoolVar(&follow, "follow", false, "Keep reading as the host appends to the frame log")
	return cmd
}

func runServe(frames string, follow bool) error {
	if frames == "-" {
		return fmt.Errorf("--frames cannot be stdin while serving MCP over stdio")
	}
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
	defer sess.Close()

	var searcher mcp.Searcher
	var source composition.Source
	if src != nil {
		defer src.Close(context.Background())
		source = src
		if src.db != nil {
			searcher = src.db
		}
	}

	server := mcp.NewServer(sess, source, searcher, version)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ignoreShutdown(sess.Run(gctx))
	})
	if frames != "" {
		g.Go(func() error {
			return feed(gctx, sess, frames, follow, logger)
		})
	}
	g.Go(func() error {
		err := server.Run(gctx, &sdk.StdioTransport{})
		sess.Close()
		return ignoreShutdown(err)
	})
	return g.Wait()
}
