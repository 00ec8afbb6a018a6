package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func querySearchCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search cached names and actions using the full-text index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuerySearch(strings.Join(args, " "), kind)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Restrict to item or npc")
	return cmd
}

func runQuerySearch(query, kind string) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	ctx := context.Background()

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close(ctx)

	results, err := db.Search(ctx, query, kind)
	if err != nil {
		return err
	}
	if len(results) == 0 {
		fmt.Fprintln(os.Stdout, "No matches found.")
		return nil
	}

	for _, result := range results {
		fmt.Fprintf(os.Stdout, "%d %s (%s) score=%.2f\n", result.ID, result.Name, result.Kind, result.Score)
	}
	return nil
}
