package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"entityscrape/internal/store"
)

func queryListCmd() *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cached items and NPCs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueryList(kind)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Restrict to item or npc")
	return cmd
}

func checkKind(kind string) error {
	if kind != "" && kind != store.KindItem && kind != store.KindNPC {
		return fmt.Errorf("unknown kind %q (expected %s or %s)", kind, store.KindItem, store.KindNPC)
	}
	return nil
}

func runQueryList(kind string) error {
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

	entries, err := db.ListEntries(ctx, kind)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(os.Stdout, "No entries found.")
		return nil
	}

	for _, entry := range entries {
		fmt.Fprintf(os.Stdout, "%d %s (%s)\n", entry.ID, entry.Name, entry.Kind)
	}
	return nil
}
