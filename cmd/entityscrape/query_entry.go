package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"entityscrape/internal/classify"
)

func queryItemCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "item <id>",
		Short: "Display an item composition and its classified fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid item id %q", args[0])
			}
			return runQueryItem(id)
		},
	}
}

func runQueryItem(id int) error {
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

	item, err := db.GetItem(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		fmt.Fprintf(os.Stdout, "No item found for %d.\n", id)
		return nil
	}

	classified := classify.Classify(item.Item)
	fmt.Fprintf(os.Stdout, "ID: %d\n", classified.ID)
	fmt.Fprintf(os.Stdout, "Name: %s\n", classified.Name)
	fmt.Fprintf(os.Stdout, "Members: %t\n", classified.Members)
	fmt.Fprintf(os.Stdout, "Tradeable on GE: %t\n", classified.TradeableOnGE)
	fmt.Fprintf(os.Stdout, "Stackable: %t\n", classified.Stackable)
	fmt.Fprintf(os.Stdout, "Noted: %t\n", classified.Noted)
	fmt.Fprintf(os.Stdout, "Noteable: %t\n", classified.Noteable)
	if classified.LinkedID != nil {
		fmt.Fprintf(os.Stdout, "Linked ID: %d\n", *classified.LinkedID)
	}
	fmt.Fprintf(os.Stdout, "Placeholder: %t\n", classified.Placeholder)
	fmt.Fprintf(os.Stdout, "Equipable: %t\n", classified.Equipable)
	fmt.Fprintf(os.Stdout, "Cost: %d (low alch %d, high alch %d)\n", classified.Cost, classified.LowAlch, classified.HighAlch)
	if actions := nonEmpty(item.InventoryActions); len(actions) > 0 {
		fmt.Fprintf(os.Stdout, "Actions: %s\n", strings.Join(actions, ", "))
	}
	if item.SourceFile != "" {
		fmt.Fprintf(os.Stdout, "Source: %s\n", item.SourceFile)
	}
	return nil
}

func queryNPCCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "npc <id>",
		Short: "Display an NPC composition",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid npc id %q", args[0])
			}
			return runQueryNPC(id)
		},
	}
}

func runQueryNPC(id int) error {
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

	npc, err := db.GetNPC(ctx, id)
	if err != nil {
		return err
	}
	if npc == nil {
		fmt.Fprintf(os.Stdout, "No npc found for %d.\n", id)
		return nil
	}

	fmt.Fprintf(os.Stdout, "ID: %d\n", npc.ID)
	fmt.Fprintf(os.Stdout, "Name: %s\n", npc.Name)
	fmt.Fprintf(os.Stdout, "Combat level: %d\n", npc.CombatLevel)
	fmt.Fprintf(os.Stdout, "Size: %d\n", npc.Size)
	fmt.Fprintf(os.Stdout, "Clickable: %t\n", npc.Clickable)
	if len(npc.Models) > 0 {
		fmt.Fprintf(os.Stdout, "Models: %v\n", npc.Models)
	}
	if actions := nonEmpty(npc.Actions); len(actions) > 0 {
		fmt.Fprintf(os.Stdout, "Actions: %s\n", strings.Join(actions, ", "))
	}
	if npc.SourceFile != "" {
		fmt.Fprintf(os.Stdout, "Source: %s\n", npc.SourceFile)
	}
	return nil
}

// nonEmpty drops the blank slots action arrays carry.
func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
