package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"entityscrape/internal/config"
	"entityscrape/internal/export"
	"entityscrape/internal/extract"
)

type scanFlags struct {
	start int
	end   int
	icons bool
}

// apply overrides r with whichever of --start/--end were given.
func (f *scanFlags) apply(cmd *cobra.Command, r config.RangeConfig) extract.Range {
	out := extract.Range{Start: r.Start, End: r.End}
	if cmd.Flags().Changed("start") {
		out.Start = f.start
	}
	if cmd.Flags().Changed("end") {
		out.End = f.end
	}
	return out
}

func scanCmds() []*cobra.Command {
	return []*cobra.Command{
		itemScanCmd("dump", "Write items-summary.json and items-scraper.json", extract.PipelineScraper),
		itemScanCmd("items", "Write items-metadata.json", extract.PipelineMetadata),
		npcScanCmd(),
		iconScanCmd(),
	}
}

func addRangeFlags(cmd *cobra.Command, flags *scanFlags) {
	cmd.Flags().IntVar(&flags.start, "start", 0, "First identifier (inclusive); overrides config")
	cmd.Flags().IntVar(&flags.end, "end", 0, "Last identifier (exclusive); overrides config")
}

func itemScanCmd(use, short string, pipeline extract.Pipeline) *cobra.Command {
	flags := &scanFlags{}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(func(ctx context.Context, cfg *config.ProjectConfig, e *extract.Extractor) scanSummary {
				opts := extract.Options{
					Range:     flags.apply(cmd, cfg.Items.Range()),
					DumpIcons: cfg.Items.DumpIcons || flags.icons,
				}
				result := e.DumpItems(ctx, pipeline, opts)
				return scanSummary{
					emitted: result.Emitted,
					missing: result.Missing,
					skipped: result.Skipped,
					icons:   result.IconsWritten,
					written: result.Written,
					errors:  result.Errors,
				}
			})
		},
	}
	addRangeFlags(cmd, flags)
	cmd.Flags().BoolVar(&flags.icons, "icons", false, "Also write <id>.png for every emitted item")
	return cmd
}

func npcScanCmd() *cobra.Command {
	flags := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "npcs",
		Short: "Write npcs-metadata.json",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(func(ctx context.Context, cfg *config.ProjectConfig, e *extract.Extractor) scanSummary {
				result := e.DumpNPCs(ctx, flags.apply(cmd, cfg.NPCs))
				return scanSummary{
					emitted: result.Emitted,
					missing: result.Missing,
					skipped: result.Skipped,
					written: result.Written,
					errors:  result.Errors,
				}
			})
		},
	}
	addRangeFlags(cmd, flags)
	return cmd
}

func iconScanCmd() *cobra.Command {
	flags := &scanFlags{}
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Write <id>.png for every identifier with an icon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(func(ctx context.Context, cfg *config.ProjectConfig, e *extract.Extractor) scanSummary {
				result := e.DumpIcons(ctx, flags.apply(cmd, cfg.Icons))
				return scanSummary{
					missing: result.Missing,
					icons:   result.Written,
					errors:  result.Errors,
				}
			})
		},
	}
	addRangeFlags(cmd, flags)
	return cmd
}

type scanSummary struct {
	emitted int
	missing int
	skipped int
	icons   int
	written []string
	errors  []error
}

func runScan(scan func(context.Context, *config.ProjectConfig, *extract.Extractor) scanSummary) error {
	ctx := context.Background()

	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	src, err := openSource(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if src == nil {
		return fmt.Errorf("no composition source configured (set source.dsn or source.catalog)")
	}
	defer src.Close(ctx)

	sink := export.NewFileSink(export.Options{
		Dir:      cfg.Output.Dir,
		IconsDir: cfg.Output.IconsDir,
		Archive:  cfg.Output.Archive,
	}, logger)
	summary := scan(ctx, cfg, extract.New(src, sink, logger))
	logger.Debug("scan finished", zap.Int("emitted", summary.emitted), zap.Int("errors", len(summary.errors)))

	fmt.Fprintln(os.Stdout, "Scan complete.")
	fmt.Fprintf(os.Stdout, "  Records emitted: %d\n", summary.emitted)
	fmt.Fprintf(os.Stdout, "  Missing:         %d\n", summary.missing)
	fmt.Fprintf(os.Stdout, "  Skipped:         %d\n", summary.skipped)
	fmt.Fprintf(os.Stdout, "  Icons written:   %d\n", summary.icons)
	for _, name := range summary.written {
		fmt.Fprintf(os.Stdout, "  Wrote %s\n", name)
	}

	if len(summary.errors) > 0 {
		fmt.Fprintf(os.Stdout, "\nErrors (%d):\n", len(summary.errors))
		for _, item := range summary.errors {
			fmt.Fprintf(os.Stdout, "  - %v\n", item)
		}
		return fmt.Errorf("scan completed with errors")
	}
	return nil
}
