package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"entityscrape/internal/config"
	"entityscrape/internal/session"
)

func testLogger() *zap.Logger { return zap.NewNop() }

func TestParseParamPairs(t *testing.T) {
	params, err := parseParamPairs([]string{"1=4151", " 2 = Abyssal whip ", ""})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if params["1"] != "4151" || params["2"] != "Abyssal whip" || len(params) != 2 {
		t.Fatalf("unexpected params: %v", params)
	}

	for _, bad := range []string{"novalue", "=x"} {
		if _, err := parseParamPairs([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRunInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entityscrape.yaml")
	if err := runInit(path, "demo", "./catalog"); err != nil {
		t.Fatalf("init: %v", err)
	}

	cfg, err := config.LoadProjectConfig(path)
	if err != nil {
		t.Fatalf("scaffolded config does not load: %v", err)
	}
	if cfg.Project != "demo" || cfg.Source.Catalog != "./catalog" || !cfg.Tracker.Enabled {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	if err := runInit(path, "demo", "./catalog"); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if err := runInit(filepath.Join(t.TempDir(), "x.toml"), "demo", ""); err == nil {
		t.Fatalf("expected error for toml path")
	}
}

func TestScanFlagsApply(t *testing.T) {
	flags := &scanFlags{}
	cmd := &cobra.Command{Use: "dump"}
	addRangeFlags(cmd, flags)

	r := flags.apply(cmd, config.RangeConfig{Start: 0, End: 30000})
	if r.Start != 0 || r.End != 30000 {
		t.Fatalf("expected config range, got %+v", r)
	}

	if err := cmd.Flags().Set("end", "100"); err != nil {
		t.Fatalf("set: %v", err)
	}
	r = flags.apply(cmd, config.RangeConfig{Start: 10, End: 30000})
	if r.Start != 10 || r.End != 100 {
		t.Fatalf("expected end override only, got %+v", r)
	}
}

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	if _, err := openStore(ctx, &config.ProjectConfig{}); !errors.Is(err, errNoStore) {
		t.Fatalf("expected errNoStore, got %v", err)
	}
	if _, err := openStore(ctx, &config.ProjectConfig{Source: config.SourceConfig{DSN: "mysql://x"}}); err == nil {
		t.Fatalf("expected error for unsupported scheme")
	}

	db, err := openStore(ctx, &config.ProjectConfig{Source: config.SourceConfig{DSN: "sqlite://:memory:"}})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	defer db.Close(ctx)
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatalf("schema: %v", err)
	}
}

func TestOpenSource_Catalog(t *testing.T) {
	dir := t.TempDir()
	contents := "items:\n  - id: 4151\n    name: Abyssal whip\n"
	if err := os.WriteFile(filepath.Join(dir, "items.yaml"), []byte(contents), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := config.Default()
	src, err := openSource(context.Background(), &cfg, testLogger())
	if err != nil || src != nil {
		t.Fatalf("expected no source without config, got %v %v", src, err)
	}

	cfg.Source.Catalog = dir
	src, err = openSource(context.Background(), &cfg, testLogger())
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	item, err := src.Item(context.Background(), 4151)
	if err != nil || item == nil || item.Name != "Abyssal whip" {
		t.Fatalf("unexpected item: %v %v", item, err)
	}
	if err := src.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestFeed(t *testing.T) {
	dir := t.TempDir()
	frames := strings.Join([]string{
		`{"type":"tick","tick":1,"world":301,"npcs":[{"index":42,"name":"Guard","x":3200,"y":3200,"plane":0}],"players":[]}`,
		`{"type":"tick","tick":2,"world":301,"npcs":[{"index":42,"name":"Guard","x":3201,"y":3200,"plane":0}],"players":[]}`,
		`not json`,
	}, "\n") + "\n"
	path := filepath.Join(dir, "frames.jsonl")
	if err := os.WriteFile(path, []byte(frames), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := config.Default()
	cfg.Output.Dir = dir
	sess, src, err := newSession(context.Background(), &cfg, testLogger())
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if src != nil {
		t.Fatalf("expected no composition source")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- sess.Run(ctx) }()

	if err := feed(ctx, sess, path, false, testLogger()); err != nil {
		t.Fatalf("feed: %v", err)
	}
	report, err := sess.Exec(ctx, session.CommandDumpNPCs.String())
	if err != nil {
		t.Fatalf("exec: %v", err)
	}
	if report.Emitted != 1 || len(report.Errors) != 0 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if _, err := os.Stat(filepath.Join(dir, "npcs-locations.json")); err != nil {
		t.Fatalf("expected locations file: %v", err)
	}

	if err := sess.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := ignoreShutdown(<-done); err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestOpenFrames_FollowStdin(t *testing.T) {
	if _, err := openFrames(context.Background(), "-", true, testLogger()); err == nil {
		t.Fatalf("expected error following stdin")
	}
}
