package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadProjectConfig(t *testing.T) {
	t.Run("valid config loads", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "project: osrs\nversion: 1\nsource:\n  catalog: ./catalog\nitems:\n  start: 0\n  end: 100\n  dump_icons: true\nchat:\n  public_only: true\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Project != "osrs" {
			t.Fatalf("expected project name, got %q", cfg.Project)
		}
		if cfg.Items.End != 100 || !cfg.Items.DumpIcons {
			t.Fatalf("unexpected items config: %+v", cfg.Items)
		}
		if !cfg.Chat.PublicOnly {
			t.Fatalf("expected public_only")
		}
	})

	t.Run("defaults fill missing keys", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "project: osrs\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !cfg.Tracker.Enabled {
			t.Fatalf("expected tracker enabled by default")
		}
		if cfg.Output.IconsDir != "items-icons" {
			t.Fatalf("expected default icons dir, got %q", cfg.Output.IconsDir)
		}
		if cfg.Players.Dir != "playerscraper" {
			t.Fatalf("expected default players dir, got %q", cfg.Players.Dir)
		}
	})

	t.Run("tracker can be disabled", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "project: osrs\ntracker:\n  enabled: false\n  abort_on_invalid: true\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Tracker.Enabled || !cfg.Tracker.AbortOnInvalid {
			t.Fatalf("unexpected tracker config: %+v", cfg.Tracker)
		}
	})

	t.Run("toml config loads", func(t *testing.T) {
		path := writeTempConfig(t, "config.toml", "project = \"osrs\"\nversion = 1\n\n[source]\ndsn = \"sqlite://cache.db\"\n\n[npcs]\nstart = 10\nend = 20\n\n[log]\nformat = \"console\"\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Source.DSN != "sqlite://cache.db" {
			t.Fatalf("unexpected dsn %q", cfg.Source.DSN)
		}
		if cfg.NPCs.Start != 10 || cfg.NPCs.End != 20 {
			t.Fatalf("unexpected npcs range: %+v", cfg.NPCs)
		}
	})

	t.Run("missing project name", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "version: 1\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unsupported version", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "project: osrs\nversion: 2\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("dsn and catalog together", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "project: osrs\nsource:\n  dsn: sqlite://a.db\n  catalog: ./catalog\n")
		cfg, err := LoadProjectConfig(path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if cfg.Source.DSN != "sqlite://a.db" || cfg.Source.Catalog != "./catalog" {
			t.Fatalf("unexpected source: %+v", cfg.Source)
		}
	})

	t.Run("unsupported dsn scheme", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "project: osrs\nsource:\n  dsn: mysql://a\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("negative start", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "project: osrs\nicons:\n  start: -1\n  end: 5\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("end before start", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "project: osrs\nitems:\n  start: 10\n  end: 5\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("unknown log format", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "project: osrs\nlog:\n  format: xml\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("file not found", func(t *testing.T) {
		if _, err := LoadProjectConfig(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Fatalf("expected error")
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := writeTempConfig(t, "config.yaml", "project: [\n")
		if _, err := LoadProjectConfig(path); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func writeTempConfig(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}
