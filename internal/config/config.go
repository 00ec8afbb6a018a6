package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file the CLI looks for when --config is unset.
const DefaultPath = "entityscrape.yaml"

type ProjectConfig struct {
	Project string        `yaml:"project" toml:"project"`
	Version int           `yaml:"version" toml:"version"`
	Source  SourceConfig  `yaml:"source" toml:"source"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Items   ItemsConfig   `yaml:"items" toml:"items"`
	NPCs    RangeConfig   `yaml:"npcs" toml:"npcs"`
	Icons   RangeConfig   `yaml:"icons" toml:"icons"`
	Tracker TrackerConfig `yaml:"tracker" toml:"tracker"`
	Chat    ChatConfig    `yaml:"chat" toml:"chat"`
	Players PlayersConfig `yaml:"players" toml:"players"`
	Log     LogConfig     `yaml:"log" toml:"log"`
}

// SourceConfig selects where compositions come from. A store DSN
// (sqlite:// or postgres://) wins over Catalog at run time; Catalog is
// then only what import reads into the store.
type SourceConfig struct {
	DSN     string `yaml:"dsn" toml:"dsn"`
	Catalog string `yaml:"catalog" toml:"catalog"`
}

type OutputConfig struct {
	Dir      string `yaml:"dir" toml:"dir"`
	IconsDir string `yaml:"icons_dir" toml:"icons_dir"`
	Archive  bool   `yaml:"archive" toml:"archive"`
}

// RangeConfig is a half-open identifier range [Start, End).
type RangeConfig struct {
	Start int `yaml:"start" toml:"start"`
	End   int `yaml:"end" toml:"end"`
}

type ItemsConfig struct {
	Start     int  `yaml:"start" toml:"start"`
	End       int  `yaml:"end" toml:"end"`
	DumpIcons bool `yaml:"dump_icons" toml:"dump_icons"`
}

func (c ItemsConfig) Range() RangeConfig {
	return RangeConfig{Start: c.Start, End: c.End}
}

type TrackerConfig struct {
	Enabled        bool `yaml:"enabled" toml:"enabled"`
	AbortOnInvalid bool `yaml:"abort_on_invalid" toml:"abort_on_invalid"`
}

type ChatConfig struct {
	PublicOnly bool `yaml:"public_only" toml:"public_only"`
}

type PlayersConfig struct {
	All bool   `yaml:"all" toml:"all"`
	Dir string `yaml:"dir" toml:"dir"`
}

type LogConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
}

// Default returns the values used for keys a config file leaves out.
func Default() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Output:  OutputConfig{Dir: ".", IconsDir: "items-icons"},
		Items:   ItemsConfig{Start: 0, End: 30000},
		NPCs:    RangeConfig{Start: 0, End: 15000},
		Icons:   RangeConfig{Start: 0, End: 30000},
		Tracker: TrackerConfig{Enabled: true},
		Players: PlayersConfig{Dir: "playerscraper"},
		Log:     LogConfig{Level: "info", Format: "json"},
	}
}

// LoadProjectConfig reads a YAML config, or TOML when path ends in .toml.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	cfg := Default()
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &cfg)
	} else {
		err = yaml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	if err := validateProjectConfig(&cfg); err != nil {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	return &cfg, nil
}

func validateProjectConfig(cfg *ProjectConfig) error {
	if strings.TrimSpace(cfg.Project) == "" {
		return errors.New("project name is required")
	}
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported version: %d", cfg.Version)
	}
	if dsn := cfg.Source.DSN; dsn != "" && !hasStoreScheme(dsn) {
		return fmt.Errorf("unsupported source dsn scheme: %s", dsn)
	}
	if err := validateRange("items", cfg.Items.Range()); err != nil {
		return err
	}
	if err := validateRange("npcs", cfg.NPCs); err != nil {
		return err
	}
	if err := validateRange("icons", cfg.Icons); err != nil {
		return err
	}
	switch strings.ToLower(cfg.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("unsupported log format: %s", cfg.Log.Format)
	}
	return nil
}

func hasStoreScheme(dsn string) bool {
	for _, scheme := range []string{"sqlite://", "postgres://", "postgresql://"} {
		if strings.HasPrefix(dsn, scheme) {
			return true
		}
	}
	return false
}

func validateRange(name string, r RangeConfig) error {
	if r.Start < 0 {
		return fmt.Errorf("%s start must not be negative", name)
	}
	if r.End < r.Start {
		return fmt.Errorf("%s end %d is before start %d", name, r.End, r.Start)
	}
	return nil
}
