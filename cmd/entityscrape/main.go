package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"entityscrape/internal/config"
	"entityscrape/internal/logging"
)

var (
	configPath string
	verbose    bool
)

func main() {
	root := &cobra.Command{
		Use:          "entityscrape",
		Short:        "Extract item, NPC and location records from a game session",
		SilenceUsage: true,
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the project config (.yaml or .toml)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(initCmd())
	root.AddCommand(importCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(queryCmd())
	root.AddCommand(scanCmds()...)
	root.AddCommand(trackCmd())
	root.AddCommand(serveCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the project config and builds the logger every command
// except init and version starts from.
func setup() (*config.ProjectConfig, *zap.Logger, error) {
	cfg, err := config.LoadProjectConfig(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Verbose: verbose,
	})
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}
