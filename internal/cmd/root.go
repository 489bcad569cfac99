package cmd

import (
	"github.com/spf13/cobra"

	"github.com/atlasgen/cli/internal/config"
	"github.com/atlasgen/cli/internal/output"
	"github.com/atlasgen/cli/internal/version"
)

var (
	// Global flags
	configFlag  string
	verboseFlag bool

	// Resolved configuration (loaded during PersistentPreRunE)
	atlasConfig *config.Config
)

// NewRootCmd creates the root command for the atlasgen CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "atlasgen",
		Short: "Geospatial project templating engine",
		Long: `atlasgen rewrites parameterized map projects into concrete ones.

Layers of a parent project carry datasource, name, title and abstract
templates. atlasgen substitutes a set of variable bindings into them and
produces self-consistent project files with rewritten sources, rewritten
metadata, a recomputed extent and copied side-car files, either once
(apply) or once per record of a coverage dataset (generate).`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to config file (env: ATLASGEN_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")

	rootCmd.AddCommand(NewApplyCmd())
	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals() error {
	output.SetupLogging(verboseFlag)

	info := version.GetInfo()
	output.Debug("atlasgen started", "version", info.Version)

	cfg, err := config.NewLoader().LoadWithDefaults(configFlag)
	if err != nil {
		return err
	}
	atlasConfig = cfg
	return nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	if atlasConfig == nil {
		return (&config.Config{}).WithDefaults()
	}
	return atlasConfig
}
