package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atlasgen/cli/internal/config"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage atlasgen configuration",
	}

	configCmd.AddCommand(newConfigViewCmd())
	return configCmd
}

func newConfigViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show the effective configuration",
		Long:  `Display the effective configuration after merging the config file, environment variables and defaults.`,
		RunE:  runConfigView,
	}
}

func runConfigView(cmd *cobra.Command, _ []string) error {
	cfg := GetConfig()

	path, err := config.GetConfigFile()
	if err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "# config file: %s\n", path)
	}

	data, err := yaml.Marshal(struct {
		Destination  string `yaml:"destination"`
		CopySidecars bool   `yaml:"copySidecars"`
		ExtentMargin int    `yaml:"extentMargin"`
		Limit        int    `yaml:"limit"`
	}{
		Destination:  cfg.Destination,
		CopySidecars: cfg.ShouldCopySidecars(),
		ExtentMargin: cfg.ExtentMargin,
		Limit:        cfg.Limit,
	})
	if err != nil {
		return err
	}

	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
