package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/relnotes/internal/config"
	clierrors "github.com/ariel-frischer/relnotes/internal/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configShowJSON  bool
	configInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage relnotes configuration",
	Long: `Manage relnotes configuration settings.

Configuration is loaded with the following priority (highest to lowest):
  1. Environment variables (RELNOTES_*, e.g. RELNOTES_FORMAT_PRINT_WIDTH=100)
  2. Project config (.relnotes/config.yml, or the file given with --config)
  3. User config (~/.config/relnotes/config.yml)
  4. Built-in defaults`,
	Example: `  # Show the effective configuration
  relnotes config show

  # As JSON
  relnotes config show --json

  # Create .relnotes/config.yml with all options documented
  relnotes config init`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return clierrors.ConfigLoadFailed(err)
		}

		if configShowJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(cfg)
		}

		enc := yaml.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a documented project config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := config.ProjectConfigPath()
		if configPath != "" {
			path = configPath
		}

		if _, err := os.Stat(path); err == nil && !configInitForce {
			return clierrors.NewArgumentError(
				fmt.Sprintf("config file already exists: %s", path),
				"Use --force to overwrite it",
			)
		}

		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return clierrors.OutputFailed(path, err)
		}
		if err := os.WriteFile(path, []byte(config.GetDefaultConfigTemplate()), 0o644); err != nil {
			return clierrors.OutputFailed(path, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
		return nil
	},
}

func init() {
	configCmd.GroupID = GroupConfiguration
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configInitCmd)

	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "Output as JSON")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "Overwrite an existing config file")
}
