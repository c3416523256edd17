// Package cmd provides the CLI commands for gear-cost.
package cmd

import (
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"gear-cost/internal/config"
	"gear-cost/internal/logging"
)

// Version is set at build time with -ldflags "-X gear-cost/cmd/cli/cmd.Version=..."
var Version = "0.1.0"

var (
	cfgFile     string
	verbose     bool
	ladderPath  string
	catalogPath string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gear-cost",
	Short: "Work out the resources needed to upgrade chief gear",
	Long: `gear-cost sums the resources needed to move each chief gear part from its
current tier to a target tier, credits what you own plus the contents of any
bundles you plan to buy, and reports the remaining deficit per resource.

Examples:
  gear-cost calculate --part Coat=Gold:Legendary --owned Alloy=120000
  gear-cost calculate --input plan.yaml --format json
  gear-cost tiers
  gear-cost bundles Sublime
  gear-cost serve --addr :8080`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
}

// Execute runs the CLI
func Execute() error {
	return rootCmd.Execute()
}

// ExitCode maps a command error to a process exit code
func ExitCode(err error) int {
	if stderrors.Is(err, errShortfall) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./gear-cost.yaml or $HOME/.gear-cost/gear-cost.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&ladderPath, "ladder", "", "tier ladder file (.csv, .yaml, .hcl); default is the built-in table")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "bundle catalog file (.csv, .yaml, .hcl); default is the built-in table")

	// Add subcommands
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(tiersCmd)
	rootCmd.AddCommand(bundlesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if ladderPath != "" {
		cfg.Data.Ladder = ladderPath
	}
	if catalogPath != "" {
		cfg.Data.Catalog = catalogPath
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	config.Set(cfg)

	// Initialize logging
	if err := logging.Initialize(cfg.Logging); err != nil {
		return fmt.Errorf("initializing logging: %w", err)
	}
	return nil
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gear-cost version %s\n", Version)
	},
}

// configCmd manages configuration
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var configShowJSON bool

// configShowCmd prints the effective configuration
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Get()
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

func init() {
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "print as JSON instead of YAML")
}
