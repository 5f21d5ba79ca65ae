// Package cmd provides the CLI commands for solar-proposal.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"solar-proposal/core/engine"
	"solar-proposal/core/reference"
	"solar-proposal/internal/config"
	"solar-proposal/internal/logging"
)

// Version is set at build time with -ldflags "-X solar-proposal/cmd/cli/cmd.Version=..."
var Version = "0.1.0"

var (
	cfgFile string
	envFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "solar-proposal",
	Short: "Generate solar installation proposals for Argentina",
	Long: `solar-proposal sizes a rooftop photovoltaic system from a customer's
electricity bill or consumption and produces a priced proposal with
production, payback and environmental figures.

Examples:
  solar-proposal propose --region cordoba --kwh 450
  solar-proposal propose --utility EPEC --bill 110000 --tier premium --format markdown
  solar-proposal propose --batch customers.json --format json
  solar-proposal regions`,
	SilenceUsage: true,
}

// Execute runs the CLI
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "file of SOLAR_* overrides")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(proposeCmd)
	rootCmd.AddCommand(regionsCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
}

func initConfig() {
	if err := config.LoadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		os.Exit(1)
	}

	if cfgFile != "" {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		config.Set(cfg)
	}

	cfg := config.Get()
	if err := cfg.ApplyEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Error applying environment: %v\n", err)
		os.Exit(1)
	}

	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
}

// newEngine builds the engine from the active configuration
func newEngine() (*engine.Engine, error) {
	cfg := config.Get()

	provider, err := reference.Load(cfg.Reference.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load reference data: %w", err)
	}

	return engine.New(provider, cfg.Engine, engine.WithLogger(logging.Named("engine")))
}

// versionCmd prints version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "solar-proposal version %s\n", Version)
	},
}
