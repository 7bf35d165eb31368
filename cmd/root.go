// =============================================================================
// Order Billing Report - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every other command
// ('process', 'validate', 'version') is attached to it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (billing)
//   ├── processCmd  (billing process)
//   ├── validateCmd (billing validate)
//   └── versionCmd  (billing version)
//
// The root command owns the global flags (--config, --verbose) and the two
// helpers every subcommand uses: loading the configuration and building the
// logger.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-billing-report/internal/config"
	"github.com/ginjaninja78/order-billing-report/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose forces debug logging.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "billing",
	Short: "Order Billing Report - Bill fulfilled e-commerce orders from an order export",

	Long: `Order Billing Report reads an e-commerce order export (CSV or XLSX),
keeps the line items fulfilled inside a date window, prices every line with
the fulfillment tariffs and writes a four-sheet Excel report:

  All Orders                  every line fulfilled in the window
  Without Package Protection  billable lines only
  Cost Calculation            per-line costs with a TOTAL row per order
  Final Invoice               the invoice summary

Example Usage:
  billing process --start 01.01.2024 --end 31.01.2024
  billing process --input export.csv --first-sku 1.50 --next-sku 0.50 --per-piece 0.25
  billing validate --input export.csv`,

	SilenceUsage:  true,
	SilenceErrors: true,

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (optional)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}

// =============================================================================
// SHARED HELPERS
// =============================================================================

// newLogger builds the logger from the configuration. --verbose wins over
// the configured level.
func newLogger(cfg *config.Config) (*zap.Logger, error) {
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(logging.Options{
		Level:  level,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}
