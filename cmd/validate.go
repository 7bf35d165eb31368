// =============================================================================
// Order Billing Report - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks the configuration
// and the order export without billing anything or writing a report.
//
// COMMAND USAGE:
//   billing validate [--input export.csv]
//
// CHECKS:
//   1. Configuration (dates, tariffs, enums)
//   2. Input file can be read
//   3. Required columns are present
//   4. Row-level problems (bad quantities, malformed totals)
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-billing-report/internal/config"
	"github.com/ginjaninja78/order-billing-report/internal/converter"
	"github.com/ginjaninja78/order-billing-report/internal/validation"
)

// maxReportedProblems caps the row problems printed to the console.
const maxReportedProblems = 20

var validateInput string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and the order export without writing a report",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Order export to check (.csv or .xlsx)")
}

func runValidate(cmd *cobra.Command) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cmd.Flags().Changed("input") {
		cfg.InputFile = validateInput
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	fmt.Println("=== Order Billing Report - Validation ===")

	// A config without a window can still have its input checked.
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Config:        %v\n", err)
	} else {
		fmt.Println("Config:        OK")
	}

	stats, checked, err := converter.New(cfg, converter.Options{DryRun: true}, logger).Inspect()
	if err != nil {
		if errors.Is(err, validation.ErrMissingColumns) {
			fmt.Printf("Columns:       %v\n", err)
		}
		return err
	}

	fmt.Println("Columns:       OK")
	fmt.Printf("Rows read:     %d\n", stats.RowsRead)
	fmt.Printf("Rows rejected: %d\n", stats.RowsRejected)
	fmt.Printf("Warnings:      %d\n", checked.WarningCount)

	for i, rowErr := range checked.Errors {
		if i == maxReportedProblems {
			fmt.Printf("  ... and %d more\n", len(checked.Errors)-maxReportedProblems)
			break
		}
		fmt.Printf("  %s\n", rowErr.Error())
	}

	return nil
}
