// =============================================================================
// Order Billing Report - Process Command
// =============================================================================
//
// This file defines the 'process' command, which runs one billing pass over
// an order export and writes the report workbook.
//
// COMMAND USAGE:
//   billing process [flags]
//
// FLAGS:
//   --input       : Order export to process (.csv or .xlsx)
//   --output-dir  : Directory for the report
//   --output      : Report file name (overrides output_file_format)
//   --start       : First fulfillment day, DD.MM.YYYY
//   --end         : Last fulfillment day, DD.MM.YYYY
//   --first-sku   : Rate for the first billable SKU of an order
//   --next-sku    : Rate for every further new SKU of an order
//   --per-piece   : Rate per billable piece
//   --dry-run     : Compute and print the invoice summary without writing
//
// Flags override environment variables, which override the config file.
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/order-billing-report/internal/config"
	"github.com/ginjaninja78/order-billing-report/internal/converter"
	"github.com/ginjaninja78/order-billing-report/internal/report"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	inputFile  string
	outputDir  string
	outputName string
	startDate  string
	endDate    string
	firstSKU   float64
	nextSKU    float64
	perPiece   float64
	dryRun     bool
)

// =============================================================================
// PROCESS COMMAND DEFINITION
// =============================================================================

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Bill the orders fulfilled in a date window and write the report",
	Long: `The process command reads the order export, forward-fills the order
level columns, keeps the line items fulfilled between --start and --end
(both inclusive, calendar days), prices every billable line and writes the
Excel report.

Rows with malformed data are dropped and counted; they never stop the run.
Missing required columns, invalid dates or an unwritable output directory
are fatal.

If no line item falls inside the window, a warning is logged and no report
is written.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(processCmd)

	flags := processCmd.Flags()
	flags.StringVarP(&inputFile, "input", "i", "", "Order export to process (.csv or .xlsx)")
	flags.StringVarP(&outputDir, "output-dir", "o", "", "Directory for the report")
	flags.StringVar(&outputName, "output", "", "Report file name; .xlsx is appended when missing")
	flags.StringVar(&startDate, "start", "", "Start date (DD.MM.YYYY)")
	flags.StringVar(&endDate, "end", "", "End date (DD.MM.YYYY)")
	flags.Float64Var(&firstSKU, "first-sku", 0, "Tariff for the first SKU of an order")
	flags.Float64Var(&nextSKU, "next-sku", 0, "Tariff for each next new SKU of an order")
	flags.Float64Var(&perPiece, "per-piece", 0, "Tariff per piece")
	flags.BoolVar(&dryRun, "dry-run", false, "Compute and print the invoice summary without writing the report")
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

func runProcess(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logger.Sync()

	fmt.Println("=== Order Billing Report ===")
	fmt.Printf("Input:   %s\n", cfg.InputFile)
	fmt.Printf("Window:  %s - %s\n", cfg.StartDate, cfg.EndDate)

	proc := converter.New(cfg, converter.Options{OutputName: outputName, DryRun: dryRun}, logger)
	result := proc.Run()
	if result.Error != nil {
		return result.Error
	}

	stats := result.Stats
	fmt.Println("\n=== Processing Complete ===")
	fmt.Printf("Rows read:        %d\n", stats.RowsRead)
	fmt.Printf("Rows rejected:    %d\n", stats.RowsRejected)
	fmt.Printf("Unfulfilled:      %d\n", stats.Filter.Unfulfilled)
	fmt.Printf("Invalid dates:    %d\n", stats.Filter.InvalidDate)
	fmt.Printf("Out of window:    %d\n", stats.Filter.OutOfRange)
	fmt.Printf("Lines in window:  %d\n", stats.Filter.Kept)
	fmt.Printf("Time elapsed:     %s\n", stats.ProcessingTime)

	if result.Empty {
		fmt.Println("\nNo orders found within the specified date range. No report written.")
		return nil
	}

	fmt.Println()
	printSummary(result.Summary)

	switch {
	case dryRun:
		fmt.Println("\nDry run: no report written.")
	default:
		fmt.Printf("\nReport written to %s\n", filepath.Clean(result.OutputFile))
	}

	return nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// loadConfig loads the configuration file and environment, applies the
// flags that were set explicitly and validates the result.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.InputFile = inputFile
	}
	if flags.Changed("output-dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("start") {
		cfg.StartDate = startDate
	}
	if flags.Changed("end") {
		cfg.EndDate = endDate
	}
	if flags.Changed("first-sku") {
		cfg.Tariffs.FirstSKU = firstSKU
	}
	if flags.Changed("next-sku") {
		cfg.Tariffs.NextSKU = nextSKU
	}
	if flags.Changed("per-piece") {
		cfg.Tariffs.PerPiece = perPiece
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// printSummary prints the invoice summary as an aligned table.
func printSummary(summary report.InvoiceSummary) {
	fmt.Printf("%-20s %10s %8s %14s\n", "Description", "Rate", "Count", "Total Amount")
	for _, row := range summary.Rows() {
		if row.IsSeparator {
			fmt.Printf("%-20s %10s %8s %14s\n", "", report.Separator, report.Separator, report.Separator)
			continue
		}
		fmt.Printf("%-20s %10s %8s %14s\n", row.Description, row.Rate, row.Count, row.Amount)
	}
}
