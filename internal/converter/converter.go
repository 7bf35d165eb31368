// =============================================================================
// Order Billing Report - Converter Module
// =============================================================================
//
// This module contains the pipeline for one billing run, from the order
// export on disk to the report workbook.
//
// PIPELINE:
//   1. Check the report destination is writable
//   2. Read the export (CSV or XLSX)
//   3. Check required columns (fatal when missing)
//   4. Validate rows; rejected rows are dropped and counted
//   5. Transform rows into line items
//   6. Filter to the fulfillment window (an empty result ends the run)
//   7. Bill every line item
//   8. Build the report tables
//   9. Write the workbook
//
// Everything runs sequentially on one in-memory table.
//
// =============================================================================

package converter

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/order-billing-report/internal/billing"
	"github.com/ginjaninja78/order-billing-report/internal/config"
	"github.com/ginjaninja78/order-billing-report/internal/csvparser"
	"github.com/ginjaninja78/order-billing-report/internal/fulfillment"
	"github.com/ginjaninja78/order-billing-report/internal/logging"
	"github.com/ginjaninja78/order-billing-report/internal/report"
	"github.com/ginjaninja78/order-billing-report/internal/types"
	"github.com/ginjaninja78/order-billing-report/internal/validation"
	"github.com/ginjaninja78/order-billing-report/internal/xlsxparser"
	"github.com/ginjaninja78/order-billing-report/internal/xlsxwriter"
	"github.com/ginjaninja78/order-billing-report/pkg/utils"
)

// ErrInputNotFound is returned when the export file does not exist.
var ErrInputNotFound = errors.New("input file not found")

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	// InputFile is the export that was processed.
	InputFile string

	// OutputFile is the path of the written report.
	// Empty if nothing was written (error, empty result or dry run).
	OutputFile string

	// Success is true when the run finished without a fatal error.
	// An empty filter result is a success.
	Success bool

	// Empty is true when no line item fell inside the window.
	Empty bool

	// Error contains the fatal error, if any.
	Error error

	Stats ProcessingStats

	// Summary is the invoice summary of the billed items.
	Summary report.InvoiceSummary
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	RowsRead     int
	RowsRejected int

	Filter fulfillment.Stats

	LinesBilled int
	Orders      int

	ProcessingTime time.Duration
}

// =============================================================================
// PROCESSOR STRUCTURE
// =============================================================================

// Options controls a run beyond the configuration.
type Options struct {
	// OutputName overrides the configured output file name format.
	OutputName string

	// DryRun computes everything but writes nothing.
	DryRun bool
}

// Processor runs the billing pipeline.
type Processor struct {
	cfg    *config.Config
	opts   Options
	files  *utils.FileManager
	logger *zap.Logger
}

// New creates a new Processor. cfg must have passed Validate.
func New(cfg *config.Config, opts Options, logger *zap.Logger) *Processor {
	return &Processor{
		cfg:    cfg,
		opts:   opts,
		files:  utils.NewFileManager(cfg.OutputDir),
		logger: logging.OrNop(logger),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the pipeline.
func (p *Processor) Run() Result {
	startTime := time.Now()
	result := p.run()
	result.Stats.ProcessingTime = time.Since(startTime)
	return result
}

func (p *Processor) run() Result {
	result := Result{InputFile: p.cfg.InputFile}

	fail := func(err error) Result {
		result.Error = err
		p.logger.Error("processing failed", zap.Error(err))
		return result
	}

	// =========================================================================
	// STEP 1: DESTINATION
	// =========================================================================

	if !p.opts.DryRun {
		if err := p.files.EnsureOutputDir(); err != nil {
			return fail(err)
		}
		if err := p.files.CheckWritable(); err != nil {
			return fail(err)
		}
	}

	// =========================================================================
	// STEP 2-5: LOAD, CHECK AND TYPE THE EXPORT
	// =========================================================================

	p.logger.Info("processing file", zap.String("input", p.cfg.InputFile))

	items, err := p.load(&result.Stats)
	if err != nil {
		return fail(err)
	}

	// =========================================================================
	// STEP 6: FULFILLMENT WINDOW
	// =========================================================================

	start, end, err := p.cfg.Window()
	if err != nil {
		return fail(err)
	}
	window, err := fulfillment.NewWindow(start, end)
	if err != nil {
		return fail(err)
	}

	filtered := fulfillment.Filter(items, window, p.logger)
	result.Stats.Filter = filtered.Stats

	if filtered.Empty() {
		p.logger.Warn("no orders found within the specified date range, skipping report",
			zap.String("start", p.cfg.StartDate),
			zap.String("end", p.cfg.EndDate),
		)
		result.Empty = true
		result.Success = true
		return result
	}

	// =========================================================================
	// STEP 7-8: BILLING AND REPORT TABLES
	// =========================================================================

	tariffs := p.cfg.BillingTariffs()
	engine := billing.NewEngine(tariffs, billing.NewClassifier(p.cfg.ExclusionPatterns), p.logger)
	billed := engine.Bill(filtered.Items)

	wb := report.Build(filtered.Items, billed, tariffs)
	result.Summary = report.Summarize(billed, tariffs)
	result.Stats.LinesBilled = len(billed)
	result.Stats.Orders = result.Summary.Orders

	p.logger.Info("billing complete",
		zap.Int("orders", result.Summary.Orders),
		zap.Int("lines", len(billed)),
		zap.String("grand_total", result.Summary.GrandTotal.StringFixed(2)),
	)

	if p.opts.DryRun {
		result.Success = true
		return result
	}

	// =========================================================================
	// STEP 9: WRITE
	// =========================================================================

	outputPath := p.files.OutputPath(p.cfg.OutputFileFormat, p.opts.OutputName)
	if err := xlsxwriter.Write(outputPath, wb); err != nil {
		return fail(fmt.Errorf("failed to create report: %w", err))
	}

	p.logger.Info("wrote report", zap.String("output", outputPath))
	result.OutputFile = outputPath
	result.Success = true
	return result
}

// load reads, checks and types the export.
func (p *Processor) load(stats *ProcessingStats) ([]types.LineItem, error) {
	table, err := p.readTable()
	if err != nil {
		return nil, err
	}
	stats.RowsRead = len(table.Rows)

	if err := validation.CheckColumns(table.Headers); err != nil {
		return nil, err
	}

	checked := validation.ValidateRows(table)
	stats.RowsRejected = len(checked.Rejected)
	for _, rowErr := range checked.Errors {
		p.logger.Debug("row problem", zap.String("detail", rowErr.Error()))
	}
	if stats.RowsRejected > 0 {
		p.logger.Warn("dropped malformed rows", zap.Int("rows", stats.RowsRejected))
	}
	if checked.WarningCount > 0 {
		p.logger.Warn("fields treated as absent", zap.Int("fields", checked.WarningCount))
	}

	return TransformRows(table, checked), nil
}

// readTable picks the parser by file extension.
func (p *Processor) readTable() (*types.RawTable, error) {
	path := p.cfg.InputFile
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("%w: %s", ErrInputNotFound, path)
	}

	var (
		table *types.RawTable
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		table, err = xlsxparser.Parse(path, p.cfg.XLSXSheet, validation.ColFulfilledAt, validation.ColCreatedAt)
	default:
		table, err = csvparser.Parse(path, p.cfg.CSVSettings)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	p.logger.Debug("parsed input", zap.Int("rows", len(table.Rows)), zap.Int("columns", len(table.Headers)))
	return table, nil
}

// Inspect reads and checks the export without filtering or billing.
// It backs the validate command.
func (p *Processor) Inspect() (ProcessingStats, *validation.Result, error) {
	var stats ProcessingStats

	table, err := p.readTable()
	if err != nil {
		return stats, nil, err
	}
	stats.RowsRead = len(table.Rows)

	if err := validation.CheckColumns(table.Headers); err != nil {
		return stats, nil, err
	}

	checked := validation.ValidateRows(table)
	stats.RowsRejected = len(checked.Rejected)
	return stats, checked, nil
}
