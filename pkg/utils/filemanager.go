// =============================================================================
// Order Billing Report - File Manager Utility
// =============================================================================
//
// This module provides the file handling around the report:
//   - Output directory management
//   - Output file naming
//   - Checking the destination is writable before any work is done
//
// =============================================================================

package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReportExtension is the extension every report file carries.
const ReportExtension = ".xlsx"

// =============================================================================
// FILE MANAGER
// =============================================================================

// FileManager handles file operations for the report.
type FileManager struct {
	// OutputDir is the directory where the report is placed.
	OutputDir string

	// now is replaceable in tests.
	now func() time.Time
}

// NewFileManager creates a new FileManager for the given output directory.
func NewFileManager(outputDir string) *FileManager {
	return &FileManager{
		OutputDir: outputDir,
		now:       time.Now,
	}
}

// =============================================================================
// DIRECTORY MANAGEMENT
// =============================================================================

// EnsureOutputDir creates the output directory if it does not exist.
func (fm *FileManager) EnsureOutputDir() error {
	if err := os.MkdirAll(fm.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", fm.OutputDir, err)
	}
	return nil
}

// CheckWritable verifies that a file can be created in the output
// directory, so a destination problem is reported before the input is
// processed rather than after.
func (fm *FileManager) CheckWritable() error {
	probe, err := os.CreateTemp(fm.OutputDir, ".write-check-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", fm.OutputDir, err)
	}
	name := probe.Name()
	probe.Close()
	return os.Remove(name)
}

// =============================================================================
// OUTPUT FILE NAMING
// =============================================================================

// OutputPath returns the full path of the report. An explicit name wins
// over the configured format; either way the name ends in .xlsx.
func (fm *FileManager) OutputPath(format, explicitName string) string {
	name := explicitName
	if name == "" {
		name = GenerateOutputFileName(format, fm.now())
	}
	name = EnsureExtension(name)

	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(fm.OutputDir, name)
}

// GenerateOutputFileName expands the placeholders of a file name format.
//
// PLACEHOLDERS:
//   {date}      - Date (YYYY-MM-DD)
//   {timestamp} - Timestamp (YYYYMMDD_HHMMSS)
//   {uuid}      - A random UUID
//
// EXAMPLE:
//   format: "processed_orders_{date}.xlsx"
//   output: "processed_orders_2024-01-31.xlsx"
func GenerateOutputFileName(format string, now time.Time) string {
	replacer := strings.NewReplacer(
		"{date}", now.Format("2006-01-02"),
		"{timestamp}", now.Format("20060102_150405"),
		"{uuid}", uuid.New().String(),
	)
	return EnsureExtension(replacer.Replace(format))
}

// EnsureExtension appends .xlsx unless the name already ends with it.
func EnsureExtension(name string) string {
	if strings.HasSuffix(strings.ToLower(name), ReportExtension) {
		return name
	}
	return name + ReportExtension
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// FileExists checks if a regular file exists.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
