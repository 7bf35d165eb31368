// =============================================================================
// Order Billing Report - Validation Engine
// =============================================================================
//
// This module validates the raw order export before it is typed.
//
// VALIDATION STRATEGY:
//   Validation is performed at two levels:
//   1. Table-level: every required column must be present. A missing column
//      is fatal: nothing is processed.
//   2. Row-level: each row is checked for values the pipeline cannot use
//      (missing order id, non-positive or non-numeric quantity, malformed
//      total). Problems are collected, never thrown; the converter drops or
//      repairs the offending rows and reports counts.
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/order-billing-report/internal/types"
)

// =============================================================================
// COLUMN NAMES
// =============================================================================

// Column headers of the order export.
const (
	ColOrderID                   = "Name"
	ColFulfilledAt               = "Fulfilled at"
	ColFulfillmentStatus         = "Fulfillment Status"
	ColFinancialStatus           = "Financial Status"
	ColCreatedAt                 = "Created at"
	ColQuantity                  = "Lineitem quantity"
	ColName                      = "Lineitem name"
	ColSKU                       = "Lineitem sku"
	ColLineItemFulfillmentStatus = "Lineitem fulfillment status"
	ColTotal                     = "Total"
)

// RequiredColumns must be present in every export.
var RequiredColumns = []string{
	ColOrderID,
	ColFulfilledAt,
	ColQuantity,
	ColName,
	ColSKU,
	ColTotal,
}

// ErrMissingColumns is returned when the export lacks required columns.
var ErrMissingColumns = errors.New("input is missing required columns")

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// Severity of a row problem.
const (
	// SeverityError means the row cannot be used and is dropped.
	SeverityError = "error"

	// SeverityWarning means the field is treated as absent and the row kept.
	SeverityWarning = "warning"
)

// RowError represents a single row-level problem.
type RowError struct {
	Severity string

	// Field is the column that failed validation.
	Field string

	// Value is the offending value.
	Value string

	Message string

	// RowNumber is the source row number.
	RowNumber int
}

// Error implements the error interface.
func (e *RowError) Error() string {
	return fmt.Sprintf("[%s] row %d, field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.RowNumber,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// Result contains the results of row validation.
type Result struct {
	// Errors contains every problem found, warnings included.
	Errors []*RowError

	// Rejected holds the numbers of rows with at least one error.
	Rejected map[int]bool

	ErrorCount   int
	WarningCount int

	RowsValidated int
}

// IsRejected reports whether the row with the given number must be dropped.
func (r *Result) IsRejected(rowNumber int) bool {
	return r.Rejected[rowNumber]
}

// HasWarning reports whether field of the given row carried a warning.
func (r *Result) HasWarning(rowNumber int, field string) bool {
	return lo.ContainsBy(r.Errors, func(e *RowError) bool {
		return e.RowNumber == rowNumber && e.Field == field && e.Severity == SeverityWarning
	})
}

// =============================================================================
// TABLE-LEVEL VALIDATION
// =============================================================================

// CheckColumns verifies that every required column is present.
// The returned error wraps ErrMissingColumns and lists the missing names.
func CheckColumns(headers []string) error {
	missing := lo.Filter(RequiredColumns, func(col string, _ int) bool {
		return !lo.Contains(headers, col)
	})
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// =============================================================================
// ROW-LEVEL VALIDATION
// =============================================================================

// ValidateRows checks every row of the table.
func ValidateRows(table *types.RawTable) *Result {
	result := &Result{Rejected: make(map[int]bool)}

	for _, row := range table.Rows {
		result.RowsValidated++
		for _, rowErr := range validateRow(row) {
			result.Errors = append(result.Errors, rowErr)
			if rowErr.Severity == SeverityError {
				result.ErrorCount++
				result.Rejected[row.Number] = true
			} else {
				result.WarningCount++
			}
		}
	}

	return result
}

func validateRow(row types.RawRow) []*RowError {
	var errs []*RowError
	add := func(severity, field, message string) {
		errs = append(errs, &RowError{
			Severity:  severity,
			Field:     field,
			Value:     row.Values[field],
			Message:   message,
			RowNumber: row.Number,
		})
	}

	if row.Values[ColOrderID] == "" {
		add(SeverityError, ColOrderID, "order identifier is empty")
	}

	if _, err := ParseQuantity(row.Values[ColQuantity]); err != nil {
		add(SeverityError, ColQuantity, err.Error())
	}

	if total := row.Values[ColTotal]; total != "" {
		if _, err := decimal.NewFromString(total); err != nil {
			add(SeverityWarning, ColTotal, "total is not a number, treated as absent")
		}
	}

	return errs
}

// ParseQuantity parses a line quantity. Spreadsheet round-trips sometimes
// turn "2" into "2.0"; whole-number decimals are accepted.
func ParseQuantity(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("quantity is empty")
	}

	qty, err := strconv.Atoi(value)
	if err != nil {
		d, derr := decimal.NewFromString(value)
		if derr != nil || !d.IsInteger() {
			return 0, fmt.Errorf("quantity is not a whole number")
		}
		qty = int(d.IntPart())
	}

	if qty <= 0 {
		return 0, fmt.Errorf("quantity must be positive")
	}
	return qty, nil
}
