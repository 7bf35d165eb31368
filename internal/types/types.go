// =============================================================================
// Order Billing Report - Shared Types
// =============================================================================
//
// This package contains the types shared by the pipeline stages so that
// no stage has to import another one just to name its data. Types defined
// here are used by:
//   - csvparser / xlsxparser (RawTable)
//   - converter              (LineItem)
//   - fulfillment            (LineItem)
//   - billing                (Tariffs, BilledItem)
//   - report                 (BilledItem)
//
// =============================================================================

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RAW INPUT TABLE
// =============================================================================

// RawTable is an order export as read from disk, before any typing.
type RawTable struct {
	// Headers contains the trimmed column headers in file order.
	Headers []string

	// Rows contains the data rows, blank rows already removed.
	Rows []RawRow

	// SourceFile is the path the table was read from.
	SourceFile string
}

// RawRow is one data row keyed by header.
type RawRow struct {
	// Number is the 1-indexed row number in the source file.
	// Useful for error reporting.
	Number int

	// Values maps header -> trimmed cell value. Missing cells are "".
	Values map[string]string
}

// =============================================================================
// LINE ITEMS
// =============================================================================

// LineItem is one row of the order export: a single product line that
// belongs to exactly one order.
type LineItem struct {
	// OrderID is the order identifier ("Name" column, e.g. "#1001").
	// It is not unique across rows.
	OrderID string

	// RawFulfilledAt is the fulfillment timestamp as exported.
	// Empty means absent; the fulfillment filter forward-fills it.
	RawFulfilledAt string

	// FulfilledAt is the parsed, location-free fulfillment timestamp.
	// It is the zero time until the fulfillment filter has run.
	FulfilledAt time.Time

	FulfillmentStatus string
	FinancialStatus   string
	CreatedAt         string

	// Quantity is the number of pieces on this line (always > 0).
	Quantity int

	// Name is the line description. Non-billable lines are detected by
	// substring match on this field.
	Name string

	SKU string

	LineItemFulfillmentStatus string

	// Total is the order-level monetary total. The export repeats the
	// column on every line but fills it only once per order, so it must
	// never be summed across lines.
	Total decimal.NullDecimal

	// RowNumber is the source row number.
	RowNumber int
}

// HasFulfillment reports whether the fulfillment timestamp was parsed.
func (li LineItem) HasFulfillment() bool {
	return !li.FulfilledAt.IsZero()
}

// =============================================================================
// BILLING
// =============================================================================

// Tariffs holds the three rates of the tiered SKU/quantity tariff.
type Tariffs struct {
	// FirstSKU is charged once per order, for its first billable line.
	FirstSKU decimal.Decimal

	// NextSKU is charged for each additional distinct billable SKU.
	NextSKU decimal.Decimal

	// PerPiece is charged for every billable piece.
	PerPiece decimal.Decimal
}

// BilledItem is a LineItem with its allocated costs.
type BilledItem struct {
	LineItem

	// Billable is false for protection/insurance lines.
	Billable bool

	PieceCost decimal.Decimal
	SKUCost   decimal.Decimal
	LineTotal decimal.Decimal
}
