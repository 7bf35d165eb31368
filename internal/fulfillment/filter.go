// =============================================================================
// Order Billing Report - Fulfillment Filter
// =============================================================================
//
// The export fills order-level fields (fulfillment timestamp, fulfillment and
// financial status) on the first line of each order only. This module:
//   1. Forward-fills those fields within each order, in row order
//   2. Drops lines whose order was never fulfilled
//   3. Parses the fulfillment timestamps, dropping unparseable ones
//   4. Strips timezones so comparisons use the exported wall clock
//   5. Keeps lines fulfilled inside the billing window (inclusive, by day)
//
// An empty result is a valid outcome, not an error.
//
// =============================================================================

package fulfillment

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ginjaninja78/order-billing-report/internal/logging"
	"github.com/ginjaninja78/order-billing-report/internal/types"
)

// timestampLayouts are tried in order when parsing "Fulfilled at".
var timestampLayouts = []string{
	"2006-01-02 15:04:05 -0700",
	"2006-01-02 15:04:05 -07:00",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
}

// =============================================================================
// WINDOW
// =============================================================================

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window from two dates. Time of day is discarded.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: day(start), End: day(end)}
	if w.End.Before(w.Start) {
		return Window{}, fmt.Errorf("window end %s is before start %s",
			w.End.Format("02.01.2006"), w.Start.Format("02.01.2006"))
	}
	return w, nil
}

// Contains reports whether t falls on a day inside the window.
func (w Window) Contains(t time.Time) bool {
	d := day(t)
	return !d.Before(w.Start) && !d.After(w.End)
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// =============================================================================
// RESULT
// =============================================================================

// Stats counts what happened to the input rows.
type Stats struct {
	Input       int
	Unfulfilled int
	InvalidDate int
	OutOfRange  int
	Kept        int
}

// Result is the outcome of Filter.
type Result struct {
	// Items are the kept line items, in input order, with FulfilledAt set.
	Items []types.LineItem

	Stats Stats
}

// Empty reports whether no line item survived the filter.
func (r Result) Empty() bool {
	return len(r.Items) == 0
}

// =============================================================================
// FILTER
// =============================================================================

// Filter restricts items to orders fulfilled inside the window.
// The input slice is not modified.
func Filter(items []types.LineItem, window Window, logger *zap.Logger) Result {
	logger = logging.OrNop(logger)
	stats := Stats{Input: len(items)}

	filled := ForwardFill(items)

	kept := make([]types.LineItem, 0, len(filled))
	for _, item := range filled {
		if item.RawFulfilledAt == "" {
			stats.Unfulfilled++
			continue
		}

		ts, err := ParseTimestamp(item.RawFulfilledAt)
		if err != nil {
			stats.InvalidDate++
			logger.Debug("unparseable fulfillment date",
				zap.Int("row", item.RowNumber),
				zap.String("order", item.OrderID),
				zap.String("value", item.RawFulfilledAt),
			)
			continue
		}
		item.FulfilledAt = ts

		if !window.Contains(ts) {
			stats.OutOfRange++
			continue
		}
		kept = append(kept, item)
	}
	stats.Kept = len(kept)

	logger.Info("initial record count", zap.Int("rows", stats.Input))
	if stats.Unfulfilled > 0 {
		logger.Info("dropped unfulfilled order lines", zap.Int("rows", stats.Unfulfilled))
	}
	if stats.InvalidDate > 0 {
		logger.Warn("dropped rows with invalid fulfillment date", zap.Int("rows", stats.InvalidDate))
	}
	logger.Info("record count after filtering by date", zap.Int("rows", stats.Kept))

	return Result{Items: kept, Stats: stats}
}

// ForwardFill propagates order-level fields to the lines that left them
// blank. Rows are grouped by order id; within a group the last non-empty
// value seen so far replaces an empty one. Row order is preserved.
func ForwardFill(items []types.LineItem) []types.LineItem {
	type carried struct {
		fulfilledAt       string
		fulfillmentStatus string
		financialStatus   string
	}

	last := make(map[string]*carried)
	out := make([]types.LineItem, len(items))

	for i, item := range items {
		c, ok := last[item.OrderID]
		if !ok {
			c = &carried{}
			last[item.OrderID] = c
		}

		fill(&item.RawFulfilledAt, &c.fulfilledAt)
		fill(&item.FulfillmentStatus, &c.fulfillmentStatus)
		fill(&item.FinancialStatus, &c.financialStatus)

		out[i] = item
	}

	return out
}

// fill replaces an empty value with the carried one, or records a new
// non-empty value as the one to carry.
func fill(value, carried *string) {
	if strings.TrimSpace(*value) == "" {
		*value = *carried
		return
	}
	*carried = *value
}

// ParseTimestamp parses a fulfillment timestamp and returns its wall-clock
// reading without a location, so "2024-01-31 23:30 -0500" stays on the 31st.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range timestampLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
