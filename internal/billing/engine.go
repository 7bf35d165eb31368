// =============================================================================
// Order Billing Report - Billing Engine
// =============================================================================
//
// This module allocates the fulfillment tariff down to individual line items.
//
// TARIFF:
//   - First SKU:  charged once per order, on its first billable line
//   - Next SKU:   charged on each later billable line whose SKU is new to
//                 the order
//   - Per piece:  charged for every billable piece
//   A repeated SKU costs nothing beyond its pieces.
//
// BILLABLE LINES:
//   Lines whose name contains an exclusion pattern (package or shipping
//   protection) are not billable. They carry zero costs, do not take the
//   first-SKU slot and do not mark their SKU as seen.
//
// EXAMPLE (first=1.50, next=0.75, piece=0.25):
//   #1001  SKU-TS  qty 1   -> piece 0.25  sku 1.50  line 1.75
//   #1001  SKU-MUG qty 2   -> piece 0.50  sku 0.75  line 1.25
//
// =============================================================================

package billing

import (
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ginjaninja78/order-billing-report/internal/logging"
	"github.com/ginjaninja78/order-billing-report/internal/types"
)

// DefaultExclusionPatterns are the line names that are never billed.
var DefaultExclusionPatterns = []string{"Package protection", "Shipping Protection"}

// =============================================================================
// CLASSIFIER
// =============================================================================

// Classifier decides whether a line item is billable.
type Classifier struct {
	patterns []string
}

// NewClassifier creates a Classifier. Empty patterns are ignored; they
// would otherwise match every name.
func NewClassifier(patterns []string) Classifier {
	return Classifier{
		patterns: lo.Filter(patterns, func(p string, _ int) bool { return p != "" }),
	}
}

// IsBillable reports whether a line with the given name is billed.
// Matching is a case-sensitive substring test; an empty name is billable.
func (c Classifier) IsBillable(name string) bool {
	for _, p := range c.patterns {
		if strings.Contains(name, p) {
			return false
		}
	}
	return true
}

// =============================================================================
// ENGINE
// =============================================================================

// Engine computes line-item costs.
type Engine struct {
	tariffs    types.Tariffs
	classifier Classifier
	logger     *zap.Logger
}

// NewEngine creates a new Engine.
func NewEngine(tariffs types.Tariffs, classifier Classifier, logger *zap.Logger) *Engine {
	return &Engine{
		tariffs:    tariffs,
		classifier: classifier,
		logger:     logging.OrNop(logger),
	}
}

// orderState tracks the tiering of one order while its lines are scanned.
type orderState struct {
	firstPending bool
	seenSKUs     map[string]struct{}
}

// Bill computes the costs of every line item. Orders are billed
// independently; lines of one order need not be contiguous, only their
// relative order matters. The output keeps the input order.
func (e *Engine) Bill(items []types.LineItem) []types.BilledItem {
	billed := make([]types.BilledItem, 0, len(items))
	orders := make(map[string]*orderState)

	for _, item := range items {
		state, ok := orders[item.OrderID]
		if !ok {
			state = &orderState{firstPending: true, seenSKUs: make(map[string]struct{})}
			orders[item.OrderID] = state
		}

		b := types.BilledItem{
			LineItem:  item,
			PieceCost: decimal.Zero,
			SKUCost:   decimal.Zero,
			LineTotal: decimal.Zero,
		}

		if !e.classifier.IsBillable(item.Name) {
			billed = append(billed, b)
			continue
		}

		b.Billable = true
		b.PieceCost = e.tariffs.PerPiece.Mul(decimal.NewFromInt(int64(item.Quantity)))

		_, seen := state.seenSKUs[item.SKU]
		switch {
		case state.firstPending:
			b.SKUCost = e.tariffs.FirstSKU
			state.firstPending = false
		case !seen:
			b.SKUCost = e.tariffs.NextSKU
		}
		state.seenSKUs[item.SKU] = struct{}{}

		b.LineTotal = b.PieceCost.Add(b.SKUCost)
		billed = append(billed, b)
	}

	e.logger.Debug("billed line items",
		zap.Int("lines", len(billed)),
		zap.Int("orders", len(orders)),
	)

	return billed
}

// BillableOnly returns the billable subset, in order.
func BillableOnly(items []types.BilledItem) []types.BilledItem {
	return lo.Filter(items, func(b types.BilledItem, _ int) bool { return b.Billable })
}

// LineItems strips the costs off billed items.
func LineItems(items []types.BilledItem) []types.LineItem {
	return lo.Map(items, func(b types.BilledItem, _ int) types.LineItem { return b.LineItem })
}
