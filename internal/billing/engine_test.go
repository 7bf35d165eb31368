package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/order-billing-report/internal/types"
)

var testTariffs = types.Tariffs{
	FirstSKU: decimal.RequireFromString("1.50"),
	NextSKU:  decimal.RequireFromString("0.75"),
	PerPiece: decimal.RequireFromString("0.25"),
}

func newTestEngine() *Engine {
	return NewEngine(testTariffs, NewClassifier(DefaultExclusionPatterns), nil)
}

func line(order string, qty int, name, sku string) types.LineItem {
	return types.LineItem{OrderID: order, Quantity: qty, Name: name, SKU: sku}
}

func fixed(values []types.BilledItem, pick func(types.BilledItem) decimal.Decimal) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = pick(v).StringFixed(2)
	}
	return out
}

func pieceCost(b types.BilledItem) decimal.Decimal { return b.PieceCost }
func skuCost(b types.BilledItem) decimal.Decimal   { return b.SKUCost }
func lineTotal(b types.BilledItem) decimal.Decimal { return b.LineTotal }

func sampleOrders() []types.LineItem {
	return []types.LineItem{
		line("#1001", 1, "T-Shirt", "SKU-TS"),
		line("#1001", 2, "Mug", "SKU-MUG"),
		line("#1002", 3, "T-Shirt", "SKU-TS"),
		line("#1003", 1, "Hoodie", "SKU-HOOD"),
		line("#1003", 1, "Sticker", "SKU-STICK"),
		line("#1003", 1, "Package protection", "INS-01"),
		line("#1004", 1, "Single-Item", "SKU-SINGLE"),
	}
}

func TestBill_SampleOrders(t *testing.T) {
	billed := newTestEngine().Bill(sampleOrders())

	require.Len(t, billed, 7)
	assert.Equal(t, []string{"0.25", "0.50", "0.75", "0.25", "0.25", "0.00", "0.25"}, fixed(billed, pieceCost))
	assert.Equal(t, []string{"1.50", "0.75", "1.50", "1.50", "0.75", "0.00", "1.50"}, fixed(billed, skuCost))
	assert.Equal(t, []string{"1.75", "1.25", "2.25", "1.75", "1.00", "0.00", "1.75"}, fixed(billed, lineTotal))
	assert.False(t, billed[5].Billable)
}

func TestBill_RepeatedSKUIsFreeAfterFirst(t *testing.T) {
	billed := newTestEngine().Bill([]types.LineItem{
		line("#1", 1, "A", "A"),
		line("#1", 1, "A again", "A"),
		line("#1", 1, "B", "B"),
	})

	assert.Equal(t, []string{"1.50", "0.00", "0.75"}, fixed(billed, skuCost))
	assert.Equal(t, []string{"0.25", "0.25", "0.25"}, fixed(billed, pieceCost))
}

func TestBill_NonBillableDoesNotConsumeFirstSlotOrSKU(t *testing.T) {
	billed := newTestEngine().Bill([]types.LineItem{
		line("#1", 5, "Shipping Protection by X", "SKU-A"),
		line("#1", 1, "Widget", "SKU-A"),
		line("#1", 2, "Package protection", "INS-01"),
		line("#1", 1, "Gadget", "SKU-B"),
	})

	assert.Equal(t, []string{"0.00", "1.50", "0.00", "0.75"}, fixed(billed, skuCost))
	assert.Equal(t, []string{"0.00", "0.25", "0.00", "0.25"}, fixed(billed, pieceCost))
	assert.Equal(t, []bool{false, true, false, true},
		[]bool{billed[0].Billable, billed[1].Billable, billed[2].Billable, billed[3].Billable})
}

func TestBill_OrderWithoutBillableItems(t *testing.T) {
	billed := newTestEngine().Bill([]types.LineItem{
		line("#9", 1, "Package protection", "INS-01"),
	})
	assert.Equal(t, []string{"0.00"}, fixed(billed, lineTotal))
}

func TestBill_InterleavedOrdersAreIndependent(t *testing.T) {
	billed := newTestEngine().Bill([]types.LineItem{
		line("#1", 1, "A", "A"),
		line("#2", 1, "A", "A"),
		line("#1", 1, "B", "B"),
		line("#2", 1, "A", "A"),
	})
	assert.Equal(t, []string{"1.50", "1.50", "0.75", "0.00"}, fixed(billed, skuCost))
}

func TestBill_EndToEndScenarios(t *testing.T) {
	billed := newTestEngine().Bill([]types.LineItem{
		line("#1001", 1, "T-Shirt", "SKU-TS"),
		line("#1001", 2, "Mug", "SKU-MUG"),
		line("#1002", 1, "Hoodie", "SKU-HOOD"),
		line("#1002", 1, "Package protection", "INS-01"),
	})

	assert.Equal(t, []string{"1.75", "1.25", "1.75", "0.00"}, fixed(billed, lineTotal))
	assert.True(t, billed[3].PieceCost.IsZero())
	assert.True(t, billed[3].SKUCost.IsZero())
}

func TestBill_Idempotent(t *testing.T) {
	engine := newTestEngine()
	first := engine.Bill(sampleOrders())
	second := engine.Bill(LineItems(first))

	assert.Equal(t, first, second)
}

func TestBill_EmptyInput(t *testing.T) {
	assert.Empty(t, newTestEngine().Bill(nil))
}

func TestBillableOnly(t *testing.T) {
	billed := newTestEngine().Bill(sampleOrders())
	billable := BillableOnly(billed)

	require.Len(t, billable, 6)
	for _, b := range billable {
		assert.NotEqual(t, "INS-01", b.SKU)
	}
}

func TestClassifier(t *testing.T) {
	c := NewClassifier([]string{"Package protection", "", "Shipping Protection"})

	assert.True(t, c.IsBillable("T-Shirt"))
	assert.True(t, c.IsBillable(""))
	assert.False(t, c.IsBillable("Package protection"))
	assert.False(t, c.IsBillable("Premium Shipping Protection"))
	// Case-sensitive.
	assert.True(t, c.IsBillable("package protection"))
}
