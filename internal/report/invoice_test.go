package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	billed := bill(
		line("#1001", 1, "T-Shirt", "SKU-TS"),
		line("#1001", 2, "Mug", "SKU-MUG"),
		line("#1001", 1, "Mug", "SKU-MUG"),
		line("#1002", 1, "Hoodie", "SKU-HOOD"),
		line("#1002", 1, "Package protection", "INS-01"),
		line("#1005", 1, "Package protection", "INS-01"),
	)

	s := Summarize(billed, testTariffs)

	assert.Equal(t, 2, s.Orders)
	assert.Equal(t, 2, s.FirstSKUCount)
	assert.Equal(t, 1, s.NextSKUCount)
	assert.Equal(t, 5, s.Pieces)
	assert.Equal(t, "3.75", s.TotalSKUCost.StringFixed(2))
	assert.Equal(t, "1.25", s.TotalPieceCost.StringFixed(2))
	assert.Equal(t, "5.00", s.GrandTotal.StringFixed(2))

	// Charges from counts agree with the allocated costs.
	first := testTariffs.FirstSKU.Mul(decimalInt(s.FirstSKUCount))
	next := testTariffs.NextSKU.Mul(decimalInt(s.NextSKUCount))
	assert.True(t, first.Add(next).Equal(s.TotalSKUCost))
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, testTariffs)
	assert.Equal(t, 0, s.Orders)
	assert.Equal(t, 0, s.NextSKUCount)
	assert.Equal(t, "0.00", s.GrandTotal.StringFixed(2))
}

func TestInvoiceSummary_Rows(t *testing.T) {
	s := Summarize(bill(
		line("#1001", 1, "T-Shirt", "SKU-TS"),
		line("#1001", 2, "Mug", "SKU-MUG"),
	), testTariffs)

	rows := s.Rows()
	require.Len(t, rows, 9)

	assert.Equal(t, SummaryRow{Description: "Orders Processed", Count: "1"}, rows[0])
	assert.Equal(t, SummaryRow{Rate: Separator, Count: Separator, Amount: Separator, IsSeparator: true}, rows[1])
	assert.Equal(t, SummaryRow{Description: "First SKU Charge", Rate: "1.50", Count: "1", Amount: "1.50"}, rows[2])
	assert.Equal(t, SummaryRow{Description: "Next SKU Charge", Rate: "0.75", Count: "1", Amount: "0.75"}, rows[3])
	assert.Equal(t, SummaryRow{Description: "Per Piece Charge", Rate: "0.25", Count: "3", Amount: "0.75"}, rows[4])
	assert.True(t, rows[5].IsSeparator)
	assert.Equal(t, "2.25", rows[6].Amount)
	assert.Equal(t, "0.75", rows[7].Amount)
	assert.Equal(t, SummaryRow{Description: "Grand Total", Amount: "3.00"}, rows[8])
}

func decimalInt(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
