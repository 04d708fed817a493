package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wakala-ledger/api/internal/enum"
	"github.com/wakala-ledger/api/internal/ledger"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func op(date string, numBoxes int64, weight, price string) ledger.Operation {
	return ledger.Operation{
		Date:     date,
		NumBoxes: numBoxes,
		BoxType:  enum.BoxTypeSmall,
		Weight:   dec(weight),
		Price:    dec(price),
	}
}

func TestAccumulateSumsOnlyMatchingDate(t *testing.T) {
	ops := []ledger.Operation{
		op("2024-01-01", 3, "10", "2"),
		op("2024-01-01", 2, "5", "4"),
		op("2024-01-02", 7, "100", "9"),
	}

	r := ledger.Accumulate(ops, "2024-01-01")

	if r.Date != "2024-01-01" {
		t.Errorf("date: got %q, want %q", r.Date, "2024-01-01")
	}
	if r.TotalBoxCount != 5 {
		t.Errorf("total box count: got %d, want 5", r.TotalBoxCount)
	}
	if !r.TotalWeight.Equal(dec("15")) {
		t.Errorf("total weight: got %s, want 15", r.TotalWeight)
	}
	// 10*2 + 5*4 = 40
	if !r.TotalPrice.Equal(dec("40")) {
		t.Errorf("total price: got %s, want 40", r.TotalPrice)
	}
}

func TestAccumulateEmptySubsetIsZero(t *testing.T) {
	ops := []ledger.Operation{op("2024-01-01", 3, "10", "2")}

	r := ledger.Accumulate(ops, "2024-02-02")

	if r.TotalBoxCount != 0 {
		t.Errorf("total box count: got %d, want 0", r.TotalBoxCount)
	}
	if !r.TotalWeight.IsZero() {
		t.Errorf("total weight: got %s, want 0", r.TotalWeight)
	}
	if !r.TotalPrice.IsZero() {
		t.Errorf("total price: got %s, want 0", r.TotalPrice)
	}
}

func TestAccumulateExactStringMatch(t *testing.T) {
	// No normalization: a differently formatted token for the same calendar
	// day does not match.
	ops := []ledger.Operation{
		op("2024-01-01", 3, "10", "2"),
		op("2024-1-1", 4, "20", "3"),
	}

	r := ledger.Accumulate(ops, "2024-01-01")

	if r.TotalBoxCount != 3 {
		t.Errorf("total box count: got %d, want 3", r.TotalBoxCount)
	}
}

func TestAccumulateIsDeterministic(t *testing.T) {
	ops := []ledger.Operation{
		op("2024-01-01", 3, "10.5", "2.25"),
		op("2024-01-01", 2, "5.5", "4.75"),
	}

	first := ledger.Accumulate(ops, "2024-01-01")
	second := ledger.Accumulate(ops, "2024-01-01")

	if first.TotalBoxCount != second.TotalBoxCount ||
		!first.TotalWeight.Equal(second.TotalWeight) ||
		!first.TotalPrice.Equal(second.TotalPrice) {
		t.Errorf("repeated accumulate differs: %+v vs %+v", first, second)
	}
}

func TestAccumulateFractionalWeights(t *testing.T) {
	ops := []ledger.Operation{
		op("2024-03-10", 1, "2.5", "3.2"),
		op("2024-03-10", 1, "1.5", "4.0"),
	}

	r := ledger.Accumulate(ops, "2024-03-10")

	if !r.TotalWeight.Equal(dec("4")) {
		t.Errorf("total weight: got %s, want 4", r.TotalWeight)
	}
	// 2.5*3.2 + 1.5*4.0 = 8 + 6 = 14
	if !r.TotalPrice.Equal(dec("14")) {
		t.Errorf("total price: got %s, want 14", r.TotalPrice)
	}
}
