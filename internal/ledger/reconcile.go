package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/wakala-ledger/api/internal/enum"
)

// Refundable deposit charged per returnable box, tiered by box size.
const (
	DepositRateSmall int64 = 50
	DepositRateLarge int64 = 100
)

// StatementInput is everything the settlement needs: the distributor's
// operations for the day plus the manually entered figures from the payment
// desk.
type StatementInput struct {
	DistributorID string
	Date          string
	Operations    []Operation
	CurrentBoxes  int64
	Discount      decimal.Decimal
	PaidAmount    decimal.Decimal
}

// Statement is a reseller's settlement for one day. It is recomputed fresh
// on every request and never persisted.
type Statement struct {
	DistributorID        string          `json:"distributorId"`
	Date                 string          `json:"history"`
	TotalBoxes           int64           `json:"totalBoxes"`
	BoxDeposit           decimal.Decimal `json:"boxDeposit"`
	TotalSalesResult     decimal.Decimal `json:"totalSalesResult"`
	FinalResult          decimal.Decimal `json:"finalResult"`
	RemainingForAgency   decimal.Decimal `json:"remainingForAgency"`
	RemainingForReseller decimal.Decimal `json:"remainingForReseller"`
	RemainingBoxes       int64           `json:"remainingBoxes"`
}

// ComputeStatement runs the settlement arithmetic. Pure: no store access, no
// side effects.
//
// The gross deposit tiers per operation (small boxes 50, anything else 100).
// The reduction for boxes currently held uses a single rate chosen by
// comparing CurrentBoxes against the day's total box count: 50 when
// CurrentBoxes <= total, else 100. The mismatch between per-operation
// tiering and the aggregate tie-break is how the payment desk has always
// settled; keep it.
//
// RemainingForAgency and RemainingForReseller are additive inverses by
// construction, for any inputs including negatives and zero.
func ComputeStatement(in StatementInput) Statement {
	var totalBoxes, grossDeposit int64
	totalSales := decimal.Zero
	for _, op := range in.Operations {
		totalBoxes += op.NumBoxes
		grossDeposit += op.NumBoxes * depositRate(op.BoxType)
		totalSales = totalSales.Add(op.Price.Mul(op.Weight))
	}

	reductionRate := DepositRateLarge
	if in.CurrentBoxes <= totalBoxes {
		reductionRate = DepositRateSmall
	}
	boxDeposit := decimal.NewFromInt(grossDeposit - in.CurrentBoxes*reductionRate)

	finalResult := totalSales.Add(boxDeposit).Sub(in.Discount)

	return Statement{
		DistributorID:        in.DistributorID,
		Date:                 in.Date,
		TotalBoxes:           totalBoxes,
		BoxDeposit:           boxDeposit,
		TotalSalesResult:     totalSales,
		FinalResult:          finalResult,
		RemainingForAgency:   finalResult.Sub(in.PaidAmount),
		RemainingForReseller: in.PaidAmount.Sub(finalResult),
		RemainingBoxes:       totalBoxes - in.CurrentBoxes,
	}
}

func depositRate(boxType string) int64 {
	if boxType == enum.BoxTypeSmall {
		return DepositRateSmall
	}
	return DepositRateLarge
}
