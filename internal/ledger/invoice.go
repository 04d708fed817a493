package ledger

import "github.com/shopspring/decimal"

// CommissionRate is the agency's cut of a day's sales, applied to the
// rollup's total price when invoicing a customer.
var CommissionRate = decimal.NewFromFloat(0.08)

// Invoice is a customer's day invoice derived from the authoritative rollup
// plus the manually entered extra charges.
type Invoice struct {
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Commission  decimal.Decimal `json:"commission"`
	DriverTip   decimal.Decimal `json:"driverTip"`
	Tobacco     decimal.Decimal `json:"tobacco"`
	FinalAmount decimal.Decimal `json:"finalAmount"`
}

// ComputeInvoice derives the customer invoice for one day:
// finalAmount = totalPrice - (commission + driverTip + tobacco).
func ComputeInvoice(totalPrice, driverTip, tobacco decimal.Decimal) Invoice {
	commission := totalPrice.Mul(CommissionRate)
	return Invoice{
		TotalPrice:  totalPrice,
		Commission:  commission,
		DriverTip:   driverTip,
		Tobacco:     tobacco,
		FinalAmount: totalPrice.Sub(commission.Add(driverTip).Add(tobacco)),
	}
}
