// Package ledger holds the pure computation core of the sales ledger:
// per-day rollup accumulation, multi-criteria search over customers, and
// the reseller settlement arithmetic. Nothing in this package touches the
// database; callers fetch data through a store and hand it in.
package ledger

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrNotFound is the only structured error the ledger core produces. It
// covers an absent customer, an absent rollup for a date, and a search
// that selected zero customers.
var ErrNotFound = errors.New("not found")

// Operation is one recorded sales transaction line for a customer and
// distributor on a given day. Operations are append-only and never mutated.
//
// Date is an opaque, lexicographically ordered token, not a parsed
// calendar date. Range queries only behave correctly when callers use a
// sortable encoding such as YYYY-MM-DD. The wire name is "history" for
// compatibility with the legacy API.
type Operation struct {
	ID            uuid.UUID       `json:"id"`
	Date          string          `json:"history"`
	CustomerID    string          `json:"customerId"`
	DistributorID string          `json:"distributorId"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	NumBoxes      int64           `json:"numBoxes"`
	BoxType       string          `json:"boxType"`
	Weight        decimal.Decimal `json:"weight"`
	NumUnits      int64           `json:"numUnits"`
	ItemType      string          `json:"itemType"`
}

// Rollup is the cached per-day aggregate for one customer. It is always
// re-derivable from the customer's operations for that date; Accumulate is
// the single authority for its contents.
type Rollup struct {
	Date          string          `json:"date"`
	TotalBoxCount int64           `json:"totalBoxCount"`
	TotalWeight   decimal.Decimal `json:"totalWeight"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
}

// Customer is a ledger account: a business key, a display name, and the
// ordered sequence of operations it owns (insertion order, not time order).
type Customer struct {
	CustomerID   string
	CustomerName string
	Operations   []Operation
}
