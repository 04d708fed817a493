package ledger

// Accumulate derives the rollup for one calendar day from a customer's
// operations. Matching is exact string equality on the date token; there is
// no normalization or timezone handling. An empty subset yields an all-zero
// rollup for the date.
//
// The result depends only on the operations passed in, so recomputing with
// an unchanged sequence always returns an identical rollup.
func Accumulate(ops []Operation, date string) Rollup {
	r := Rollup{Date: date}
	for _, op := range ops {
		if op.Date != date {
			continue
		}
		r.TotalBoxCount += op.NumBoxes
		r.TotalWeight = r.TotalWeight.Add(op.Weight)
		r.TotalPrice = r.TotalPrice.Add(op.Weight.Mul(op.Price))
	}
	return r
}
