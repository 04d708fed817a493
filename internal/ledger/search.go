package ledger

import (
	"fmt"
	"strings"
)

// SearchQuery carries the optional filter groups for Search. An empty field
// means the group is absent and vacuously true.
type SearchQuery struct {
	SearchText string
	DateFrom   string
	DateTo     string
	Category   string
}

// ReportRow is one flattened line of the search report.
type ReportRow struct {
	Name     string `json:"name"`
	ItemType string `json:"itemType"`
	Date     string `json:"date"`
	Details  string `json:"details"`
}

// Search filters customers and flattens the selected ones into report rows.
//
// Selection is a two-phase pipeline. Phase one applies the customer-level
// predicate: every provided filter group must be satisfied, and a group is
// satisfied if ANY of the customer's operations (or the customer record
// itself, for the text group) matches. Phase two emits one row for EVERY
// operation each selected customer owns, not only the operations that
// matched a filter. A customer selected because of one old operation still
// contributes all of its unrelated operations to the report. The legacy API
// behaved this way and callers depend on it; do not "fix" the flatten.
//
// Returns ErrNotFound when zero customers pass the predicate.
func Search(customers []Customer, q SearchQuery) ([]ReportRow, error) {
	var selected []Customer
	for _, c := range customers {
		if q.matches(c) {
			selected = append(selected, c)
		}
	}
	if len(selected) == 0 {
		return nil, ErrNotFound
	}

	var rows []ReportRow
	for _, c := range selected {
		for _, op := range c.Operations {
			rows = append(rows, ReportRow{
				Name:     c.CustomerName,
				ItemType: op.Category,
				Date:     op.Date,
				Details:  fmt.Sprintf("Boxes: %d, Weight: %s, Price: %s", op.NumBoxes, op.Weight, op.Price),
			})
		}
	}
	return rows, nil
}

// matches is the customer-level predicate: AND over the provided filter
// groups, each group an existential scan over the customer's operations.
func (q SearchQuery) matches(c Customer) bool {
	if q.SearchText != "" && !q.matchesText(c) {
		return false
	}
	if (q.DateFrom != "" || q.DateTo != "") && !q.matchesDateRange(c) {
		return false
	}
	if q.Category != "" && !q.matchesCategory(c) {
		return false
	}
	return true
}

// matchesText matches the customer name or any operation's distributor ID,
// case-insensitively.
func (q SearchQuery) matchesText(c Customer) bool {
	if containsFold(c.CustomerName, q.SearchText) {
		return true
	}
	for _, op := range c.Operations {
		if containsFold(op.DistributorID, q.SearchText) {
			return true
		}
	}
	return false
}

// matchesDateRange matches any operation whose date token falls inside the
// bounds. Dates compare as plain strings; a sortable encoding is the
// caller's responsibility.
func (q SearchQuery) matchesDateRange(c Customer) bool {
	for _, op := range c.Operations {
		if q.DateFrom != "" && op.Date < q.DateFrom {
			continue
		}
		if q.DateTo != "" && op.Date > q.DateTo {
			continue
		}
		return true
	}
	return false
}

func (q SearchQuery) matchesCategory(c Customer) bool {
	for _, op := range c.Operations {
		if containsFold(op.Category, q.Category) {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
