package ledger_test

import (
	"errors"
	"testing"

	"github.com/wakala-ledger/api/internal/ledger"
)

func testCustomers() []ledger.Customer {
	return []ledger.Customer{
		{
			CustomerID:   "C1",
			CustomerName: "Abu Salem Market",
			Operations: []ledger.Operation{
				{Date: "2024-01-01", DistributorID: "D-100", Category: "Tomatoes", NumBoxes: 3, Weight: dec("10"), Price: dec("2")},
				{Date: "2024-03-15", DistributorID: "D-200", Category: "Cucumbers", NumBoxes: 2, Weight: dec("5"), Price: dec("4")},
			},
		},
		{
			CustomerID:   "C2",
			CustomerName: "Green Valley",
			Operations: []ledger.Operation{
				{Date: "2024-02-10", DistributorID: "D-300", Category: "Potatoes", NumBoxes: 8, Weight: dec("40"), Price: dec("1.5")},
			},
		},
		{
			CustomerID:   "C3",
			CustomerName: "Corner Shop",
		},
	}
}

func TestSearchFlattensAllOperationsOfSelectedCustomer(t *testing.T) {
	// The date filter matches only C1's first operation, but the report
	// must include every operation C1 owns.
	rows, err := ledger.Search(testCustomers(), ledger.SearchQuery{
		DateFrom: "2024-01-01",
		DateTo:   "2024-01-31",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}

	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0].Date != "2024-01-01" || rows[1].Date != "2024-03-15" {
		t.Errorf("expected both of C1's operations, got %+v", rows)
	}
	if rows[1].ItemType != "Cucumbers" {
		t.Errorf("itemType: got %q, want %q", rows[1].ItemType, "Cucumbers")
	}
}

func TestSearchTextMatchesCustomerName(t *testing.T) {
	rows, err := ledger.Search(testCustomers(), ledger.SearchQuery{SearchText: "green"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Green Valley" {
		t.Errorf("expected Green Valley's single row, got %+v", rows)
	}
}

func TestSearchTextMatchesDistributorID(t *testing.T) {
	rows, err := ledger.Search(testCustomers(), ledger.SearchQuery{SearchText: "d-200"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// C1 selected via its second operation; both operations flatten out.
	if len(rows) != 2 {
		t.Errorf("rows: got %d, want 2", len(rows))
	}
}

func TestSearchCategoryContainsCaseInsensitive(t *testing.T) {
	rows, err := ledger.Search(testCustomers(), ledger.SearchQuery{Category: "POTA"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Green Valley" {
		t.Errorf("expected Green Valley's row, got %+v", rows)
	}
}

func TestSearchGroupsCombineWithAnd(t *testing.T) {
	// Text group selects C1, but the category group does not: no result.
	_, err := ledger.Search(testCustomers(), ledger.SearchQuery{
		SearchText: "Abu Salem",
		Category:   "Potatoes",
	})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	rows, err := ledger.Search(testCustomers(), ledger.SearchQuery{
		SearchText: "Abu Salem",
		Category:   "Tomatoes",
		DateFrom:   "2024-01-01",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows: got %d, want 2", len(rows))
	}
}

func TestSearchDateRangeIsLexicographic(t *testing.T) {
	rows, err := ledger.Search(testCustomers(), ledger.SearchQuery{
		DateFrom: "2024-02-01",
		DateTo:   "2024-02-28",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Green Valley" {
		t.Errorf("expected Green Valley only, got %+v", rows)
	}

	// Open-ended lower bound.
	rows, err = ledger.Search(testCustomers(), ledger.SearchQuery{DateTo: "2024-01-31"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("rows: got %d, want 2 (C1 flattened), got %+v", len(rows), rows)
	}
}

func TestSearchNoMatchesReturnsNotFound(t *testing.T) {
	_, err := ledger.Search(testCustomers(), ledger.SearchQuery{SearchText: "zzz-none"})
	if !errors.Is(err, ledger.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearchNoFiltersSelectsEveryone(t *testing.T) {
	rows, err := ledger.Search(testCustomers(), ledger.SearchQuery{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	// C3 has no operations and contributes no rows, but it still counts as
	// selected, so the result is not ErrNotFound.
	if len(rows) != 3 {
		t.Errorf("rows: got %d, want 3", len(rows))
	}
}

func TestSearchDetailsFormat(t *testing.T) {
	rows, err := ledger.Search(testCustomers(), ledger.SearchQuery{SearchText: "green"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	want := "Boxes: 8, Weight: 40, Price: 1.5"
	if rows[0].Details != want {
		t.Errorf("details: got %q, want %q", rows[0].Details, want)
	}
}
