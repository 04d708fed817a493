package ledger_test

import (
	"testing"

	"github.com/wakala-ledger/api/internal/ledger"
)

func TestComputeInvoice(t *testing.T) {
	inv := ledger.ComputeInvoice(dec("1000"), dec("20"), dec("30"))

	if !inv.Commission.Equal(dec("80")) {
		t.Errorf("commission: got %s, want 80", inv.Commission)
	}
	// 1000 - (80 + 20 + 30) = 870
	if !inv.FinalAmount.Equal(dec("870")) {
		t.Errorf("final amount: got %s, want 870", inv.FinalAmount)
	}
}

func TestComputeInvoiceZeroTotal(t *testing.T) {
	inv := ledger.ComputeInvoice(dec("0"), dec("0"), dec("0"))
	if !inv.FinalAmount.IsZero() {
		t.Errorf("final amount: got %s, want 0", inv.FinalAmount)
	}
}
