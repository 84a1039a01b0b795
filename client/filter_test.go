package client

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/signadot/go-ofx/domain/common"
)

func filterTxns() []*common.Transaction {
	return []*common.Transaction{
		{Type: common.TxDebit, DatePosted: time.Date(2007, 2, 20, 0, 0, 0, 0, time.UTC), Amount: -10, ID: "1", Name: "COFFEE"},
		{Type: common.TxCheck, DatePosted: time.Date(2007, 3, 2, 0, 0, 0, 0, time.UTC), Amount: -250, ID: "2", CheckNumber: "1001", Payee: &common.Payee{Name: "Landlord"}},
		{Type: common.TxCredit, DatePosted: time.Date(2007, 3, 15, 0, 0, 0, 0, time.UTC), Amount: 2000, ID: "3", Name: "PAYROLL", Memo: "march"},
	}
}

func TestFilterTransactions(t *testing.T) {
	for _, tc := range []struct {
		expr string
		want []string
	}{
		{`amount < 0`, []string{"1", "2"}},
		{`posted >= date("20070301")`, []string{"2", "3"}},
		{`amount < 0 && posted >= date("20070301")`, []string{"2"}},
		{`type == "CREDIT" && memo contains "mar"`, []string{"3"}},
		{`payee == "Landlord" || checknum == "1001"`, []string{"2"}},
		{`fitid in ["1", "3"]`, []string{"1", "3"}},
		{`false`, nil},
	} {
		got, err := FilterTransactions(filterTxns(), tc.expr)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.expr, err)
		}
		var ids []string
		for _, tx := range got {
			ids = append(ids, tx.ID)
		}
		if diff := cmp.Diff(tc.want, ids); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.expr, diff)
		}
	}
}

func TestFilterEnv(t *testing.T) {
	t.Setenv("OFX_FILTER_NAME", "PAYROLL")
	got, err := FilterTransactions(filterTxns(), `name == getenv("OFX_FILTER_NAME")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != "3" {
		t.Errorf("unexpected match %+v", got)
	}
}

func TestFilterErrors(t *testing.T) {
	for _, src := range []string{
		`amount +`,
		`amount`,
		`nosuchfield == 1`,
	} {
		if _, err := CompileFilter(src); err == nil {
			t.Errorf("%s: expected compile error", src)
		}
	}
	f, err := CompileFilter(`posted > date("not a date")`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.Match(filterTxns()[0]); err == nil {
		t.Errorf("expected run error")
	}
}
