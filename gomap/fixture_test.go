package gomap

import (
	"time"

	"github.com/signadot/go-ofx/schema"
)

type status struct {
	Code     int
	Severity string
	Message  string
}

type acct struct {
	BankID string
	AcctID string
}

type txn struct {
	ID     string
	Amount float64
	Posted time.Time
	Memo   string
}

type stmtRs struct {
	Currency string
	Account  *acct
	Txns     []*txn
	Balance  *float64
}

type envelope struct {
	Security string
	NewUID   string
	Status   *status
	Stmt     *stmtRs
	Notes    []string
}

func fixture() *schema.Registry {
	r := schema.NewRegistry()
	schema.Aggregate[envelope](r, "OFX", nil)
	schema.Header(r, "SECURITY", func(e *envelope) *string { return &e.Security })
	schema.Header(r, "NEWFILEUID", func(e *envelope) *string { return &e.NewUID }, schema.Required())
	schema.Child(r, 0, func(e *envelope) **status { return &e.Status }, schema.Required())
	schema.Child(r, 10, func(e *envelope) **stmtRs { return &e.Stmt })
	schema.ElementList(r, "NOTE", 20, func(e *envelope) *[]string { return &e.Notes })

	schema.Aggregate[status](r, "STATUS", nil)
	schema.Element(r, "CODE", 0, func(s *status) *int { return &s.Code }, schema.Required())
	schema.Element(r, "SEVERITY", 10, func(s *status) *string { return &s.Severity }, schema.Required())
	schema.Element(r, "MESSAGE", 20, func(s *status) *string { return &s.Message })

	schema.Aggregate[stmtRs](r, "STMTRS", nil)
	schema.Element(r, "CURDEF", 0, func(s *stmtRs) *string { return &s.Currency }, schema.Required())
	schema.Child(r, 10, func(s *stmtRs) **acct { return &s.Account }, schema.Named("BANKACCTFROM"), schema.Required())
	schema.ChildList(r, 20, func(s *stmtRs) *[]*txn { return &s.Txns })
	schema.Element(r, "BAL", 30, func(s *stmtRs) **float64 { return &s.Balance })

	schema.Aggregate[acct](r, "", nil)
	schema.Element(r, "BANKID", 0, func(a *acct) *string { return &a.BankID }, schema.Required())
	schema.Element(r, "ACCTID", 10, func(a *acct) *string { return &a.AcctID }, schema.Required())

	schema.Aggregate[txn](r, "STMTTRN", nil)
	schema.Element(r, "FITID", 0, func(t *txn) *string { return &t.ID }, schema.Required())
	schema.Element(r, "TRNAMT", 10, func(t *txn) *float64 { return &t.Amount }, schema.Required())
	schema.Element(r, "DTPOSTED", 20, func(t *txn) *time.Time { return &t.Posted })
	schema.Element(r, "MEMO", 30, func(t *txn) *string { return &t.Memo })
	return r
}

func sample() *envelope {
	bal := 94.5
	return &envelope{
		Security: "NONE",
		NewUID:   "u1",
		Status:   &status{Code: 0, Severity: "INFO"},
		Stmt: &stmtRs{
			Currency: "USD",
			Account:  &acct{BankID: "123", AcctID: "9"},
			Txns: []*txn{
				{ID: "t1", Amount: -5.5, Posted: time.Date(2007, 10, 15, 0, 0, 0, 0, time.UTC), Memo: "coffee & cake"},
				{ID: "t2", Amount: 100},
			},
			Balance: &bal,
		},
		Notes: []string{"a", "b"},
	}
}

const v1Head = "OFXHEADER:100\r\nDATA:OFXSGML\r\nVERSION:102\r\nSECURITY:NONE\r\n" +
	"ENCODING:USASCII\r\nCHARSET:1252\r\nCOMPRESSION:NONE\r\n" +
	"OLDFILEUID:NONE\r\nNEWFILEUID:u1\r\n\r\n"
