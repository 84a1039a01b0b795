package common

import (
	"time"

	"github.com/signadot/go-ofx/schema"
)

// StatementRange is INCTRAN: the window of transactions to include.
type StatementRange struct {
	Start   time.Time
	End     time.Time
	Include bool
}

// BalanceInfo backs LEDGERBAL and AVAILBAL.
type BalanceInfo struct {
	Amount float64
	AsOf   time.Time
}

// StatementRequest holds what every statement request shares. The account
// aggregate comes first on the wire, so concrete requests register these
// fields with RegisterStatementRequest rather than inheriting them.
type StatementRequest struct {
	Range *StatementRange
}

// StatementResponse holds what every statement response shares, around
// the account aggregate at order 10.
type StatementResponse struct {
	CurrencyCode     string
	TransactionList  *TransactionList
	LedgerBalance    *BalanceInfo
	AvailableBalance *BalanceInfo
	MarketingInfo    string
}

// Transactions returns the statement's transactions, nil without a list.
func (s *StatementResponse) Transactions() []*Transaction {
	if s.TransactionList == nil {
		return nil
	}
	return s.TransactionList.Transactions
}

// RegisterStatementRequest registers INCTRAN at order 10 on T.
func RegisterStatementRequest[T any](r *schema.Registry, base func(*T) *StatementRequest) {
	schema.Child(r, 10, func(t *T) **StatementRange { return &base(t).Range })
}

// RegisterStatementResponse registers the shared statement response
// fields on T at orders 0 and 20 to 50.
func RegisterStatementResponse[T any](r *schema.Registry, base func(*T) *StatementResponse) {
	schema.Element(r, "CURDEF", 0, func(t *T) *string { return &base(t).CurrencyCode }, schema.Required())
	schema.Child(r, 20, func(t *T) **TransactionList { return &base(t).TransactionList })
	schema.Child(r, 30, func(t *T) **BalanceInfo { return &base(t).LedgerBalance }, schema.Named("LEDGERBAL"))
	schema.Child(r, 40, func(t *T) **BalanceInfo { return &base(t).AvailableBalance }, schema.Named("AVAILBAL"))
	schema.Element(r, "MKTGINFO", 50, func(t *T) *string { return &base(t).MarketingInfo })
}

func registerStatement(r *schema.Registry) {
	schema.Aggregate[StatementRange](r, "INCTRAN", nil)
	schema.Element(r, "DTSTART", 0, func(s *StatementRange) *time.Time { return &s.Start })
	schema.Element(r, "DTEND", 10, func(s *StatementRange) *time.Time { return &s.End })
	schema.Element(r, "INCLUDE", 20, func(s *StatementRange) *bool { return &s.Include }, schema.Required())

	schema.Aggregate[BalanceInfo](r, "", nil)
	schema.Element(r, "BALAMT", 0, func(b *BalanceInfo) *float64 { return &b.Amount }, schema.Required())
	schema.Element(r, "DTASOF", 10, func(b *BalanceInfo) *time.Time { return &b.AsOf }, schema.Required())
}

// Register adds the shared aggregates to r.
func Register(r *schema.Registry) {
	registerStatus(r)
	registerWrapped(r)
	registerAccounts(r)
	registerTransaction(r)
	registerStatement(r)
}

func init() {
	Register(schema.Default())
}
