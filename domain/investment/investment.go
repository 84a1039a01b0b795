// Package investment holds the investment statement message set
// (INVSTMTMSGSRQV1, INVSTMTMSGSRSV1): statement requests, transactions,
// positions and balances.
package investment

import (
	"time"

	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/schema"
)

// AccountDetails identifies a brokerage account (INVACCTFROM).
type AccountDetails struct {
	BrokerID   string
	AccountID  string
	AccountKey string
}

// AccountInfo is INVACCTINFO.
type AccountInfo struct {
	Account     *AccountDetails
	ProductType string
	Checking    bool
	Status      common.AccountStatus
	AccountType string
	OptionLevel string
}

// IncludePosition is INCPOS.
type IncludePosition struct {
	AsOf    time.Time
	Include bool
}

// StatementRequest is INVSTMTRQ.
type StatementRequest struct {
	Account *AccountDetails
	common.StatementRequest
	IncludeOpenOrders *bool
	IncludePosition   *IncludePosition
	IncludeBalance    bool
}

type StatementRequestTransaction struct {
	common.TransactionWrappedRequest
	Message *StatementRequest
}

// StatementResponse is INVSTMTRS.
type StatementResponse struct {
	AsOf            time.Time
	CurrencyCode    string
	Account         *AccountDetails
	TransactionList *TransactionList
	PositionList    *PositionList
	Balance         *Balance
	MarketingInfo   string
}

type StatementResponseTransaction struct {
	common.TransactionWrappedResponse
	Message *StatementResponse
}

// Balance is INVBAL.
type Balance struct {
	AvailableCash float64
	MarginBalance float64
	ShortBalance  float64
	BuyingPower   *float64
}

type RequestMessageSet struct {
	StatementRequests []*StatementRequestTransaction
}

func (*RequestMessageSet) Type() common.MessageSetType { return common.InvestmentMessageSet }

func (m *RequestMessageSet) Requests() []any {
	res := make([]any, 0, len(m.StatementRequests))
	for _, rq := range m.StatementRequests {
		res = append(res, rq)
	}
	return res
}

type ResponseMessageSet struct {
	StatementResponses []*StatementResponseTransaction
}

func (*ResponseMessageSet) Type() common.MessageSetType { return common.InvestmentMessageSet }

func (m *ResponseMessageSet) Responses() []common.StatusHolder {
	res := make([]common.StatusHolder, 0, len(m.StatementResponses))
	for _, rs := range m.StatementResponses {
		res = append(res, rs)
	}
	return res
}

func registerStatements(r *schema.Registry) {
	schema.Aggregate[AccountDetails](r, "", nil)
	schema.Element(r, "BROKERID", 0, func(a *AccountDetails) *string { return &a.BrokerID }, schema.Required())
	schema.Element(r, "ACCTID", 20, func(a *AccountDetails) *string { return &a.AccountID }, schema.Required())
	schema.Element(r, "ACCTKEY", 40, func(a *AccountDetails) *string { return &a.AccountKey })

	schema.Aggregate[AccountInfo](r, "INVACCTINFO", nil)
	schema.Child(r, 0, func(a *AccountInfo) **AccountDetails { return &a.Account }, schema.Named("INVACCTFROM"), schema.Required())
	schema.Element(r, "USPRODUCTTYPE", 10, func(a *AccountInfo) *string { return &a.ProductType }, schema.Required())
	schema.Element(r, "CHECKING", 20, func(a *AccountInfo) *bool { return &a.Checking }, schema.Required())
	schema.Element(r, "SVCSTATUS", 30, func(a *AccountInfo) *common.AccountStatus { return &a.Status }, schema.Required())
	schema.Element(r, "INVACCTTYPE", 40, func(a *AccountInfo) *string { return &a.AccountType })
	schema.Element(r, "OPTIONLEVEL", 50, func(a *AccountInfo) *string { return &a.OptionLevel })

	schema.Aggregate[IncludePosition](r, "INCPOS", nil)
	schema.Element(r, "DTASOF", 0, func(p *IncludePosition) *time.Time { return &p.AsOf })
	schema.Element(r, "INCLUDE", 10, func(p *IncludePosition) *bool { return &p.Include }, schema.Required())

	schema.Aggregate[StatementRequest](r, "INVSTMTRQ", nil)
	schema.Child(r, 0, func(s *StatementRequest) **AccountDetails { return &s.Account }, schema.Named("INVACCTFROM"), schema.Required())
	common.RegisterStatementRequest(r, func(s *StatementRequest) *common.StatementRequest { return &s.StatementRequest })
	schema.Element(r, "INCOO", 20, func(s *StatementRequest) **bool { return &s.IncludeOpenOrders })
	schema.Child(r, 30, func(s *StatementRequest) **IncludePosition { return &s.IncludePosition }, schema.Required())
	schema.Element(r, "INCBAL", 40, func(s *StatementRequest) *bool { return &s.IncludeBalance }, schema.Required())

	common.WrapRequest(r, "INVSTMTTRNRQ",
		func(t *StatementRequestTransaction) *common.TransactionWrappedRequest { return &t.TransactionWrappedRequest },
		func(t *StatementRequestTransaction) **StatementRequest { return &t.Message })

	schema.Aggregate[StatementResponse](r, "INVSTMTRS", nil)
	schema.Element(r, "DTASOF", 0, func(s *StatementResponse) *time.Time { return &s.AsOf }, schema.Required())
	schema.Element(r, "CURDEF", 10, func(s *StatementResponse) *string { return &s.CurrencyCode }, schema.Required())
	schema.Child(r, 20, func(s *StatementResponse) **AccountDetails { return &s.Account }, schema.Named("INVACCTFROM"), schema.Required())
	schema.Child(r, 30, func(s *StatementResponse) **TransactionList { return &s.TransactionList })
	schema.Child(r, 40, func(s *StatementResponse) **PositionList { return &s.PositionList })
	schema.Child(r, 50, func(s *StatementResponse) **Balance { return &s.Balance })
	schema.Element(r, "MKTGINFO", 60, func(s *StatementResponse) *string { return &s.MarketingInfo })

	common.WrapResponse(r, "INVSTMTTRNRS",
		func(t *StatementResponseTransaction) *common.TransactionWrappedResponse { return &t.TransactionWrappedResponse },
		func(t *StatementResponseTransaction) **StatementResponse { return &t.Message })

	schema.Aggregate[Balance](r, "INVBAL", nil)
	schema.Element(r, "AVAILCASH", 10, func(b *Balance) *float64 { return &b.AvailableCash }, schema.Required())
	schema.Element(r, "MARGINBALANCE", 20, func(b *Balance) *float64 { return &b.MarginBalance }, schema.Required())
	schema.Element(r, "SHORTBALANCE", 30, func(b *Balance) *float64 { return &b.ShortBalance }, schema.Required())
	schema.Element(r, "BUYPOWER", 40, func(b *Balance) **float64 { return &b.BuyingPower })

	schema.Aggregate[RequestMessageSet](r, "INVSTMTMSGSRQV1", nil)
	schema.ChildList(r, 0, func(m *RequestMessageSet) *[]*StatementRequestTransaction { return &m.StatementRequests })
	schema.Aggregate[ResponseMessageSet](r, "INVSTMTMSGSRSV1", nil)
	schema.ChildList(r, 0, func(m *ResponseMessageSet) *[]*StatementResponseTransaction { return &m.StatementResponses })
}

// Register adds the investment aggregates, and the shared ones they use,
// to r.
func Register(r *schema.Registry) {
	common.Register(r)
	registerStatements(r)
	registerTransactions(r)
	registerPositions(r)
}

func init() {
	Register(schema.Default())
}
