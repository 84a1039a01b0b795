// Package banking holds the bank statement message set (BANKMSGSRQV1,
// BANKMSGSRSV1) and the bank account list entry.
package banking

import (
	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/schema"
)

// StatementRequest is STMTRQ.
type StatementRequest struct {
	Account *common.BankAccountDetails
	common.StatementRequest
}

// StatementRequestTransaction is STMTTRNRQ.
type StatementRequestTransaction struct {
	common.TransactionWrappedRequest
	Message *StatementRequest
}

// StatementResponse is STMTRS.
type StatementResponse struct {
	common.StatementResponse
	Account *common.BankAccountDetails
}

// StatementResponseTransaction is STMTTRNRS.
type StatementResponseTransaction struct {
	common.TransactionWrappedResponse
	Message *StatementResponse
}

// AccountInfo is BANKACCTINFO, an entry of an account list.
type AccountInfo struct {
	Account            *common.BankAccountDetails
	SupportsTxDownload bool
	TransferSource     bool
	TransferDest       bool
	Status             common.AccountStatus
}

type RequestMessageSet struct {
	StatementRequests []*StatementRequestTransaction
}

func (*RequestMessageSet) Type() common.MessageSetType { return common.BankingMessageSet }

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

func (*ResponseMessageSet) Type() common.MessageSetType { return common.BankingMessageSet }

func (m *ResponseMessageSet) Responses() []common.StatusHolder {
	res := make([]common.StatusHolder, 0, len(m.StatementResponses))
	for _, rs := range m.StatementResponses {
		res = append(res, rs)
	}
	return res
}

// Register adds the banking aggregates, and the shared ones they use, to r.
func Register(r *schema.Registry) {
	common.Register(r)

	schema.Aggregate[StatementRequest](r, "STMTRQ", nil)
	schema.Child(r, 0, func(s *StatementRequest) **common.BankAccountDetails { return &s.Account },
		schema.Named("BANKACCTFROM"), schema.Required())
	common.RegisterStatementRequest(r, func(s *StatementRequest) *common.StatementRequest { return &s.StatementRequest })

	common.WrapRequest(r, "STMTTRNRQ",
		func(t *StatementRequestTransaction) *common.TransactionWrappedRequest { return &t.TransactionWrappedRequest },
		func(t *StatementRequestTransaction) **StatementRequest { return &t.Message })

	schema.Aggregate[StatementResponse](r, "STMTRS", nil)
	common.RegisterStatementResponse(r, func(s *StatementResponse) *common.StatementResponse { return &s.StatementResponse })
	schema.Child(r, 10, func(s *StatementResponse) **common.BankAccountDetails { return &s.Account },
		schema.Named("BANKACCTFROM"))

	common.WrapResponse(r, "STMTTRNRS",
		func(t *StatementResponseTransaction) *common.TransactionWrappedResponse { return &t.TransactionWrappedResponse },
		func(t *StatementResponseTransaction) **StatementResponse { return &t.Message })

	schema.Aggregate[AccountInfo](r, "BANKACCTINFO", nil)
	schema.Child(r, 0, func(a *AccountInfo) **common.BankAccountDetails { return &a.Account },
		schema.Named("BANKACCTFROM"), schema.Required())
	schema.Element(r, "SUPTXDL", 10, func(a *AccountInfo) *bool { return &a.SupportsTxDownload }, schema.Required())
	schema.Element(r, "XFERSRC", 20, func(a *AccountInfo) *bool { return &a.TransferSource }, schema.Required())
	schema.Element(r, "XFERDEST", 30, func(a *AccountInfo) *bool { return &a.TransferDest }, schema.Required())
	schema.Element(r, "SVCSTATUS", 40, func(a *AccountInfo) *common.AccountStatus { return &a.Status }, schema.Required())

	schema.Aggregate[RequestMessageSet](r, "BANKMSGSRQV1", nil)
	schema.ChildList(r, 0, func(m *RequestMessageSet) *[]*StatementRequestTransaction { return &m.StatementRequests })
	schema.Aggregate[ResponseMessageSet](r, "BANKMSGSRSV1", nil)
	schema.ChildList(r, 0, func(m *ResponseMessageSet) *[]*StatementResponseTransaction { return &m.StatementResponses })
}

func init() {
	Register(schema.Default())
}
