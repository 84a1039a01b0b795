// Package creditcard holds the credit card statement message set
// (CREDITCARDMSGSRQV1, CREDITCARDMSGSRSV1) and the credit card account
// list entry.
package creditcard

import (
	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/schema"
)

// StatementRequest is CCSTMTRQ.
type StatementRequest struct {
	Account *common.CreditCardAccountDetails
	common.StatementRequest
}

// StatementRequestTransaction is CCSTMTTRNRQ.
type StatementRequestTransaction struct {
	common.TransactionWrappedRequest
	Message *StatementRequest
}

// StatementResponse is CCSTMTRS.
type StatementResponse struct {
	common.StatementResponse
	Account *common.CreditCardAccountDetails
}

// StatementResponseTransaction is CCSTMTTRNRS.
type StatementResponseTransaction struct {
	common.TransactionWrappedResponse
	Message *StatementResponse
}

// AccountInfo is CCACCTINFO.
type AccountInfo struct {
	Account            *common.CreditCardAccountDetails
	SupportsTxDownload bool
	TransferSource     bool
	TransferDest       bool
	Status             common.AccountStatus
}

type RequestMessageSet struct {
	StatementRequests []*StatementRequestTransaction
}

func (*RequestMessageSet) Type() common.MessageSetType { return common.CreditCardMessageSet }

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

func (*ResponseMessageSet) Type() common.MessageSetType { return common.CreditCardMessageSet }

func (m *ResponseMessageSet) Responses() []common.StatusHolder {
	res := make([]common.StatusHolder, 0, len(m.StatementResponses))
	for _, rs := range m.StatementResponses {
		res = append(res, rs)
	}
	return res
}

func Register(r *schema.Registry) {
	common.Register(r)

	schema.Aggregate[StatementRequest](r, "CCSTMTRQ", nil)
	schema.Child(r, 0, func(s *StatementRequest) **common.CreditCardAccountDetails { return &s.Account },
		schema.Named("CCACCTFROM"), schema.Required())
	common.RegisterStatementRequest(r, func(s *StatementRequest) *common.StatementRequest { return &s.StatementRequest })

	common.WrapRequest(r, "CCSTMTTRNRQ",
		func(t *StatementRequestTransaction) *common.TransactionWrappedRequest { return &t.TransactionWrappedRequest },
		func(t *StatementRequestTransaction) **StatementRequest { return &t.Message })

	schema.Aggregate[StatementResponse](r, "CCSTMTRS", nil)
	common.RegisterStatementResponse(r, func(s *StatementResponse) *common.StatementResponse { return &s.StatementResponse })
	schema.Child(r, 10, func(s *StatementResponse) **common.CreditCardAccountDetails { return &s.Account },
		schema.Named("CCACCTFROM"))

	common.WrapResponse(r, "CCSTMTTRNRS",
		func(t *StatementResponseTransaction) *common.TransactionWrappedResponse { return &t.TransactionWrappedResponse },
		func(t *StatementResponseTransaction) **StatementResponse { return &t.Message })

	schema.Aggregate[AccountInfo](r, "CCACCTINFO", nil)
	schema.Child(r, 0, func(a *AccountInfo) **common.CreditCardAccountDetails { return &a.Account },
		schema.Named("CCACCTFROM"), schema.Required())
	schema.Element(r, "SUPTXDL", 10, func(a *AccountInfo) *bool { return &a.SupportsTxDownload }, schema.Required())
	schema.Element(r, "XFERSRC", 20, func(a *AccountInfo) *bool { return &a.TransferSource }, schema.Required())
	schema.Element(r, "XFERDEST", 30, func(a *AccountInfo) *bool { return &a.TransferDest }, schema.Required())
	schema.Element(r, "SVCSTATUS", 40, func(a *AccountInfo) *common.AccountStatus { return &a.Status }, schema.Required())

	schema.Aggregate[RequestMessageSet](r, "CREDITCARDMSGSRQV1", nil)
	schema.ChildList(r, 0, func(m *RequestMessageSet) *[]*StatementRequestTransaction { return &m.StatementRequests })
	schema.Aggregate[ResponseMessageSet](r, "CREDITCARDMSGSRSV1", nil)
	schema.ChildList(r, 0, func(m *ResponseMessageSet) *[]*StatementResponseTransaction { return &m.StatementResponses })
}

func init() {
	Register(schema.Default())
}
