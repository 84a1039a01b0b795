// Package signup holds the signup message set (SIGNUPMSGSRQV1,
// SIGNUPMSGSRSV1), which institutions use to list a user's accounts.
package signup

import (
	"time"

	"github.com/signadot/go-ofx/domain/banking"
	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/domain/creditcard"
	"github.com/signadot/go-ofx/domain/investment"
	"github.com/signadot/go-ofx/schema"
)

// AccountInfoRequest is ACCTINFORQ. LastUpdated is usually the zero
// epoch, asking for every account.
type AccountInfoRequest struct {
	LastUpdated time.Time
}

type AccountInfoRequestTransaction struct {
	common.TransactionWrappedRequest
	Message *AccountInfoRequest
}

// AccountProfile is ACCTINFO, one account of the list. At most one of
// the Bank, CreditCard and Investment specifics is set.
type AccountProfile struct {
	Description string
	Phone       string
	Bank        *banking.AccountInfo
	CreditCard  *creditcard.AccountInfo
	Investment  *investment.AccountInfo
}

// AccountInfoResponse is ACCTINFORS.
type AccountInfoResponse struct {
	LastUpdated time.Time
	Accounts    []*AccountProfile
}

type AccountInfoResponseTransaction struct {
	common.TransactionWrappedResponse
	Message *AccountInfoResponse
}

type RequestMessageSet struct {
	AccountInfo *AccountInfoRequestTransaction
}

func (*RequestMessageSet) Type() common.MessageSetType { return common.SignupMessageSet }

func (m *RequestMessageSet) Requests() []any {
	if m.AccountInfo == nil {
		return nil
	}
	return []any{m.AccountInfo}
}

type ResponseMessageSet struct {
	AccountInfo *AccountInfoResponseTransaction
}

func (*ResponseMessageSet) Type() common.MessageSetType { return common.SignupMessageSet }

func (m *ResponseMessageSet) Responses() []common.StatusHolder {
	if m.AccountInfo == nil {
		return nil
	}
	return []common.StatusHolder{m.AccountInfo}
}

// Register adds the signup aggregates, and the account info aggregates
// they list, to r.
func Register(r *schema.Registry) {
	banking.Register(r)
	creditcard.Register(r)
	investment.Register(r)

	schema.Aggregate[AccountInfoRequest](r, "ACCTINFORQ", nil)
	schema.Element(r, "DTACCTUP", 0, func(a *AccountInfoRequest) *time.Time { return &a.LastUpdated }, schema.Required())
	common.WrapRequest(r, "ACCTINFOTRNRQ",
		func(t *AccountInfoRequestTransaction) *common.TransactionWrappedRequest { return &t.TransactionWrappedRequest },
		func(t *AccountInfoRequestTransaction) **AccountInfoRequest { return &t.Message })

	schema.Aggregate[AccountProfile](r, "ACCTINFO", nil)
	schema.Element(r, "DESC", 0, func(a *AccountProfile) *string { return &a.Description })
	schema.Element(r, "PHONE", 10, func(a *AccountProfile) *string { return &a.Phone })
	schema.Child(r, 20, func(a *AccountProfile) **banking.AccountInfo { return &a.Bank })
	schema.Child(r, 30, func(a *AccountProfile) **creditcard.AccountInfo { return &a.CreditCard })
	schema.Child(r, 40, func(a *AccountProfile) **investment.AccountInfo { return &a.Investment })

	schema.Aggregate[AccountInfoResponse](r, "ACCTINFORS", nil)
	schema.Element(r, "DTACCTUP", 0, func(a *AccountInfoResponse) *time.Time { return &a.LastUpdated }, schema.Required())
	schema.ChildList(r, 10, func(a *AccountInfoResponse) *[]*AccountProfile { return &a.Accounts })
	common.WrapResponse(r, "ACCTINFOTRNRS",
		func(t *AccountInfoResponseTransaction) *common.TransactionWrappedResponse { return &t.TransactionWrappedResponse },
		func(t *AccountInfoResponseTransaction) **AccountInfoResponse { return &t.Message })

	schema.Aggregate[RequestMessageSet](r, "SIGNUPMSGSRQV1", nil)
	schema.Child(r, 0, func(m *RequestMessageSet) **AccountInfoRequestTransaction { return &m.AccountInfo })
	schema.Aggregate[ResponseMessageSet](r, "SIGNUPMSGSRSV1", nil)
	schema.Child(r, 0, func(m *ResponseMessageSet) **AccountInfoResponseTransaction { return &m.AccountInfo })
}

func init() {
	Register(schema.Default())
}
