// Package signon holds the signon message set (SIGNONMSGSRQV1,
// SIGNONMSGSRSV1). Every request envelope carries a signon request, and
// every response envelope a signon response.
package signon

import (
	"time"

	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/schema"
)

// FinancialInstitution is FI.
type FinancialInstitution struct {
	Organization string
	ID           string
}

// Request is SONRQ.
type Request struct {
	Timestamp       time.Time
	UserID          string
	Password        string
	UserKey         string
	GenerateUserKey *bool
	Language        string
	Institution     *FinancialInstitution
	SessionID       string
	ApplicationID   string
	ApplicationVer  string
	ClientUID       string
	UserCred1       string
	UserCred2       string
	AuthToken       string
	AccessKey       string
}

// NewRequest returns a request for user timestamped now. The language
// defaults to ENG.
func NewRequest(user, password, appID, appVersion string) *Request {
	return &Request{
		Timestamp:      time.Now(),
		UserID:         user,
		Password:       password,
		Language:       "ENG",
		ApplicationID:  appID,
		ApplicationVer: appVersion,
	}
}

// Response is SONRS.
type Response struct {
	Status         *common.Status
	Timestamp      time.Time
	UserKey        string
	UserKeyExpires *time.Time
	Language       string
	ProfileLastUpd *time.Time
	AccountLastUpd *time.Time
	Institution    *FinancialInstitution
	SessionID      string
	AccessKey      string
}

func (r *Response) StatusOf() *common.Status { return r.Status }

// PasswordChangeRequest is PINCHRQ.
type PasswordChangeRequest struct {
	UserID      string
	NewPassword string
}

type PasswordChangeRequestTransaction struct {
	common.TransactionWrappedRequest
	Message *PasswordChangeRequest
}

// PasswordChangeResponse is PINCHRS.
type PasswordChangeResponse struct {
	UserID     string
	ChangeTime *time.Time
}

type PasswordChangeResponseTransaction struct {
	common.TransactionWrappedResponse
	Message *PasswordChangeResponse
}

type RequestMessageSet struct {
	Signon         *Request
	PasswordChange *PasswordChangeRequestTransaction
}

func (*RequestMessageSet) Type() common.MessageSetType { return common.SignonMessageSet }

func (m *RequestMessageSet) Requests() []any {
	var res []any
	if m.Signon != nil {
		res = append(res, m.Signon)
	}
	if m.PasswordChange != nil {
		res = append(res, m.PasswordChange)
	}
	return res
}

type ResponseMessageSet struct {
	Signon         *Response
	PasswordChange *PasswordChangeResponseTransaction
}

func (*ResponseMessageSet) Type() common.MessageSetType { return common.SignonMessageSet }

func (m *ResponseMessageSet) Responses() []common.StatusHolder {
	var res []common.StatusHolder
	if m.Signon != nil {
		res = append(res, m.Signon)
	}
	if m.PasswordChange != nil {
		res = append(res, m.PasswordChange)
	}
	return res
}

// Register adds the signon aggregates to r.
func Register(r *schema.Registry) {
	common.Register(r)

	schema.Aggregate[FinancialInstitution](r, "FI", nil)
	schema.Element(r, "ORG", 0, func(f *FinancialInstitution) *string { return &f.Organization }, schema.Required())
	schema.Element(r, "FID", 10, func(f *FinancialInstitution) *string { return &f.ID })

	schema.Aggregate[Request](r, "SONRQ", nil)
	schema.Element(r, "DTCLIENT", 0, func(s *Request) *time.Time { return &s.Timestamp }, schema.Required())
	schema.Element(r, "USERID", 10, func(s *Request) *string { return &s.UserID })
	schema.Element(r, "USERPASS", 20, func(s *Request) *string { return &s.Password })
	schema.Element(r, "USERKEY", 30, func(s *Request) *string { return &s.UserKey })
	schema.Element(r, "GENUSERKEY", 40, func(s *Request) **bool { return &s.GenerateUserKey })
	schema.Element(r, "LANGUAGE", 50, func(s *Request) *string { return &s.Language }, schema.Required())
	schema.Child(r, 60, func(s *Request) **FinancialInstitution { return &s.Institution })
	schema.Element(r, "SESSCOOKIE", 70, func(s *Request) *string { return &s.SessionID })
	schema.Element(r, "APPID", 80, func(s *Request) *string { return &s.ApplicationID }, schema.Required())
	schema.Element(r, "APPVER", 90, func(s *Request) *string { return &s.ApplicationVer }, schema.Required())
	schema.Element(r, "CLIENTUID", 100, func(s *Request) *string { return &s.ClientUID })
	schema.Element(r, "USERCRED1", 110, func(s *Request) *string { return &s.UserCred1 })
	schema.Element(r, "USERCRED2", 120, func(s *Request) *string { return &s.UserCred2 })
	schema.Element(r, "AUTHTOKEN", 130, func(s *Request) *string { return &s.AuthToken })
	schema.Element(r, "ACCESSKEY", 140, func(s *Request) *string { return &s.AccessKey })

	schema.Aggregate[Response](r, "SONRS", nil)
	schema.Child(r, 0, func(s *Response) **common.Status { return &s.Status }, schema.Required())
	schema.Element(r, "DTSERVER", 10, func(s *Response) *time.Time { return &s.Timestamp }, schema.Required())
	schema.Element(r, "USERKEY", 20, func(s *Response) *string { return &s.UserKey })
	schema.Element(r, "TSKEYEXPIRE", 30, func(s *Response) **time.Time { return &s.UserKeyExpires })
	schema.Element(r, "LANGUAGE", 40, func(s *Response) *string { return &s.Language }, schema.Required())
	schema.Element(r, "DTPROFUP", 50, func(s *Response) **time.Time { return &s.ProfileLastUpd })
	schema.Element(r, "DTACCTUP", 60, func(s *Response) **time.Time { return &s.AccountLastUpd })
	schema.Child(r, 70, func(s *Response) **FinancialInstitution { return &s.Institution })
	schema.Element(r, "SESSCOOKIE", 80, func(s *Response) *string { return &s.SessionID })
	schema.Element(r, "ACCESSKEY", 90, func(s *Response) *string { return &s.AccessKey })

	schema.Aggregate[PasswordChangeRequest](r, "PINCHRQ", nil)
	schema.Element(r, "USERID", 0, func(p *PasswordChangeRequest) *string { return &p.UserID }, schema.Required())
	schema.Element(r, "NEWUSERPASS", 10, func(p *PasswordChangeRequest) *string { return &p.NewPassword }, schema.Required())
	common.WrapRequest(r, "PINCHTRNRQ",
		func(t *PasswordChangeRequestTransaction) *common.TransactionWrappedRequest { return &t.TransactionWrappedRequest },
		func(t *PasswordChangeRequestTransaction) **PasswordChangeRequest { return &t.Message })

	schema.Aggregate[PasswordChangeResponse](r, "PINCHRS", nil)
	schema.Element(r, "USERID", 0, func(p *PasswordChangeResponse) *string { return &p.UserID }, schema.Required())
	schema.Element(r, "DTCHANGED", 10, func(p *PasswordChangeResponse) **time.Time { return &p.ChangeTime })
	common.WrapResponse(r, "PINCHTRNRS",
		func(t *PasswordChangeResponseTransaction) *common.TransactionWrappedResponse { return &t.TransactionWrappedResponse },
		func(t *PasswordChangeResponseTransaction) **PasswordChangeResponse { return &t.Message })

	schema.Aggregate[RequestMessageSet](r, "SIGNONMSGSRQV1", nil)
	schema.Child(r, 0, func(m *RequestMessageSet) **Request { return &m.Signon }, schema.Required())
	schema.Child(r, 10, func(m *RequestMessageSet) **PasswordChangeRequestTransaction { return &m.PasswordChange })

	schema.Aggregate[ResponseMessageSet](r, "SIGNONMSGSRSV1", nil)
	schema.Child(r, 0, func(m *ResponseMessageSet) **Response { return &m.Signon }, schema.Required())
	schema.Child(r, 10, func(m *ResponseMessageSet) **PasswordChangeResponseTransaction { return &m.PasswordChange })
}

func init() {
	Register(schema.Default())
}
