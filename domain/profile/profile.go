// Package profile holds the profile message set (PROFMSGSRQV1,
// PROFMSGSRSV1): what an institution supports and where to reach it.
package profile

import (
	"time"

	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/schema"
)

type ClientRouting string

const (
	RoutingNone    ClientRouting = "NONE"
	RoutingService ClientRouting = "SERVICE"
	RoutingMsgSet  ClientRouting = "MSGSET"
)

func (c ClientRouting) MarshalText() ([]byte, error) { return []byte(c), nil }

func (c *ClientRouting) UnmarshalText(b []byte) error {
	return common.ParseEnum(c, b, []ClientRouting{RoutingNone, RoutingService, RoutingMsgSet})
}

type SyncMode string

const (
	SyncFull SyncMode = "FULL"
	SyncLite SyncMode = "LITE"
)

func (s SyncMode) MarshalText() ([]byte, error) { return []byte(s), nil }

func (s *SyncMode) UnmarshalText(b []byte) error {
	return common.ParseEnum(s, b, []SyncMode{SyncFull, SyncLite})
}

type CharType string

const (
	AlphaOnly       CharType = "ALPHAONLY"
	NumericOnly     CharType = "NUMERICONLY"
	AlphaOrNumeric  CharType = "ALPHAORNUMERIC"
	AlphaAndNumeric CharType = "ALPHAANDNUMERIC"
)

func (c CharType) MarshalText() ([]byte, error) { return []byte(c), nil }

func (c *CharType) UnmarshalText(b []byte) error {
	return common.ParseEnum(c, b, []CharType{AlphaOnly, NumericOnly, AlphaOrNumeric, AlphaAndNumeric})
}

// Request is PROFRQ.
type Request struct {
	Routing     ClientRouting
	LastUpdated time.Time
}

type RequestTransaction struct {
	common.TransactionWrappedRequest
	Message *Request
}

// CoreInfo is MSGSETCORE.
type CoreInfo struct {
	Version         string
	ServiceProvider string
	URL             string
	Security        string
	TransportSec    bool
	SignonRealm     string
	Language        string
	SyncMode        SyncMode
	RespFileErrors  bool
	Timeout         *float64
}

// VersionInfo is a version specific entry of a message set, such as
// BANKMSGSETV1.
type VersionInfo struct {
	Core *CoreInfo
}

// MessageSetInfo is any entry of MSGSETLIST.
type MessageSetInfo interface {
	Type() common.MessageSetType
	// Core returns the core info of the first version, nil without one.
	Core() *CoreInfo
}

// MessageSetVersions holds the version entries shared by every
// MessageSetInfo.
type MessageSetVersions struct {
	Versions []*VersionInfo
}

func (m *MessageSetVersions) Core() *CoreInfo {
	if len(m.Versions) == 0 {
		return nil
	}
	return m.Versions[0].Core
}

type SignonInfoSet struct{ MessageSetVersions }
type SignupInfoSet struct{ MessageSetVersions }
type BankingInfoSet struct{ MessageSetVersions }
type CreditCardInfoSet struct{ MessageSetVersions }
type InvestmentInfoSet struct{ MessageSetVersions }
type ProfileInfoSet struct{ MessageSetVersions }

func (*SignonInfoSet) Type() common.MessageSetType     { return common.SignonMessageSet }
func (*SignupInfoSet) Type() common.MessageSetType     { return common.SignupMessageSet }
func (*BankingInfoSet) Type() common.MessageSetType    { return common.BankingMessageSet }
func (*CreditCardInfoSet) Type() common.MessageSetType { return common.CreditCardMessageSet }
func (*InvestmentInfoSet) Type() common.MessageSetType { return common.InvestmentMessageSet }
func (*ProfileInfoSet) Type() common.MessageSetType    { return common.ProfileMessageSet }

// SignonInfo is SIGNONINFO: the password rules of a signon realm.
type SignonInfo struct {
	Realm             string
	MinLength         int
	MaxLength         int
	CharType          CharType
	CaseSensitive     bool
	Special           bool
	Spaces            bool
	PinChange         bool
	ChangeFirst       bool
	UserCred1Label    string
	UserCred2Label    string
	ClientUIDRequired *bool
	AuthTokenFirst    *bool
	AuthTokenLabel    string
	AuthTokenInfoURL  string
	MFAChallenge      *bool
	MFAChallengeFirst *bool
}

// Response is PROFRS.
type Response struct {
	MessageSetList *MessageSetList
	SignonInfoList *SignonInfoList
	LastUpdated    time.Time
	Name           string
	Address1       string
	Address2       string
	Address3       string
	City           string
	State          string
	PostalCode     string
	Country        string
	CustomerPhone  string
	TechPhone      string
	Fax            string
	URL            string
	Email          string
}

// MessageSet returns the info of the message set of type t, nil when the
// institution does not list it.
func (r *Response) MessageSet(t common.MessageSetType) MessageSetInfo {
	if r.MessageSetList == nil {
		return nil
	}
	for _, m := range r.MessageSetList.Sets {
		if m.Type() == t {
			return m
		}
	}
	return nil
}

type ResponseTransaction struct {
	common.TransactionWrappedResponse
	Message *Response
}

type RequestMessageSet struct {
	Profile *RequestTransaction
}

func (*RequestMessageSet) Type() common.MessageSetType { return common.ProfileMessageSet }

func (m *RequestMessageSet) Requests() []any {
	if m.Profile == nil {
		return nil
	}
	return []any{m.Profile}
}

type ResponseMessageSet struct {
	Profile *ResponseTransaction
}

func (*ResponseMessageSet) Type() common.MessageSetType { return common.ProfileMessageSet }

func (m *ResponseMessageSet) Responses() []common.StatusHolder {
	if m.Profile == nil {
		return nil
	}
	return []common.StatusHolder{m.Profile}
}

// MessageSetList is MSGSETLIST.
type MessageSetList struct {
	Sets []MessageSetInfo
}

// SignonInfoList is SIGNONINFOLIST.
type SignonInfoList struct {
	Infos []*SignonInfo
}

func registerSet[T any](r *schema.Registry, name string, versions func(*T) *[]*VersionInfo) {
	schema.Aggregate[T](r, name, nil)
	schema.ChildList(r, 0, versions, schema.Named(name+"V1"))
}

// Register adds the profile aggregates to r.
func Register(r *schema.Registry) {
	common.Register(r)

	schema.Aggregate[Request](r, "PROFRQ", nil)
	schema.Element(r, "CLIENTROUTING", 0, func(p *Request) *ClientRouting { return &p.Routing }, schema.Required())
	schema.Element(r, "DTPROFUP", 10, func(p *Request) *time.Time { return &p.LastUpdated }, schema.Required())
	common.WrapRequest(r, "PROFTRNRQ",
		func(t *RequestTransaction) *common.TransactionWrappedRequest { return &t.TransactionWrappedRequest },
		func(t *RequestTransaction) **Request { return &t.Message })

	schema.Aggregate[CoreInfo](r, "MSGSETCORE", nil)
	schema.Element(r, "VER", 0, func(c *CoreInfo) *string { return &c.Version }, schema.Required())
	schema.Element(r, "SPNAME", 10, func(c *CoreInfo) *string { return &c.ServiceProvider })
	schema.Element(r, "URL", 20, func(c *CoreInfo) *string { return &c.URL }, schema.Required())
	schema.Element(r, "OFXSEC", 30, func(c *CoreInfo) *string { return &c.Security }, schema.Required())
	schema.Element(r, "TRANSPSEC", 40, func(c *CoreInfo) *bool { return &c.TransportSec }, schema.Required())
	schema.Element(r, "SIGNONREALM", 50, func(c *CoreInfo) *string { return &c.SignonRealm }, schema.Required())
	schema.Element(r, "LANGUAGE", 60, func(c *CoreInfo) *string { return &c.Language }, schema.Required())
	schema.Element(r, "SYNCMODE", 70, func(c *CoreInfo) *SyncMode { return &c.SyncMode }, schema.Required())
	schema.Element(r, "RESPFILEER", 80, func(c *CoreInfo) *bool { return &c.RespFileErrors }, schema.Required())
	schema.Element(r, "INTU.TIMEOUT", 90, func(c *CoreInfo) **float64 { return &c.Timeout })

	schema.Aggregate[VersionInfo](r, "", nil)
	schema.Child(r, 0, func(v *VersionInfo) **CoreInfo { return &v.Core }, schema.Required())

	registerSet(r, "SIGNONMSGSET", func(s *SignonInfoSet) *[]*VersionInfo { return &s.Versions })
	registerSet(r, "SIGNUPMSGSET", func(s *SignupInfoSet) *[]*VersionInfo { return &s.Versions })
	registerSet(r, "BANKMSGSET", func(s *BankingInfoSet) *[]*VersionInfo { return &s.Versions })
	registerSet(r, "CREDITCARDMSGSET", func(s *CreditCardInfoSet) *[]*VersionInfo { return &s.Versions })
	registerSet(r, "INVSTMTMSGSET", func(s *InvestmentInfoSet) *[]*VersionInfo { return &s.Versions })
	registerSet(r, "PROFMSGSET", func(s *ProfileInfoSet) *[]*VersionInfo { return &s.Versions })

	schema.Aggregate[MessageSetList](r, "MSGSETLIST", nil)
	schema.ChildList(r, 0, func(l *MessageSetList) *[]MessageSetInfo { return &l.Sets })

	schema.Aggregate[SignonInfo](r, "SIGNONINFO", nil)
	schema.Element(r, "SIGNONREALM", 0, func(s *SignonInfo) *string { return &s.Realm }, schema.Required())
	schema.Element(r, "MIN", 10, func(s *SignonInfo) *int { return &s.MinLength }, schema.Required())
	schema.Element(r, "MAX", 20, func(s *SignonInfo) *int { return &s.MaxLength }, schema.Required())
	schema.Element(r, "CHARTYPE", 30, func(s *SignonInfo) *CharType { return &s.CharType }, schema.Required())
	schema.Element(r, "CASESEN", 40, func(s *SignonInfo) *bool { return &s.CaseSensitive }, schema.Required())
	schema.Element(r, "SPECIAL", 50, func(s *SignonInfo) *bool { return &s.Special }, schema.Required())
	schema.Element(r, "SPACES", 60, func(s *SignonInfo) *bool { return &s.Spaces }, schema.Required())
	schema.Element(r, "PINCH", 70, func(s *SignonInfo) *bool { return &s.PinChange }, schema.Required())
	schema.Element(r, "CHGPINFIRST", 80, func(s *SignonInfo) *bool { return &s.ChangeFirst }, schema.Required())
	schema.Element(r, "USERCRED1LABEL", 90, func(s *SignonInfo) *string { return &s.UserCred1Label })
	schema.Element(r, "USERCRED2LABEL", 100, func(s *SignonInfo) *string { return &s.UserCred2Label })
	schema.Element(r, "CLIENTUIDREQ", 110, func(s *SignonInfo) **bool { return &s.ClientUIDRequired })
	schema.Element(r, "AUTHTOKENFIRST", 120, func(s *SignonInfo) **bool { return &s.AuthTokenFirst })
	schema.Element(r, "AUTHTOKENLABEL", 130, func(s *SignonInfo) *string { return &s.AuthTokenLabel })
	schema.Element(r, "AUTHTOKENINFOURL", 140, func(s *SignonInfo) *string { return &s.AuthTokenInfoURL })
	schema.Element(r, "MFACHALLENGESUPT", 150, func(s *SignonInfo) **bool { return &s.MFAChallenge })
	schema.Element(r, "MFACHALLENGEFIRST", 160, func(s *SignonInfo) **bool { return &s.MFAChallengeFirst })

	schema.Aggregate[SignonInfoList](r, "SIGNONINFOLIST", nil)
	schema.ChildList(r, 0, func(l *SignonInfoList) *[]*SignonInfo { return &l.Infos })

	schema.Aggregate[Response](r, "PROFRS", nil)
	schema.Child(r, 0, func(p *Response) **MessageSetList { return &p.MessageSetList })
	schema.Child(r, 10, func(p *Response) **SignonInfoList { return &p.SignonInfoList })
	schema.Element(r, "DTPROFUP", 20, func(p *Response) *time.Time { return &p.LastUpdated })
	schema.Element(r, "FINAME", 30, func(p *Response) *string { return &p.Name })
	schema.Element(r, "ADDR1", 40, func(p *Response) *string { return &p.Address1 }, schema.Required())
	schema.Element(r, "ADDR2", 50, func(p *Response) *string { return &p.Address2 })
	schema.Element(r, "ADDR3", 60, func(p *Response) *string { return &p.Address3 })
	schema.Element(r, "CITY", 70, func(p *Response) *string { return &p.City }, schema.Required())
	schema.Element(r, "STATE", 80, func(p *Response) *string { return &p.State }, schema.Required())
	schema.Element(r, "POSTALCODE", 90, func(p *Response) *string { return &p.PostalCode }, schema.Required())
	schema.Element(r, "COUNTRY", 100, func(p *Response) *string { return &p.Country }, schema.Required())
	schema.Element(r, "CSPHONE", 110, func(p *Response) *string { return &p.CustomerPhone })
	schema.Element(r, "TSPHONE", 120, func(p *Response) *string { return &p.TechPhone })
	schema.Element(r, "FAXPHONE", 130, func(p *Response) *string { return &p.Fax })
	schema.Element(r, "URL", 140, func(p *Response) *string { return &p.URL })
	schema.Element(r, "EMAIL", 150, func(p *Response) *string { return &p.Email })

	common.WrapResponse(r, "PROFTRNRS",
		func(t *ResponseTransaction) *common.TransactionWrappedResponse { return &t.TransactionWrappedResponse },
		func(t *ResponseTransaction) **Response { return &t.Message })

	schema.Aggregate[RequestMessageSet](r, "PROFMSGSRQV1", nil)
	schema.Child(r, 0, func(m *RequestMessageSet) **RequestTransaction { return &m.Profile }, schema.Required())
	schema.Aggregate[ResponseMessageSet](r, "PROFMSGSRSV1", nil)
	schema.Child(r, 0, func(m *ResponseMessageSet) **ResponseTransaction { return &m.Profile }, schema.Required())
}

func init() {
	Register(schema.Default())
}
