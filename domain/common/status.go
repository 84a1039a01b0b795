package common

import (
	"fmt"
	"strconv"

	"github.com/signadot/go-ofx/schema"
)

// StatusCode is the numeric CODE of a STATUS aggregate.
type StatusCode int

const (
	StatusSuccess              StatusCode = 0
	StatusClientUpToDate       StatusCode = 1
	StatusGeneralError         StatusCode = 2000
	StatusGeneralAccountError  StatusCode = 2002
	StatusAccountNotFound      StatusCode = 2003
	StatusAccountClosed        StatusCode = 2004
	StatusAccountNotAuthorized StatusCode = 2005
	StatusDateTooSoon          StatusCode = 2014
	StatusDuplicateRequest     StatusCode = 2019
	StatusUnsupportedVersion   StatusCode = 2021
	StatusInvalidTAN           StatusCode = 2022
	StatusMFARequired          StatusCode = 3000
	StatusMFAFailed            StatusCode = 3001
	StatusNoTaxData            StatusCode = 14701
	StatusDatabaseError        StatusCode = 14702
	StatusTaxYearUnsupported   StatusCode = 14703
	StatusPasswordChange       StatusCode = 15000
	StatusSignonInvalid        StatusCode = 15500
	StatusAccountInUse         StatusCode = 15501
	StatusPasswordLocked       StatusCode = 15502
	StatusInvalidClientUID     StatusCode = 15510
	StatusContactFI            StatusCode = 15511
	StatusAuthTokenRequired    StatusCode = 15512
	StatusInvalidAuthToken     StatusCode = 15513
)

type knownCode struct {
	msg string
	sev Severity
}

var knownCodes = map[StatusCode]knownCode{
	StatusSuccess:              {"Success", SeverityInfo},
	StatusClientUpToDate:       {"Client is up-to-date", SeverityInfo},
	StatusGeneralError:         {"General error", SeverityError},
	StatusGeneralAccountError:  {"General account error", SeverityError},
	StatusAccountNotFound:      {"Account not found", SeverityError},
	StatusAccountClosed:        {"Account closed", SeverityError},
	StatusAccountNotAuthorized: {"Account not authorized", SeverityError},
	StatusDateTooSoon:          {"Date too soon", SeverityError},
	StatusDuplicateRequest:     {"Duplicate request", SeverityError},
	StatusUnsupportedVersion:   {"Unsupported version", SeverityError},
	StatusInvalidTAN:           {"Invalid transaction authorization number", SeverityError},
	StatusMFARequired:          {"Further authentication required", SeverityError},
	StatusMFAFailed:            {"MFA failed", SeverityError},
	StatusNoTaxData:            {"No tax data for account", SeverityError},
	StatusDatabaseError:        {"Database error", SeverityError},
	StatusTaxYearUnsupported:   {"Tax year not supported", SeverityError},
	StatusPasswordChange:       {"Password change required", SeverityInfo},
	StatusSignonInvalid:        {"Invalid signon", SeverityError},
	StatusAccountInUse:         {"Customer account in use", SeverityError},
	StatusPasswordLocked:       {"Password locked", SeverityError},
	StatusInvalidClientUID:     {"Invalid client UID", SeverityError},
	StatusContactFI:            {"User must contact FI", SeverityError},
	StatusAuthTokenRequired:    {"Auth token required", SeverityError},
	StatusInvalidAuthToken:     {"Invalid auth token", SeverityError},
}

func (c StatusCode) MarshalText() ([]byte, error) {
	return strconv.AppendInt(nil, int64(c), 10), nil
}

func (c *StatusCode) UnmarshalText(b []byte) error {
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return err
	}
	*c = StatusCode(n)
	return nil
}

// Message returns the standard text for a well-known code.
func (c StatusCode) Message() string {
	if k, ok := knownCodes[c]; ok {
		return k.msg
	}
	return "Unknown status code"
}

// DefaultSeverity returns the severity the standard assigns to c, ERROR
// for unknown codes.
func (c StatusCode) DefaultSeverity() Severity {
	if k, ok := knownCodes[c]; ok {
		return k.sev
	}
	return SeverityError
}

// Status is the STATUS aggregate.
type Status struct {
	Code     StatusCode
	Severity Severity
	Message  string
}

// NewStatus returns a status for c with its standard severity.
func NewStatus(c StatusCode) *Status {
	return &Status{Code: c, Severity: c.DefaultSeverity()}
}

// StatusHolder is implemented by responses carrying a STATUS.
type StatusHolder interface {
	StatusOf() *Status
}

// Err returns a *StatusError when the severity is ERROR.
func (s *Status) Err() error {
	if s == nil || s.Severity != SeverityError {
		return nil
	}
	return &StatusError{Status: *s}
}

// StatusError reports a response whose STATUS has severity ERROR.
type StatusError struct {
	Status Status
}

func (e *StatusError) Error() string {
	msg := e.Status.Message
	if msg == "" {
		msg = e.Status.Code.Message()
	}
	return fmt.Sprintf("status %d: %s", e.Status.Code, msg)
}

func registerStatus(r *schema.Registry) {
	schema.Aggregate[Status](r, "STATUS", nil)
	schema.Element(r, "CODE", 0, func(s *Status) *StatusCode { return &s.Code }, schema.Required())
	schema.Element(r, "SEVERITY", 10, func(s *Status) *Severity { return &s.Severity }, schema.Required())
	schema.Element(r, "MESSAGE", 20, func(s *Status) *string { return &s.Message })
}
