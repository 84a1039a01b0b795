// Package envelope holds the root OFX aggregate of requests and
// responses. Importing it registers every domain package on
// schema.Default.
//
// Message sets are kept in an ordered.Set sorted by
// common.MessageSetType, so an envelope always writes SIGNONMSGSRQV1
// before BANKMSGSRQV1 whatever order they were added or read in.
package envelope

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"

	"github.com/signadot/go-ofx/domain/banking"
	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/domain/creditcard"
	"github.com/signadot/go-ofx/domain/investment"
	"github.com/signadot/go-ofx/domain/profile"
	"github.com/signadot/go-ofx/domain/signon"
	"github.com/signadot/go-ofx/domain/signup"
	"github.com/signadot/go-ofx/ordered"
	"github.com/signadot/go-ofx/schema"
)

// RequestEnvelope is the OFX root of a request. Empty header fields are
// written as NONE and NONE reads back as empty.
type RequestEnvelope struct {
	Security    string
	UID         string
	LastUID     string
	MessageSets *ordered.Set[common.RequestMessageSet]
}

// NewRequest returns a request envelope with a fresh NEWFILEUID holding
// sets.
func NewRequest(sets ...common.RequestMessageSet) *RequestEnvelope {
	e := newRequest()
	e.UID = uuid.NewString()
	for _, s := range sets {
		e.MessageSets.Insert(s)
	}
	return e
}

func newRequest() *RequestEnvelope {
	return &RequestEnvelope{
		MessageSets: ordered.New(common.ByType[common.RequestMessageSet]),
	}
}

// Add inserts a message set.
func (e *RequestEnvelope) Add(m common.RequestMessageSet) {
	if e.MessageSets == nil {
		e.MessageSets = ordered.New(common.ByType[common.RequestMessageSet])
	}
	e.MessageSets.Insert(m)
}

// MessageSet returns the message set of type t, nil if absent.
func (e *RequestEnvelope) MessageSet(t common.MessageSetType) common.RequestMessageSet {
	return find(e.MessageSets, t)
}

// Signon returns the signon message set, nil if absent.
func (e *RequestEnvelope) Signon() *signon.RequestMessageSet {
	m, _ := e.MessageSet(common.SignonMessageSet).(*signon.RequestMessageSet)
	return m
}

// ResponseEnvelope is the OFX root of a response.
type ResponseEnvelope struct {
	Security    string
	UID         string
	MessageSets *ordered.Set[common.ResponseMessageSet]
}

func newResponse() *ResponseEnvelope {
	return &ResponseEnvelope{
		MessageSets: ordered.New(common.ByType[common.ResponseMessageSet]),
	}
}

// NewResponse returns a response envelope with a fresh NEWFILEUID
// holding sets.
func NewResponse(sets ...common.ResponseMessageSet) *ResponseEnvelope {
	e := newResponse()
	e.UID = uuid.NewString()
	for _, s := range sets {
		e.MessageSets.Insert(s)
	}
	return e
}

func (e *ResponseEnvelope) Add(m common.ResponseMessageSet) {
	if e.MessageSets == nil {
		e.MessageSets = ordered.New(common.ByType[common.ResponseMessageSet])
	}
	e.MessageSets.Insert(m)
}

func (e *ResponseEnvelope) MessageSet(t common.MessageSetType) common.ResponseMessageSet {
	return find(e.MessageSets, t)
}

func (e *ResponseEnvelope) Signon() *signon.ResponseMessageSet {
	m, _ := e.MessageSet(common.SignonMessageSet).(*signon.ResponseMessageSet)
	return m
}

func (e *ResponseEnvelope) Signup() *signup.ResponseMessageSet {
	m, _ := e.MessageSet(common.SignupMessageSet).(*signup.ResponseMessageSet)
	return m
}

func (e *ResponseEnvelope) Banking() *banking.ResponseMessageSet {
	m, _ := e.MessageSet(common.BankingMessageSet).(*banking.ResponseMessageSet)
	return m
}

func (e *ResponseEnvelope) CreditCard() *creditcard.ResponseMessageSet {
	m, _ := e.MessageSet(common.CreditCardMessageSet).(*creditcard.ResponseMessageSet)
	return m
}

func (e *ResponseEnvelope) Investment() *investment.ResponseMessageSet {
	m, _ := e.MessageSet(common.InvestmentMessageSet).(*investment.ResponseMessageSet)
	return m
}

func (e *ResponseEnvelope) Profile() *profile.ResponseMessageSet {
	m, _ := e.MessageSet(common.ProfileMessageSet).(*profile.ResponseMessageSet)
	return m
}

// Statuses returns the status of every response in the envelope in
// message set order, skipping responses without one.
func (e *ResponseEnvelope) Statuses() []*common.Status {
	var res []*common.Status
	if e.MessageSets == nil {
		return nil
	}
	for m := range e.MessageSets.All() {
		for _, h := range m.Responses() {
			if s := h.StatusOf(); s != nil {
				res = append(res, s)
			}
		}
	}
	return res
}

func find[M interface {
	comparable
	Type() common.MessageSetType
}](s *ordered.Set[M], t common.MessageSetType) M {
	var zero M
	if s == nil {
		return zero
	}
	for m := range s.All() {
		if m.Type() == t {
			return m
		}
	}
	return zero
}

// messageSets registers the ordered message set field of T. Entries are
// any registered aggregate implementing M.
func messageSets[T any, M interface {
	comparable
	Type() common.MessageSetType
}](r *schema.Registry, field func(*T) **ordered.Set[M]) {
	r.RegisterChild(schema.TypeFor[T](), &schema.Descriptor{
		Order: 0,
		Type:  schema.Collection{Elem: schema.Nested{Iface: reflect.TypeFor[M]()}},
		Read: func(obj any) ([]any, error) {
			t, ok := obj.(*T)
			if !ok {
				return nil, fmt.Errorf("expected %s, got %T", schema.TypeFor[T](), obj)
			}
			s := *field(t)
			if s == nil {
				return nil, nil
			}
			var res []any
			for m := range s.All() {
				res = append(res, m)
			}
			return res, nil
		},
		Write: func(obj any, v any) error {
			t, ok := obj.(*T)
			if !ok {
				return fmt.Errorf("expected %s, got %T", schema.TypeFor[T](), obj)
			}
			m, ok := v.(M)
			if !ok {
				return fmt.Errorf("%T is not a %s", v, reflect.TypeFor[M]())
			}
			p := field(t)
			if *p == nil {
				*p = ordered.New(common.ByType[M])
			}
			(*p).Insert(m)
			return nil
		},
	})
}

// Register adds both envelopes and every message set to r.
func Register(r *schema.Registry) {
	none := schema.AbsentAs("NONE")

	signon.Register(r)
	signup.Register(r)
	banking.Register(r)
	creditcard.Register(r)
	investment.Register(r)
	profile.Register(r)

	schema.Aggregate(r, "OFX", newRequest)
	schema.Header(r, "SECURITY", func(e *RequestEnvelope) *string { return &e.Security }, none)
	schema.Header(r, "NEWFILEUID", func(e *RequestEnvelope) *string { return &e.UID }, none)
	schema.Header(r, "OLDFILEUID", func(e *RequestEnvelope) *string { return &e.LastUID }, none)
	messageSets(r, func(e *RequestEnvelope) **ordered.Set[common.RequestMessageSet] { return &e.MessageSets })

	schema.Aggregate(r, "OFX", newResponse)
	schema.Header(r, "SECURITY", func(e *ResponseEnvelope) *string { return &e.Security }, none)
	schema.Header(r, "NEWFILEUID", func(e *ResponseEnvelope) *string { return &e.UID }, none)
	messageSets(r, func(e *ResponseEnvelope) **ordered.Set[common.ResponseMessageSet] { return &e.MessageSets })
}

func init() {
	Register(schema.Default())
}
