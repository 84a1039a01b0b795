package common

import (
	"github.com/google/uuid"

	"github.com/signadot/go-ofx/schema"
)

// TransactionWrappedRequest carries the fields shared by every *TRNRQ
// aggregate. Concrete wrappers embed it and add their message at order 30.
type TransactionWrappedRequest struct {
	UID          string
	ClientCookie string
	TAN          string
}

// NewWrappedRequest returns a wrapper with a fresh TRNUID.
func NewWrappedRequest() TransactionWrappedRequest {
	return TransactionWrappedRequest{UID: uuid.NewString()}
}

// Wrapped returns w. Wrappers embedding w expose it through this method.
func (w *TransactionWrappedRequest) Wrapped() *TransactionWrappedRequest {
	return w
}

// TransactionWrappedResponse carries the fields shared by every *TRNRS
// aggregate.
type TransactionWrappedResponse struct {
	UID          string
	Status       *Status
	ClientCookie string
}

func (w *TransactionWrappedResponse) StatusOf() *Status {
	return w.Status
}

func (w *TransactionWrappedResponse) Wrapped() *TransactionWrappedResponse {
	return w
}

func registerWrapped(r *schema.Registry) {
	schema.Element(r, "TRNUID", 0, func(w *TransactionWrappedRequest) *string { return &w.UID }, schema.Required())
	schema.Element(r, "CLTCOOKIE", 10, func(w *TransactionWrappedRequest) *string { return &w.ClientCookie })
	schema.Element(r, "TAN", 20, func(w *TransactionWrappedRequest) *string { return &w.TAN })

	schema.Element(r, "TRNUID", 0, func(w *TransactionWrappedResponse) *string { return &w.UID }, schema.Required())
	schema.Child(r, 10, func(w *TransactionWrappedResponse) **Status { return &w.Status }, schema.Required())
	schema.Element(r, "CLTCOOKIE", 20, func(w *TransactionWrappedResponse) *string { return &w.ClientCookie })
}

// WrapRequest registers T as the *TRNRQ aggregate name whose message of
// type M sits at order 30. base returns the embedded wrapper.
func WrapRequest[T, M any](r *schema.Registry, name string, base func(*T) *TransactionWrappedRequest, msg func(*T) **M) {
	schema.Aggregate[T](r, name, nil)
	schema.Inherit(r, base)
	schema.Child(r, 30, msg, schema.Required())
}

// WrapResponse is WrapRequest for *TRNRS aggregates. The message is
// optional since institutions omit it when STATUS reports an error.
func WrapResponse[T, M any](r *schema.Registry, name string, base func(*T) *TransactionWrappedResponse, msg func(*T) **M) {
	schema.Aggregate[T](r, name, nil)
	schema.Inherit(r, base)
	schema.Child(r, 30, msg)
}
