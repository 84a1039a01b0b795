package gomap

import (
	"fmt"
	"strings"

	"github.com/signadot/go-ofx/token"
)

// ValidationError reports required fields that were absent, on marshal or
// on unmarshal.
type ValidationError struct {
	Aggregate string
	Fields    []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("aggregate %s: missing required %s", e.Aggregate, strings.Join(e.Fields, ", "))
}

// UnexpectedElementError reports a tag that matches no remaining
// descriptor of the aggregate being read.
type UnexpectedElementError struct {
	Aggregate string
	Name      string
	Pos       *token.Pos
}

func (e *UnexpectedElementError) Error() string {
	if e.Pos != nil && e.Pos.D != nil {
		return fmt.Sprintf("unexpected element %s in aggregate %s at line %d, col %d",
			e.Name, e.Aggregate, e.Pos.Line(), e.Pos.Col())
	}
	return fmt.Sprintf("unexpected element %s in aggregate %s", e.Name, e.Aggregate)
}

// MarshalError represents an error during marshaling
type MarshalError struct {
	FieldPath string // Field path (e.g., "OFX/SIGNONMSGSRQV1/SONRQ/DTCLIENT")
	Message   string
	Err       error
}

func (e *MarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("marshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("marshal error: %s", e.Message)
}

func (e *MarshalError) Unwrap() error {
	return e.Err
}

// UnmarshalError represents an error during unmarshaling
type UnmarshalError struct {
	FieldPath string
	Message   string
	Err       error
}

func (e *UnmarshalError) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("unmarshal error at %s: %s", e.FieldPath, e.Message)
	}
	return fmt.Sprintf("unmarshal error: %s", e.Message)
}

func (e *UnmarshalError) Unwrap() error {
	return e.Err
}
