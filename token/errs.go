package token

import (
	"errors"
	"fmt"
)

var (
	ErrEndOfHeaders = errors.New("end of headers")
	ErrUnterminated = errors.New("unterminated")
	ErrBadName      = errors.New("bad tag name")
	ErrBadHeader    = errors.New("bad header line")
	ErrEmptyDoc     = errors.New("empty document")
)

// ParseError reports a malformed token stream together with the position
// at which it was detected.
type ParseError struct {
	Err error
	Pos Pos
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func NewParseError(e error, p *Pos) *ParseError {
	if p == nil {
		return &ParseError{Err: e}
	}
	return &ParseError{Err: e, Pos: *p}
}

func (e *ParseError) Error() string {
	if e.Pos.D == nil {
		return fmt.Sprintf("parse error: %s", e.Err.Error())
	}
	return fmt.Sprintf("parse error: %s at %s", e.Err.Error(), e.Pos.String())
}

// Line and Col give the 1-based position of the error.
func (e *ParseError) Line() int { return e.Pos.Line() }
func (e *ParseError) Col() int  { return e.Pos.Col() }

func ExpectedErr(what string, p *Pos) error {
	return NewParseError(fmt.Errorf("expected %s", what), p)
}

func UnexpectedErr(what string, p *Pos) error {
	return NewParseError(fmt.Errorf("unexpected %s", what), p)
}
