package stream

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/go-ofx/format"
	"github.com/signadot/go-ofx/token"
)

// Writer receives structural events and renders them as text.
type Writer interface {
	// WriteHeaders writes the header block. It must be called once,
	// before any body event.
	WriteHeaders(headers []token.Header) error
	WriteStartAggregate(name string) error
	// WriteElement writes a leaf. value must not be empty or only
	// whitespace, since readers drop such text.
	WriteElement(name, value string) error
	WriteEndAggregate(name string) error
	Flush() error
}

// NewWriter returns the Writer for dialect d.
func NewWriter(w io.Writer, d format.Dialect, opts ...StreamOption) Writer {
	if d.IsV2() {
		return NewV2Writer(w, opts...)
	}
	return NewV1Writer(w, opts...)
}

// HeaderValue returns the value of the first header named name.
func HeaderValue(hs []token.Header, name string) (string, bool) {
	for i := range hs {
		if strings.EqualFold(hs[i].Name, name) {
			return hs[i].Value, true
		}
	}
	return "", false
}

// baseWriter holds what the tag writers share: buffered output, balance
// checking and the newline setting.
type baseWriter struct {
	w     *bufio.Writer
	state *State
	opts  *streamOpts
	nl    string
}

func newBaseWriter(w io.Writer, nl string, opts []StreamOption) baseWriter {
	return baseWriter{
		w:     bufio.NewWriter(w),
		state: NewState(),
		opts:  buildOpts(opts),
		nl:    nl,
	}
}

func (b *baseWriter) headers() error {
	if err := b.state.ProcessHeaders(); err != nil {
		return &Error{Msg: err.Error()}
	}
	return nil
}

func (b *baseWriter) event(t EventType, name string) error {
	if name == "" {
		return &Error{Msg: fmt.Sprintf("%s with empty name", t)}
	}
	if err := b.state.ProcessEvent(&Event{Type: t, Name: name}); err != nil {
		return &Error{Msg: err.Error()}
	}
	return nil
}

func (b *baseWriter) tag(close bool, name string) {
	b.w.WriteByte('<')
	if close {
		b.w.WriteByte('/')
	}
	b.w.WriteString(name)
	b.w.WriteByte('>')
}

func (b *baseWriter) line() {
	if b.opts.newlines {
		b.w.WriteString(b.nl)
	}
}

func (b *baseWriter) WriteStartAggregate(name string) error {
	if err := b.event(EventStartAggregate, name); err != nil {
		return err
	}
	b.tag(false, name)
	b.line()
	return nil
}

func (b *baseWriter) WriteEndAggregate(name string) error {
	if err := b.event(EventEndAggregate, name); err != nil {
		return err
	}
	b.tag(true, name)
	b.line()
	return nil
}

func (b *baseWriter) leaf(name, value string, closeTag bool) error {
	if strings.TrimSpace(value) == "" {
		return &Error{Msg: fmt.Sprintf("illegal empty value for element %s", name)}
	}
	if err := b.event(EventLeaf, name); err != nil {
		return err
	}
	b.tag(false, name)
	b.w.WriteString(token.Escape(value))
	if closeTag {
		b.tag(true, name)
	}
	b.line()
	return nil
}

// Flush writes buffered output and reports an unbalanced document.
func (b *baseWriter) Flush() error {
	if err := b.w.Flush(); err != nil {
		return err
	}
	if b.state.Depth() != 0 {
		return &Error{Msg: fmt.Sprintf("unclosed aggregates: %s", b.state.CurrentPath())}
	}
	return nil
}
