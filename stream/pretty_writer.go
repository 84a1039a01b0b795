package stream

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/signadot/go-ofx/token"
)

// PrettyWriter renders a document for people: one tag per line, indented
// by depth, every element closed, optionally colored.
type PrettyWriter struct {
	w      *bufio.Writer
	state  *State
	opts   *streamOpts
	colors *Colors
}

var _ Writer = (*PrettyWriter)(nil)

func NewPrettyWriter(w io.Writer, opts ...StreamOption) *PrettyWriter {
	o := buildOpts(opts)
	pw := &PrettyWriter{
		w:     bufio.NewWriter(w),
		state: NewState(),
		opts:  o,
	}
	if o.colors {
		pw.colors = NewColors()
	}
	return pw
}

func (p *PrettyWriter) c(a ColorAttr, s string) string {
	return p.colors.Color(a, s)
}

func (p *PrettyWriter) indent() {
	p.w.WriteString(strings.Repeat(p.opts.indent, p.state.Depth()))
}

func (p *PrettyWriter) WriteHeaders(hs []token.Header) error {
	if err := p.state.ProcessHeaders(); err != nil {
		return &Error{Msg: err.Error()}
	}
	for _, h := range hs {
		fmt.Fprintf(p.w, "%s%s %s\n", p.c(HeaderColor, h.Name), p.c(SepColor, ":"), h.Value)
	}
	if len(hs) > 0 {
		p.w.WriteByte('\n')
	}
	return nil
}

func (p *PrettyWriter) open(name string) string {
	return p.c(SepColor, "<") + name + p.c(SepColor, ">")
}

func (p *PrettyWriter) close(name string) string {
	return p.c(SepColor, "</") + name + p.c(SepColor, ">")
}

func (p *PrettyWriter) WriteStartAggregate(name string) error {
	p.indent()
	if err := p.state.ProcessEvent(&Event{Type: EventStartAggregate, Name: name}); err != nil {
		return &Error{Msg: err.Error()}
	}
	p.w.WriteString(p.open(p.c(AggregateColor, name)))
	p.w.WriteByte('\n')
	return nil
}

func (p *PrettyWriter) WriteElement(name, value string) error {
	if err := p.state.ProcessEvent(&Event{Type: EventLeaf, Name: name}); err != nil {
		return &Error{Msg: err.Error()}
	}
	p.indent()
	el := p.c(ElementColor, name)
	p.w.WriteString(p.open(el))
	p.w.WriteString(p.c(ValueColor, token.Escape(value)))
	p.w.WriteString(p.close(el))
	p.w.WriteByte('\n')
	return nil
}

func (p *PrettyWriter) WriteEndAggregate(name string) error {
	if err := p.state.ProcessEvent(&Event{Type: EventEndAggregate, Name: name}); err != nil {
		return &Error{Msg: err.Error()}
	}
	p.indent()
	p.w.WriteString(p.close(p.c(AggregateColor, name)))
	p.w.WriteByte('\n')
	return nil
}

func (p *PrettyWriter) Flush() error {
	return p.w.Flush()
}
