package stream

import (
	"errors"
	"fmt"
	"io"

	"github.com/signadot/go-ofx/debug"
	"github.com/signadot/go-ofx/token"
)

// Decoder turns the body of an OFX document into structural events.
//
// In the strict dialect (format.V2) every tag is closed and events follow
// the tags one to one. In the permissive dialect (format.V1) leaf elements
// have no end tag and aggregates may be left open; the decoder keeps a
// start tag pending until the following token shows whether it opened an
// aggregate or a leaf, and synthesizes EndAggregate events where end tags
// are missing.
type Decoder struct {
	source *token.Tokenizer
	state  *State
	opts   *streamOpts

	// Lookahead buffer: tokens read but not yet consumed.
	pendingTokens []token.Token

	// pending is a start tag whose role is not yet known.
	pending *token.Token
	// placed is true once the nest hint has been applied to pending.
	placed bool
	// lastLeaf is the name of the leaf emitted by the previous event, so
	// that a redundant explicit end tag for it can be dropped.
	lastLeaf string
	// closed counts aggregates closed by the nest hint whose end tags
	// may still turn up.
	closed map[string]int

	last    *Event
	headers bool
}

// NewDecoder creates a new Decoder reading all of r.
func NewDecoder(r io.Reader, opts ...StreamOption) (*Decoder, error) {
	o := buildOpts(opts)
	var topts []token.TokenOpt
	if o.keepSpace {
		topts = append(topts, token.KeepSpace())
	}
	src, err := token.NewTokenizer(r, topts...)
	if err != nil {
		return nil, err
	}
	return &Decoder{
		source:        src,
		state:         NewState(),
		opts:          o,
		pendingTokens: make([]token.Token, 0, 4),
		closed:        map[string]int{},
	}, nil
}

// ReadHeaders reads the header block. It must be called before the first
// ReadEvent to observe headers; otherwise they are discarded.
func (d *Decoder) ReadHeaders() ([]token.Header, error) {
	if d.headers {
		return nil, &Error{Msg: "headers already read"}
	}
	d.headers = true
	var res []token.Header
	for {
		h, err := d.source.ReadHeaderLine()
		if errors.Is(err, token.ErrEndOfHeaders) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, h)
	}
}

// Depth returns the number of open aggregates.
func (d *Decoder) Depth() int {
	return d.state.Depth()
}

// Path returns the open aggregates joined by '/'.
func (d *Decoder) Path() string {
	return d.state.CurrentPath()
}

// Open returns the open aggregate names from the root down.
func (d *Decoder) Open() []string {
	return d.state.Open()
}

// SetNestHint replaces the nest hint. Passing nil disables it.
func (d *Decoder) SetNestHint(h NestHint) {
	d.opts.nestHint = h
}

// ReadEvent reads the next structural event. Returns io.EOF once the
// document is exhausted with no aggregate left open.
func (d *Decoder) ReadEvent() (*Event, error) {
	d.headers = true
	var (
		ev  *Event
		err error
	)
	if d.opts.dialect.Strict() {
		ev, err = d.readStrict()
	} else {
		ev, err = d.readPermissive()
	}
	if err != nil {
		return nil, err
	}
	if err := d.state.ProcessEvent(ev); err != nil {
		return nil, token.NewParseError(err, ev.Pos)
	}
	if ev.Type == EventLeaf {
		d.lastLeaf = ev.Name
	} else {
		d.lastLeaf = ""
	}
	d.last = ev
	if debug.Events() {
		debug.Logf("event %s at %s\n", ev, d.Path())
	}
	return ev, nil
}

// Skip consumes the rest of the aggregate opened by the previous event.
// It does nothing if the previous event was not a StartAggregate.
func (d *Decoder) Skip() error {
	if d.last == nil || d.last.Type != EventStartAggregate {
		return nil
	}
	target := d.state.Depth() - 1
	for d.state.Depth() > target {
		if _, err := d.ReadEvent(); err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
	}
	return nil
}

func (d *Decoder) nextToken() (token.Token, error) {
	if len(d.pendingTokens) > 0 {
		tok := d.pendingTokens[0]
		d.pendingTokens = d.pendingTokens[1:]
		return tok, nil
	}
	tok, err := d.source.Next()
	if err != nil {
		return token.Token{}, err
	}
	if debug.Tokens() {
		debug.Logf("token %s %q\n", tok.Type, tok.Text)
	}
	return tok, nil
}

func (d *Decoder) unread(tok token.Token) {
	d.pendingTokens = append([]token.Token{tok}, d.pendingTokens...)
}

func (d *Decoder) endTop(synthetic bool, pos *token.Pos) *Event {
	top, _ := d.state.Top()
	return &Event{Type: EventEndAggregate, Name: top, Synthetic: synthetic, Pos: pos}
}

// hint returns how many open aggregates must close before name can be
// placed.
func (d *Decoder) hint(name string) int {
	if d.opts.nestHint == nil || d.state.Depth() == 0 {
		return 0
	}
	n := d.opts.nestHint(d.state.Open(), name)
	// the root stays open until its end tag or the end of input
	return max(0, min(n, d.state.Depth()-1))
}

func (d *Decoder) openBelowTop(name string) bool {
	open := d.state.Open()
	for i := len(open) - 2; i >= 0; i-- {
		if d.opts.eq(open[i], name) {
			return true
		}
	}
	return false
}

func (d *Decoder) readPermissive() (*Event, error) {
	for {
		if d.pending != nil && !d.placed {
			if n := d.hint(d.pending.Text); n > 0 {
				top, _ := d.state.Top()
				d.closed[top]++
				return d.endTop(true, nil), nil
			}
			d.placed = true
		}
		tok, err := d.nextToken()
		if err == io.EOF {
			if d.pending != nil {
				p := d.takePending()
				return &Event{Type: EventLeaf, Name: p.Text, Pos: p.Pos}, nil
			}
			if d.state.Depth() > 0 {
				return nil, token.NewParseError(
					fmt.Errorf("%w: %s not closed", io.ErrUnexpectedEOF, d.Path()), d.source.Pos())
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case token.TStartTag, token.TSelfClose:
			if d.pending != nil {
				d.unread(tok)
				p := d.takePending()
				return &Event{Type: EventStartAggregate, Name: p.Text, Pos: p.Pos}, nil
			}
			if tok.Type == token.TSelfClose {
				if n := d.hint(tok.Text); n > 0 {
					d.unread(tok)
					top, _ := d.state.Top()
					d.closed[top]++
					return d.endTop(true, nil), nil
				}
				return &Event{Type: EventLeaf, Name: tok.Text, Pos: tok.Pos}, nil
			}
			d.pending = &tok
			d.placed = false

		case token.TText:
			if d.pending == nil {
				return nil, token.UnexpectedErr(fmt.Sprintf("text %q", tok.Text), tok.Pos)
			}
			p := d.takePending()
			return &Event{Type: EventLeaf, Name: p.Text, Text: tok.Text, Pos: p.Pos}, nil

		case token.TEndTag:
			if d.pending != nil {
				p := d.takePending()
				if !d.opts.eq(p.Text, tok.Text) {
					d.unread(tok)
				}
				return &Event{Type: EventLeaf, Name: p.Text, Pos: p.Pos}, nil
			}
			if d.lastLeaf != "" && d.opts.eq(d.lastLeaf, tok.Text) {
				d.lastLeaf = ""
				continue
			}
			if top, ok := d.state.Top(); ok && d.opts.eq(top, tok.Text) {
				return d.endTop(false, tok.Pos), nil
			}
			if d.openBelowTop(tok.Text) {
				d.unread(tok)
				return d.endTop(true, tok.Pos), nil
			}
			if d.forgetClosed(tok.Text) {
				continue
			}
			return nil, token.UnexpectedErr(fmt.Sprintf("end tag </%s>", tok.Text), tok.Pos)
		}
	}
}

func (d *Decoder) takePending() *token.Token {
	p := d.pending
	d.pending = nil
	d.placed = false
	return p
}

func (d *Decoder) forgetClosed(name string) bool {
	for k, n := range d.closed {
		if n > 0 && d.opts.eq(k, name) {
			if n == 1 {
				delete(d.closed, k)
			} else {
				d.closed[k] = n - 1
			}
			return true
		}
	}
	return false
}

func (d *Decoder) readStrict() (*Event, error) {
	for {
		tok, err := d.nextToken()
		if err == io.EOF {
			if d.pending != nil || d.state.Depth() > 0 {
				return nil, token.NewParseError(
					fmt.Errorf("%w: %s not closed", io.ErrUnexpectedEOF, d.Path()), d.source.Pos())
			}
			return nil, io.EOF
		}
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case token.TStartTag, token.TSelfClose:
			if d.pending != nil {
				d.unread(tok)
				p := d.takePending()
				return &Event{Type: EventStartAggregate, Name: p.Text, Pos: p.Pos}, nil
			}
			if tok.Type == token.TSelfClose {
				return &Event{Type: EventLeaf, Name: tok.Text, Pos: tok.Pos}, nil
			}
			d.pending = &tok

		case token.TText:
			if d.pending == nil {
				return nil, token.UnexpectedErr(fmt.Sprintf("text %q", tok.Text), tok.Pos)
			}
			p := d.takePending()
			end, err := d.nextToken()
			if err == io.EOF {
				return nil, token.ExpectedErr(fmt.Sprintf("</%s>", p.Text), d.source.Pos())
			}
			if err != nil {
				return nil, err
			}
			if end.Type != token.TEndTag || !d.opts.eq(end.Text, p.Text) {
				return nil, token.ExpectedErr(fmt.Sprintf("</%s>, got %s", p.Text, end.String()), end.Pos)
			}
			return &Event{Type: EventLeaf, Name: p.Text, Text: tok.Text, Pos: p.Pos}, nil

		case token.TEndTag:
			if d.pending != nil {
				p := d.takePending()
				if !d.opts.eq(p.Text, tok.Text) {
					return nil, token.ExpectedErr(fmt.Sprintf("</%s>, got </%s>", p.Text, tok.Text), tok.Pos)
				}
				return &Event{Type: EventLeaf, Name: p.Text, Pos: p.Pos}, nil
			}
			if top, ok := d.state.Top(); ok && d.opts.eq(top, tok.Text) {
				return d.endTop(false, tok.Pos), nil
			}
			return nil, token.UnexpectedErr(fmt.Sprintf("end tag </%s>", tok.Text), tok.Pos)
		}
	}
}
