package token

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// TokenOpt configures a Tokenizer.
type TokenOpt func(*tokenOpts)

type tokenOpts struct {
	keepSpace bool
}

// KeepSpace disables trimming of leaf text. Whitespace-only text between
// tags is still dropped.
func KeepSpace() TokenOpt {
	return func(o *tokenOpts) { o.keepSpace = true }
}

// Tokenizer reads a fully buffered OFX document. Headers must be read
// before the body; calling Next first discards any remaining headers.
type Tokenizer struct {
	doc    []byte
	pos    int
	posDoc *PosDoc
	opt    *tokenOpts

	inBody  bool
	nLines  int      // headers read so far
	pending []Header // attributes of an <?OFX?> instruction not yet returned
}

// NewTokenizer buffers all of r. The tokenizer does not support partial input.
func NewTokenizer(r io.Reader, opts ...TokenOpt) (*Tokenizer, error) {
	doc, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewTokenizerFromBytes(doc, opts...), nil
}

func NewTokenizerFromBytes(doc []byte, opts ...TokenOpt) *Tokenizer {
	opt := &tokenOpts{}
	for _, o := range opts {
		o(opt)
	}
	doc = bytes.TrimPrefix(doc, []byte("\xef\xbb\xbf"))
	return &Tokenizer{
		doc:    doc,
		posDoc: newPosDoc(doc),
		opt:    opt,
	}
}

// Pos returns the position of the next unread byte.
func (t *Tokenizer) Pos() *Pos {
	return t.posDoc.Pos(t.pos)
}

// ReadHeaderLine returns the next header pair, or ErrEndOfHeaders once
// the body starts.
func (t *Tokenizer) ReadHeaderLine() (Header, error) {
	if len(t.pending) > 0 {
		h := t.pending[0]
		t.pending = t.pending[1:]
		return h, nil
	}
	if t.inBody {
		return Header{}, ErrEndOfHeaders
	}
	for {
		if t.pos >= len(t.doc) {
			t.inBody = true
			if t.nLines == 0 {
				return Header{}, NewParseError(ErrEmptyDoc, t.Pos())
			}
			return Header{}, ErrEndOfHeaders
		}
		line, next := t.peekLine()
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			t.pos = next
			if t.nLines > 0 {
				t.inBody = true
				return Header{}, ErrEndOfHeaders
			}
			continue
		case strings.HasPrefix(trimmed, "<?"):
			t.skipSpace()
			if err := t.readInstruction(); err != nil {
				return Header{}, err
			}
			if len(t.pending) > 0 {
				return t.ReadHeaderLine()
			}
			continue
		case trimmed[0] == '<':
			t.skipSpace()
			t.inBody = true
			return Header{}, ErrEndOfHeaders
		}
		start := t.Pos()
		colon := strings.IndexByte(trimmed, ':')
		if colon <= 0 {
			return Header{}, NewParseError(fmt.Errorf("%w: %q", ErrBadHeader, trimmed), start)
		}
		t.pos = next
		t.nLines++
		return Header{
			Name:  strings.TrimSpace(trimmed[:colon]),
			Value: strings.TrimSpace(trimmed[colon+1:]),
		}, nil
	}
}

// peekLine returns the line starting at t.pos (without its terminator)
// and the offset just past the terminator.
func (t *Tokenizer) peekLine() (string, int) {
	rest := t.doc[t.pos:]
	i := bytes.IndexByte(rest, '\n')
	if i < 0 {
		return string(rest), len(t.doc)
	}
	return string(bytes.TrimSuffix(rest[:i], []byte("\r"))), t.pos + i + 1
}

func (t *Tokenizer) skipSpace() {
	for t.pos < len(t.doc) && isSpace(t.doc[t.pos]) {
		t.pos++
	}
}

// readInstruction consumes a <?...?> at t.pos. The attributes of an
// OFX instruction are queued as headers; others are ignored.
func (t *Tokenizer) readInstruction() error {
	start := t.Pos()
	end := bytes.Index(t.doc[t.pos:], []byte("?>"))
	if end < 0 {
		return NewParseError(fmt.Errorf("%w processing instruction", ErrUnterminated), start)
	}
	body := string(t.doc[t.pos+2 : t.pos+end])
	t.pos += end + 2
	target, attrs, _ := strings.Cut(strings.TrimSpace(body), " ")
	if target != "OFX" {
		return nil
	}
	hs, err := parseAttrs(attrs)
	if err != nil {
		return NewParseError(err, start)
	}
	t.pending = append(t.pending, hs...)
	t.nLines += len(hs)
	return nil
}

func parseAttrs(s string) ([]Header, error) {
	var res []Header
	for {
		s = strings.TrimSpace(s)
		if s == "" {
			return res, nil
		}
		eq := strings.IndexByte(s, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("%w: attribute %q", ErrBadHeader, s)
		}
		name := strings.TrimSpace(s[:eq])
		s = strings.TrimSpace(s[eq+1:])
		if s == "" {
			return nil, fmt.Errorf("%w: attribute %q has no value", ErrBadHeader, name)
		}
		var val string
		if q := s[0]; q == '"' || q == '\'' {
			close := strings.IndexByte(s[1:], q)
			if close < 0 {
				return nil, fmt.Errorf("%w attribute value for %q", ErrUnterminated, name)
			}
			val = s[1 : close+1]
			s = s[close+2:]
		} else {
			sp := strings.IndexAny(s, " \t\r\n")
			if sp < 0 {
				sp = len(s)
			}
			val = s[:sp]
			s = s[sp:]
		}
		res = append(res, Header{Name: name, Value: DecodeEntities(val)})
	}
}

// Next returns the next body token, or io.EOF at the end of input.
func (t *Tokenizer) Next() (Token, error) {
	if !t.inBody {
		for {
			_, err := t.ReadHeaderLine()
			if err == ErrEndOfHeaders {
				break
			}
			if err != nil {
				return Token{}, err
			}
		}
		t.pending = nil
	}
	for {
		if t.pos >= len(t.doc) {
			return Token{}, io.EOF
		}
		if t.doc[t.pos] != '<' {
			tok, ok := t.readText()
			if !ok {
				continue
			}
			return tok, nil
		}
		rest := t.doc[t.pos:]
		switch {
		case bytes.HasPrefix(rest, []byte("<!--")):
			if err := t.skipPast("-->", "comment"); err != nil {
				return Token{}, err
			}
			continue
		case bytes.HasPrefix(rest, []byte("<![CDATA[")):
			start := t.Pos()
			end := bytes.Index(rest, []byte("]]>"))
			if end < 0 {
				return Token{}, NewParseError(fmt.Errorf("%w CDATA section", ErrUnterminated), start)
			}
			text := string(rest[len("<![CDATA["):end])
			t.pos += end + 3
			return Token{Type: TText, Pos: start, Text: text}, nil
		case bytes.HasPrefix(rest, []byte("<?")):
			if err := t.skipPast("?>", "processing instruction"); err != nil {
				return Token{}, err
			}
			continue
		case bytes.HasPrefix(rest, []byte("<!")):
			if err := t.skipPast(">", "declaration"); err != nil {
				return Token{}, err
			}
			continue
		}
		return t.readTag()
	}
}

func (t *Tokenizer) skipPast(end, what string) error {
	start := t.Pos()
	i := bytes.Index(t.doc[t.pos:], []byte(end))
	if i < 0 {
		return NewParseError(fmt.Errorf("%w %s", ErrUnterminated, what), start)
	}
	t.pos += i + len(end)
	return nil
}

func (t *Tokenizer) readText() (Token, bool) {
	start := t.pos
	end := bytes.IndexByte(t.doc[start:], '<')
	if end < 0 {
		end = len(t.doc)
	} else {
		end += start
	}
	t.pos = end
	raw := string(t.doc[start:end])
	if strings.TrimSpace(raw) == "" {
		return Token{}, false
	}
	if !t.opt.keepSpace {
		raw = strings.TrimSpace(raw)
	}
	return Token{Type: TText, Pos: t.posDoc.Pos(start), Text: DecodeEntities(raw)}, true
}

func (t *Tokenizer) readTag() (Token, error) {
	start := t.Pos()
	i := t.pos + 1
	typ := TStartTag
	if i < len(t.doc) && t.doc[i] == '/' {
		typ = TEndTag
		i++
	}
	j := i
	for j < len(t.doc) && t.doc[j] != '>' {
		if t.doc[j] == '<' {
			return Token{}, NewParseError(fmt.Errorf("%w tag", ErrUnterminated), start)
		}
		j++
	}
	if j >= len(t.doc) {
		return Token{}, NewParseError(fmt.Errorf("%w tag", ErrUnterminated), start)
	}
	inner := string(t.doc[i:j])
	t.pos = j + 1
	if typ == TStartTag && strings.HasSuffix(inner, "/") {
		typ = TSelfClose
		inner = inner[:len(inner)-1]
	}
	name := strings.TrimSpace(inner)
	if typ != TEndTag {
		// attributes are not part of OFX; keep the element name only
		if sp := strings.IndexAny(name, " \t\r\n"); sp >= 0 {
			name = name[:sp]
		}
	}
	if !validName(name) {
		return Token{}, NewParseError(fmt.Errorf("%w %q", ErrBadName, name), start)
	}
	return Token{Type: typ, Pos: start, Text: name}, nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == '-', c == ':':
		default:
			return false
		}
	}
	return true
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v'
}

// Tokenize returns all body tokens of doc, discarding headers.
func Tokenize(doc []byte, opts ...TokenOpt) ([]Token, error) {
	t := NewTokenizerFromBytes(doc, opts...)
	var res []Token
	for {
		tok, err := t.Next()
		if err == io.EOF {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, tok)
	}
}
