package token

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func readHeaders(t *testing.T, tz *Tokenizer) []Header {
	t.Helper()
	var hs []Header
	for {
		h, err := tz.ReadHeaderLine()
		if errors.Is(err, ErrEndOfHeaders) {
			return hs
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		hs = append(hs, h)
	}
}

func TestHeaderLines(t *testing.T) {
	doc := "OFXHEADER:100\r\nDATA:OFXSGML\r\nVERSION: 102 \r\n\r\n<OFX>"
	tz := NewTokenizerFromBytes([]byte(doc))
	got := readHeaders(t, tz)
	want := []Header{
		{Name: "OFXHEADER", Value: "100"},
		{Name: "DATA", Value: "OFXSGML"},
		{Name: "VERSION", Value: "102"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
	tok, err := tz.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != TStartTag || tok.Text != "OFX" {
		t.Errorf("expected <OFX>, got %s", tok.String())
	}
}

func TestHeaderLinesNoBlank(t *testing.T) {
	tz := NewTokenizerFromBytes([]byte("OFXHEADER:100\n<OFX></OFX>"))
	got := readHeaders(t, tz)
	if len(got) != 1 || got[0].Value != "100" {
		t.Errorf("unexpected headers %v", got)
	}
}

func TestHeaderInstruction(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8" ?>
<?OFX OFXHEADER="200" VERSION="202" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="abc"?>
<OFX></OFX>`
	tz := NewTokenizerFromBytes([]byte(doc))
	got := readHeaders(t, tz)
	want := []Header{
		{Name: "OFXHEADER", Value: "200"},
		{Name: "VERSION", Value: "202"},
		{Name: "SECURITY", Value: "NONE"},
		{Name: "OLDFILEUID", Value: "NONE"},
		{Name: "NEWFILEUID", Value: "abc"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestBadHeader(t *testing.T) {
	tz := NewTokenizerFromBytes([]byte("OFXHEADER\n\n<OFX>"))
	_, err := tz.ReadHeaderLine()
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if !errors.Is(err, ErrBadHeader) {
		t.Errorf("expected ErrBadHeader, got %v", err)
	}
	if pe.Line() != 1 {
		t.Errorf("expected line 1, got %d", pe.Line())
	}
}

func TestEmptyDoc(t *testing.T) {
	tz := NewTokenizerFromBytes([]byte("  \n\n"))
	_, err := tz.ReadHeaderLine()
	if !errors.Is(err, ErrEmptyDoc) {
		t.Errorf("expected ErrEmptyDoc, got %v", err)
	}
}

func TestTokens(t *testing.T) {
	doc := "H:1\n\n<OFX>\n <CODE>0\n <MESSAGE>AT&T &amp; co &lt;x&gt;\n <EMPTY/>\n <!-- note -->\n</OFX>\n"
	toks, err := Tokenize([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []string
	for i := range toks {
		got = append(got, toks[i].Type.String()+" "+toks[i].Text)
	}
	want := []string{
		"TStartTag OFX",
		"TStartTag CODE",
		"TText 0",
		"TStartTag MESSAGE",
		"TText AT&T & co <x>",
		"TSelfClose EMPTY",
		"TEndTag OFX",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestKeepSpace(t *testing.T) {
	toks, err := Tokenize([]byte("H:1\n\n<A> x y </A>"), KeepSpace())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 3 || toks[1].Text != " x y " {
		t.Errorf("expected untrimmed text, got %v", toks)
	}
}

func TestCDATA(t *testing.T) {
	toks, err := Tokenize([]byte("H:1\n\n<A><![CDATA[a<b>&amp;]]></A>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != 3 || toks[1].Text != "a<b>&amp;" {
		t.Errorf("expected raw CDATA text, got %v", toks)
	}
}

func TestTokenErrors(t *testing.T) {
	cases := map[string]error{
		"H:1\n\n<OFX":          ErrUnterminated,
		"H:1\n\n<OF!X>":        ErrBadName,
		"H:1\n\n<>":            ErrBadName,
		"H:1\n\n<!-- open":     ErrUnterminated,
		"H:1\n\n<A <B>":        ErrUnterminated,
		"H:1\n\n<![CDATA[abc": ErrUnterminated,
	}
	for in, want := range cases {
		_, err := Tokenize([]byte(in))
		if !errors.Is(err, want) {
			t.Errorf("%q: expected %v, got %v", in, want, err)
		}
	}
}

func TestErrorPosition(t *testing.T) {
	_, err := Tokenize([]byte("H:1\n\n<OFX>\n  <A\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected parse error, got %v", err)
	}
	if pe.Line() != 4 || pe.Col() != 3 {
		t.Errorf("expected 4:3, got %d:%d", pe.Line(), pe.Col())
	}
	if !strings.Contains(pe.Error(), "line=4") {
		t.Errorf("expected position in message, got %q", pe.Error())
	}
}

func TestNextEOF(t *testing.T) {
	tz, err := NewTokenizer(strings.NewReader("H:1\n\n<A>x</A>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := tz.Next(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := tz.Next(); err != io.EOF {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestDecodeEntities(t *testing.T) {
	cases := map[string]string{
		"a&amp;b":      "a&b",
		"&#65;&#x42;":  "AB",
		"AT&T":         "AT&T",
		"&unknown;":    "&unknown;",
		"x & y &gt; z": "x & y > z",
	}
	for in, want := range cases {
		if got := DecodeEntities(in); got != want {
			t.Errorf("DecodeEntities(%q): expected %q, got %q", in, want, got)
		}
	}
	if got := Escape("a<b&c>"); got != "a&lt;b&amp;c&gt;" {
		t.Errorf("unexpected escape %q", got)
	}
}
