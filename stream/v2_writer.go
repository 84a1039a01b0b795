package stream

import (
	"io"
	"strings"

	"github.com/signadot/go-ofx/token"
)

// V2Writer writes the XML dialect: an <?OFX ...?> processing instruction
// carrying the headers, and every element closed.
type V2Writer struct {
	baseWriter
}

var _ Writer = (*V2Writer)(nil)

func NewV2Writer(w io.Writer, opts ...StreamOption) *V2Writer {
	return &V2Writer{baseWriter: newBaseWriter(w, "\n", opts)}
}

var v2Headers = []token.Header{
	{Name: "OFXHEADER", Value: "200"},
	{Name: "VERSION", Value: "202"},
	{Name: "SECURITY", Value: "NONE"},
	{Name: "OLDFILEUID", Value: "NONE"},
	{Name: "NEWFILEUID", Value: "NONE"},
}

var attrEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func (w *V2Writer) WriteHeaders(hs []token.Header) error {
	if err := w.headers(); err != nil {
		return err
	}
	w.w.WriteString(`<?xml version="1.0" encoding="utf-8" ?>`)
	w.line()
	w.w.WriteString("<?OFX")
	for _, h := range v2Headers {
		v := h.Value
		if x, ok := HeaderValue(hs, h.Name); ok && x != "" {
			v = x
		}
		w.attr(h.Name, v)
	}
	for _, h := range hs {
		if _, ok := HeaderValue(v2Headers, h.Name); !ok {
			w.attr(h.Name, h.Value)
		}
	}
	w.w.WriteString("?>")
	w.line()
	return nil
}

func (w *V2Writer) attr(name, value string) {
	w.w.WriteByte(' ')
	w.w.WriteString(name)
	w.w.WriteString(`="`)
	w.w.WriteString(attrEscaper.Replace(value))
	w.w.WriteByte('"')
}

func (w *V2Writer) WriteElement(name, value string) error {
	return w.leaf(name, value, true)
}
