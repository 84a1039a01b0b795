package stream

import (
	"io"
	"strings"

	"github.com/signadot/go-ofx/token"
)

// V1Writer writes the SGML dialect: a NAME:VALUE header block with CRLF
// line endings, and leaf elements without end tags.
type V1Writer struct {
	baseWriter
}

var _ Writer = (*V1Writer)(nil)

func NewV1Writer(w io.Writer, opts ...StreamOption) *V1Writer {
	return &V1Writer{baseWriter: newBaseWriter(w, "\r\n", opts)}
}

// v1Headers lists the header block in order with the value used when the
// caller supplies none.
var v1Headers = []token.Header{
	{Name: "OFXHEADER", Value: "100"},
	{Name: "DATA", Value: "OFXSGML"},
	{Name: "VERSION", Value: "102"},
	{Name: "SECURITY", Value: "NONE"},
	{Name: "ENCODING", Value: "USASCII"},
	{Name: "CHARSET", Value: "1252"},
	{Name: "COMPRESSION", Value: "NONE"},
	{Name: "OLDFILEUID", Value: "NONE"},
	{Name: "NEWFILEUID", Value: "NONE"},
}

func isV1Header(name string) bool {
	for i := range v1Headers {
		if strings.EqualFold(v1Headers[i].Name, name) {
			return true
		}
	}
	return false
}

func (w *V1Writer) WriteHeaders(hs []token.Header) error {
	if err := w.headers(); err != nil {
		return err
	}
	for _, h := range v1Headers {
		v := h.Value
		if x, ok := HeaderValue(hs, h.Name); ok && x != "" {
			v = x
		}
		w.headerLine(h.Name, v)
	}
	for _, h := range hs {
		if !isV1Header(h.Name) {
			w.headerLine(h.Name, h.Value)
		}
	}
	w.w.WriteString("\r\n")
	return nil
}

func (w *V1Writer) headerLine(name, value string) {
	w.w.WriteString(name)
	w.w.WriteByte(':')
	w.w.WriteString(value)
	w.w.WriteString("\r\n")
}

func (w *V1Writer) WriteElement(name, value string) error {
	return w.leaf(name, value, false)
}
