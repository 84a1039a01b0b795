package stream

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-ofx/format"
	"github.com/signadot/go-ofx/token"
)

func writeSample(t *testing.T, w Writer) {
	t.Helper()
	steps := []func() error{
		func() error {
			return w.WriteHeaders([]token.Header{{Name: "NEWFILEUID", Value: "abc"}})
		},
		func() error { return w.WriteStartAggregate("OFX") },
		func() error { return w.WriteStartAggregate("STATUS") },
		func() error { return w.WriteElement("CODE", "0") },
		func() error { return w.WriteElement("MESSAGE", "A&B <ok>") },
		func() error { return w.WriteEndAggregate("STATUS") },
		func() error { return w.WriteEndAggregate("OFX") },
		w.Flush,
	}
	for i, f := range steps {
		if err := f(); err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
	}
}

func TestV1Writer(t *testing.T) {
	buf := &bytes.Buffer{}
	writeSample(t, NewV1Writer(buf))
	want := "OFXHEADER:100\r\nDATA:OFXSGML\r\nVERSION:102\r\nSECURITY:NONE\r\n" +
		"ENCODING:USASCII\r\nCHARSET:1252\r\nCOMPRESSION:NONE\r\n" +
		"OLDFILEUID:NONE\r\nNEWFILEUID:abc\r\n\r\n" +
		"<OFX><STATUS><CODE>0<MESSAGE>A&amp;B &lt;ok&gt;</STATUS></OFX>"
	if got := buf.String(); got != want {
		t.Errorf("expected\n%q\ngot\n%q", want, got)
	}
}

func TestV1WriterNewlines(t *testing.T) {
	buf := &bytes.Buffer{}
	writeSample(t, NewV1Writer(buf, WithNewlines()))
	body := buf.String()[strings.Index(buf.String(), "<OFX>"):]
	want := "<OFX>\r\n<STATUS>\r\n<CODE>0\r\n<MESSAGE>A&amp;B &lt;ok&gt;\r\n</STATUS>\r\n</OFX>\r\n"
	if body != want {
		t.Errorf("expected %q, got %q", want, body)
	}
}

func TestV2Writer(t *testing.T) {
	buf := &bytes.Buffer{}
	writeSample(t, NewV2Writer(buf))
	want := `<?xml version="1.0" encoding="utf-8" ?>` +
		`<?OFX OFXHEADER="200" VERSION="202" SECURITY="NONE" OLDFILEUID="NONE" NEWFILEUID="abc"?>` +
		`<OFX><STATUS><CODE>0</CODE><MESSAGE>A&amp;B &lt;ok&gt;</MESSAGE></STATUS></OFX>`
	if got := buf.String(); got != want {
		t.Errorf("expected\n%q\ngot\n%q", want, got)
	}
}

func TestWriterErrors(t *testing.T) {
	for _, d := range format.AllDialects() {
		w := NewWriter(io.Discard, d)
		if err := w.WriteStartAggregate("OFX"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := w.WriteHeaders(nil); err == nil {
			t.Errorf("%s: expected error for headers after body", d)
		}
		if err := w.WriteElement("CODE", ""); err == nil {
			t.Errorf("%s: expected error for empty value", d)
		}
		if err := w.WriteElement("MEMO", " \t"); err == nil {
			t.Errorf("%s: expected error for blank value", d)
		}
		if err := w.WriteEndAggregate("STATUS"); err == nil {
			t.Errorf("%s: expected error for unbalanced end", d)
		}
		if err := w.Flush(); err == nil {
			t.Errorf("%s: expected error for unclosed aggregate", d)
		}
	}
}

// Decoding what a writer produced yields the events that were written.
func TestWriteDecodeRoundTrip(t *testing.T) {
	for _, d := range format.AllDialects() {
		buf := &bytes.Buffer{}
		writeSample(t, NewWriter(buf, d, WithNewlines()))
		dec, err := NewDecoder(buf, WithDialect(d))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		hs, err := dec.ReadHeaders()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v, _ := HeaderValue(hs, "NEWFILEUID"); v != "abc" {
			t.Errorf("%s: expected NEWFILEUID abc, got %q", d, v)
		}
		got := readAll(t, dec)
		want := []string{
			"StartAggregate OFX",
			"StartAggregate STATUS",
			`Leaf CODE="0"`,
			`Leaf MESSAGE="A&B <ok>"`,
			"EndAggregate STATUS",
			"EndAggregate OFX",
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("%s: events mismatch (-want +got):\n%s", d, diff)
		}
	}
}

func TestPrettyWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	writeSample(t, NewPrettyWriter(buf))
	want := "NEWFILEUID: abc\n\n<OFX>\n  <STATUS>\n    <CODE>0</CODE>\n    <MESSAGE>A&amp;B &lt;ok&gt;</MESSAGE>\n  </STATUS>\n</OFX>\n"
	if got := buf.String(); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestPrettyWriterIndent(t *testing.T) {
	buf := &bytes.Buffer{}
	writeSample(t, NewPrettyWriter(buf, WithIndent("\t")))
	want := "NEWFILEUID: abc\n\n<OFX>\n\t<STATUS>\n\t\t<CODE>0</CODE>\n\t\t<MESSAGE>A&amp;B &lt;ok&gt;</MESSAGE>\n\t</STATUS>\n</OFX>\n"
	if got := buf.String(); got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestReplay(t *testing.T) {
	dec, err := NewDecoder(strings.NewReader(v1Head + "<A><B>1</A>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := &bytes.Buffer{}
	w := NewV2Writer(buf)
	if err := w.WriteHeaders(nil); err != nil {
		t.Fatal(err)
	}
	for {
		ev, err := dec.ReadEvent()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := Replay(w, ev); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(buf.String(), "<A><B>1</B></A>") {
		t.Errorf("unexpected output %q", buf.String())
	}
}
