package gomap

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/signadot/go-ofx/conv"
	"github.com/signadot/go-ofx/format"
	"github.com/signadot/go-ofx/schema"
)

func TestRoundTrip(t *testing.T) {
	r := fixture()
	for _, d := range format.AllDialects() {
		t.Run(d.String(), func(t *testing.T) {
			data, err := Marshal(sample(), WithRegistry(r), WithDialect(d))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := Unmarshal[envelope](data, WithRegistry(r), WithDialect(d))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(sample(), got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRoundTripNewlines(t *testing.T) {
	r := fixture()
	data, err := Marshal(sample(), WithRegistry(r), WithNewlines())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Unmarshal[envelope](data, WithRegistry(r))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(sample(), got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

// leaves and transactions are never closed
const unclosed = v1Head + `<OFX>
<STATUS><CODE>0<SEVERITY>INFO</STATUS>
<STMTRS><CURDEF>USD
<BANKACCTFROM><BANKID>1<ACCTID>2</BANKACCTFROM>
<STMTTRN><FITID>a<TRNAMT>1.5
<STMTTRN><FITID>b<TRNAMT>2
<BAL>3
</STMTRS>
</OFX>
`

func TestImplicitClose(t *testing.T) {
	got, err := Unmarshal[envelope]([]byte(unclosed), WithRegistry(fixture()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := got.Stmt
	if s == nil || len(s.Txns) != 2 {
		t.Fatalf("expected 2 transactions, got %+v", s)
	}
	if s.Txns[0].ID != "a" || s.Txns[0].Amount != 1.5 || s.Txns[1].ID != "b" {
		t.Errorf("unexpected transactions %+v %+v", s.Txns[0], s.Txns[1])
	}
	if s.Balance == nil || *s.Balance != 3 {
		t.Errorf("expected balance 3, got %v", s.Balance)
	}
}

func TestNoNestHint(t *testing.T) {
	got, err := Unmarshal[envelope]([]byte(unclosed), WithRegistry(fixture()), NoNestHint())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// the second transaction nests in the first and is dropped with BAL
	if len(got.Stmt.Txns) != 1 || got.Stmt.Balance != nil {
		t.Errorf("unexpected statement %+v", got.Stmt)
	}
}

func TestCollectionAccumulates(t *testing.T) {
	doc := v1Head + "<OFX><STATUS><CODE>0<SEVERITY>INFO</STATUS><NOTE>x<NOTE>y<NOTE>z</OFX>"
	got, err := Unmarshal[envelope]([]byte(doc), WithRegistry(fixture()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"x", "y", "z"}, got.Notes); diff != "" {
		t.Errorf("notes mismatch (-want +got):\n%s", diff)
	}
}

func TestUnmarshalRequired(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		agg   string
		field []string
	}{
		{
			name:  "missing element",
			doc:   "<OFX><STATUS><SEVERITY>INFO</STATUS></OFX>",
			agg:   "STATUS",
			field: []string{"CODE"},
		},
		{
			name:  "out of order element",
			doc:   "<OFX><STATUS><SEVERITY>INFO<CODE>0</STATUS></OFX>",
			agg:   "STATUS",
			field: []string{"CODE"},
		},
		{
			name:  "empty text is absent",
			doc:   "<OFX><STATUS><CODE>0<SEVERITY></SEVERITY></STATUS></OFX>",
			agg:   "STATUS",
			field: []string{"SEVERITY"},
		},
		{
			name:  "empty aggregate",
			doc:   "<OFX><STATUS><CODE>0<SEVERITY>INFO</STATUS><STMTRS><CURDEF>USD<BANKACCTFROM></BANKACCTFROM></STMTRS></OFX>",
			agg:   "BANKACCTFROM",
			field: []string{"BANKID", "ACCTID"},
		},
		{
			name:  "missing child",
			doc:   "<OFX><NOTE>x</OFX>",
			agg:   "OFX",
			field: []string{"STATUS"},
		},
	}
	r := fixture()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Unmarshal[envelope]([]byte(v1Head+tc.doc), WithRegistry(r))
			if got != nil {
				t.Error("expected no result on error")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if ve.Aggregate != tc.agg {
				t.Errorf("expected aggregate %s, got %s", tc.agg, ve.Aggregate)
			}
			if diff := cmp.Diff(tc.field, ve.Fields); diff != "" {
				t.Errorf("fields mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMissingHeader(t *testing.T) {
	doc := strings.Replace(v1Head, "NEWFILEUID:u1", "NEWFILEUID:", 1) +
		"<OFX><STATUS><CODE>0<SEVERITY>INFO</STATUS></OFX>"
	_, err := Unmarshal[envelope]([]byte(doc), WithRegistry(fixture()))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Fields[0] != "NEWFILEUID" {
		t.Errorf("expected missing NEWFILEUID, got %v", err)
	}
}

func TestLenientAndStrict(t *testing.T) {
	doc := v1Head + "<OFX><STATUS><CODE>0<X-VENDOR>1<SEVERITY>INFO<EXTRA><A>1</EXTRA></STATUS></OFX>"
	r := fixture()

	core, logs := observer.New(zapcore.WarnLevel)
	got, err := Unmarshal[envelope]([]byte(doc), WithRegistry(r), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status.Severity != "INFO" {
		t.Errorf("expected INFO, got %q", got.Status.Severity)
	}
	entries := logs.FilterMessage("dropping element").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 warnings, got %d", len(entries))
	}
	if tag := entries[1].ContextMap()["tag"]; tag != "EXTRA" {
		t.Errorf("expected EXTRA dropped, got %v", tag)
	}

	_, err = Unmarshal[envelope]([]byte(doc), WithRegistry(r), Strict())
	var ue *UnexpectedElementError
	if !errors.As(err, &ue) {
		t.Fatalf("expected unexpected element error, got %v", err)
	}
	if ue.Name != "X-VENDOR" || ue.Aggregate != "OFX/STATUS" {
		t.Errorf("unexpected error fields %+v", ue)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	r := fixture()
	t.Run("wrong root", func(t *testing.T) {
		_, err := Unmarshal[envelope]([]byte(v1Head+"<FOO><A>1</FOO>"), WithRegistry(r))
		var ue *UnexpectedElementError
		if !errors.As(err, &ue) || ue.Name != "FOO" {
			t.Errorf("expected unexpected FOO, got %v", err)
		}
	})
	t.Run("bad number", func(t *testing.T) {
		doc := v1Head + "<OFX><STATUS><CODE>zero<SEVERITY>INFO</STATUS></OFX>"
		_, err := Unmarshal[envelope]([]byte(doc), WithRegistry(r))
		var ce *conv.ConversionError
		var me *UnmarshalError
		if !errors.As(err, &me) || !errors.As(err, &ce) {
			t.Fatalf("expected conversion error, got %v", err)
		}
		if me.FieldPath != "OFX/STATUS/CODE" {
			t.Errorf("unexpected path %s", me.FieldPath)
		}
	})
	t.Run("truncated", func(t *testing.T) {
		doc := v1Head + "<OFX><STATUS><CODE>0<SEVERITY>INFO</STATUS>"
		if _, err := Unmarshal[envelope]([]byte(doc), WithRegistry(r)); err == nil {
			t.Error("expected error")
		}
	})
	t.Run("unregistered", func(t *testing.T) {
		type other struct{}
		_, err := Unmarshal[other]([]byte(v1Head+"<OFX></OFX>"), WithRegistry(r))
		var se *schema.SchemaError
		if !errors.As(err, &se) {
			t.Errorf("expected schema error, got %v", err)
		}
	})
	t.Run("strict dialect mismatch", func(t *testing.T) {
		doc := v1Head + "<OFX><STATUS><CODE>0<SEVERITY>INFO</STATUS></OFX>"
		if _, err := Unmarshal[envelope]([]byte(doc), WithRegistry(r), WithDialect(format.V2)); err == nil {
			t.Error("expected error reading SGML as XML")
		}
	})
}

func TestFoldCase(t *testing.T) {
	doc := v1Head + "<ofx><status><code>0<severity>INFO</status></ofx>"
	got, err := Unmarshal[envelope]([]byte(doc), WithRegistry(fixture()), FoldCase(true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status == nil || got.Status.Severity != "INFO" {
		t.Errorf("unexpected status %+v", got.Status)
	}
}

func TestEmptyCollectionAbsent(t *testing.T) {
	r := fixture()
	v := &envelope{
		NewUID: "u",
		Status: &status{Severity: "INFO"},
		Stmt:   &stmtRs{Currency: "USD", Account: &acct{BankID: "1", AcctID: "2"}},
	}
	for _, d := range format.AllDialects() {
		t.Run(d.String(), func(t *testing.T) {
			data, err := Marshal(v, WithRegistry(r), WithDialect(d))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s := string(data); strings.Contains(s, "STMTTRN") || strings.Contains(s, "NOTE") {
				t.Errorf("empty collections written:\n%s", s)
			}
			got, err := Unmarshal[envelope](data, WithRegistry(r), WithDialect(d))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Notes != nil || got.Stmt.Txns != nil {
				t.Errorf("expected nil collections, got %v and %v", got.Notes, got.Stmt.Txns)
			}
			if diff := cmp.Diff(v, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLeafWhitespace(t *testing.T) {
	r := fixture()
	padded := sample()
	padded.Stmt.Txns[1].Memo = "  two  "
	for _, d := range format.AllDialects() {
		t.Run(d.String(), func(t *testing.T) {
			data, err := Marshal(padded, WithRegistry(r), WithDialect(d))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got, err := Unmarshal[envelope](data, WithRegistry(r), WithDialect(d))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if memo := got.Stmt.Txns[1].Memo; memo != "two" {
				t.Errorf("expected trimmed memo, got %q", memo)
			}
			got, err = Unmarshal[envelope](data, WithRegistry(r), WithDialect(d), KeepSpace())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if memo := got.Stmt.Txns[1].Memo; memo != "  two  " {
				t.Errorf("expected padded memo, got %q", memo)
			}
		})
	}

	blank := sample()
	blank.Stmt.Txns[1].Memo = " "
	_, err := Marshal(blank, WithRegistry(r))
	var me *MarshalError
	if !errors.As(err, &me) {
		t.Fatalf("expected marshal error, got %v", err)
	}
	if me.FieldPath != "OFX/STMTRS/STMTTRN/MEMO" {
		t.Errorf("unexpected field path %q", me.FieldPath)
	}
}

type fileIDs struct {
	NewUID string
	OldUID string
	Status *status
}

func TestAbsentHeader(t *testing.T) {
	r := fixture()
	none := schema.AbsentAs("NONE")
	schema.Aggregate[fileIDs](r, "OFX", nil)
	schema.Header(r, "NEWFILEUID", func(f *fileIDs) *string { return &f.NewUID }, none)
	schema.Header(r, "OLDFILEUID", func(f *fileIDs) *string { return &f.OldUID }, none)
	schema.Child(r, 0, func(f *fileIDs) **status { return &f.Status }, schema.Required())

	tests := []struct {
		name string
		in   fileIDs
		want fileIDs
	}{
		{name: "absent", in: fileIDs{}, want: fileIDs{}},
		{name: "set", in: fileIDs{NewUID: "n1", OldUID: "o1"}, want: fileIDs{NewUID: "n1", OldUID: "o1"}},
		{name: "none", in: fileIDs{NewUID: "NONE"}, want: fileIDs{}},
	}
	for _, d := range format.AllDialects() {
		for _, tc := range tests {
			t.Run(d.String()+"/"+tc.name, func(t *testing.T) {
				in := tc.in
				in.Status = &status{Severity: "INFO"}
				data, err := Marshal(&in, WithRegistry(r), WithDialect(d))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				got, err := Unmarshal[fileIDs](data, WithRegistry(r), WithDialect(d))
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				want := tc.want
				want.Status = in.Status
				if diff := cmp.Diff(&want, got); diff != "" {
					t.Errorf("round trip mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}
