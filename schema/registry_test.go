package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/go-ofx/conv"
)

type wrapper struct {
	UID string
	Tag string
}

type stmt struct {
	wrapper
	Account *acct
	Amount  *float64
	Memos   []string
	Entries []entry2
}

type acct struct {
	ID string
}

type entry2 interface{ isEntry() }

type credit struct{ Amount float64 }
type debit struct{ Amount float64 }

func (*credit) isEntry() {}
func (*debit) isEntry()  {}

type envelope struct {
	Security string
	Stmt     *stmt
}

func fixture() *Registry {
	r := NewRegistry()
	Element(r, "TRNUID", 0, func(w *wrapper) *string { return &w.UID }, Required())
	Element(r, "TAG", 10, func(w *wrapper) *string { return &w.Tag })

	// registered before its base is complete, on purpose
	Aggregate[stmt](r, "STMT", nil)
	Inherit(r, func(s *stmt) *wrapper { return &s.wrapper })
	Child(r, 30, func(s *stmt) **acct { return &s.Account }, Named("ACCTFROM"), Required())
	Element(r, "AMT", 40, func(s *stmt) **float64 { return &s.Amount })
	ElementList(r, "MEMO", 50, func(s *stmt) *[]string { return &s.Memos })
	ChildList(r, 60, func(s *stmt) *[]entry2 { return &s.Entries })

	Aggregate[acct](r, "", nil)
	Element(r, "ACCTID", 0, func(a *acct) *string { return &a.ID }, Required())

	Aggregate[credit](r, "CREDIT", nil)
	Element(r, "AMT", 0, func(c *credit) *float64 { return &c.Amount })
	Aggregate[debit](r, "DEBIT", nil)
	Element(r, "AMT", 0, func(c *debit) *float64 { return &c.Amount })

	Aggregate[envelope](r, "ENV", nil)
	Header(r, "SECURITY", func(e *envelope) *string { return &e.Security })
	Child(r, 0, func(e *envelope) **stmt { return &e.Stmt })
	return r
}

func names(ds []*Descriptor) []string {
	var res []string
	for _, d := range ds {
		n := d.Name
		if n == "" {
			n = "*"
		}
		res = append(res, n)
	}
	return res
}

func TestResolveComposition(t *testing.T) {
	r := fixture()
	m, err := r.Resolve(TypeFor[stmt]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name != "STMT" {
		t.Errorf("expected STMT, got %q", m.Name)
	}
	want := []string{"TRNUID", "TAG", "ACCTFROM", "AMT", "MEMO", "*"}
	if diff := cmp.Diff(want, names(m.Fields)); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	if m.Parent == nil || m.Parent.Type != TypeFor[wrapper]() {
		t.Errorf("expected wrapper parent, got %v", m.Parent)
	}
	if got := names(m.Children()); !cmp.Equal(got, []string{"ACCTFROM", "*"}) {
		t.Errorf("unexpected children %v", got)
	}
	if len(m.Elements()) != 4 {
		t.Errorf("expected 4 elements, got %d", len(m.Elements()))
	}
	m2, err := r.Resolve(TypeFor[stmt]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m2 != m {
		t.Error("expected memoized metadata")
	}
}

func TestInheritedAccessors(t *testing.T) {
	r := fixture()
	m, err := r.Resolve(TypeFor[stmt]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := &stmt{}
	if err := m.Fields[0].Write(s, "42"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.UID != "42" {
		t.Errorf("expected UID 42, got %q", s.UID)
	}
	vs, err := m.Fields[0].Read(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cmp.Equal(vs, []any{"42"}) {
		t.Errorf("unexpected read %v", vs)
	}
}

func TestLeafAccessors(t *testing.T) {
	r := fixture()
	m, err := r.Resolve(TypeFor[stmt]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := &stmt{}
	amt := m.Fields[m.Match("AMT", 0, false)]
	if vs, _ := amt.Read(s); len(vs) != 0 {
		t.Errorf("expected absent amount, got %v", vs)
	}
	if err := amt.Write(s, "-12.5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Amount == nil || *s.Amount != -12.5 {
		t.Errorf("unexpected amount %v", s.Amount)
	}
	err = amt.Write(s, "abc")
	var ce *conv.ConversionError
	if !errors.As(err, &ce) {
		t.Errorf("expected conversion error, got %v", err)
	}
	memo := m.Fields[m.Match("MEMO", 0, false)]
	memo.Write(s, "a")
	memo.Write(s, "b")
	if !cmp.Equal(s.Memos, []string{"a", "b"}) {
		t.Errorf("unexpected memos %v", s.Memos)
	}
	if _, ok := amt.Type.(Scalar); !ok || amt.IsCollection() || !memo.IsCollection() {
		t.Errorf("unexpected value types %s %s", amt.Type, memo.Type)
	}
}

func TestMatchAndPolymorphism(t *testing.T) {
	r := fixture()
	m, err := r.Resolve(TypeFor[stmt]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if i := m.Match("TAG", 0, false); i != 1 {
		t.Errorf("expected TAG at 1, got %d", i)
	}
	if i := m.Match("TAG", 2, false); i != -1 {
		t.Errorf("expected no TAG after 2, got %d", i)
	}
	if i := m.Match("tag", 0, true); i != 1 {
		t.Errorf("expected folded TAG at 1, got %d", i)
	}
	if i := m.Match("CREDIT", 0, false); i != 5 {
		t.Errorf("expected CREDIT to match the entry list, got %d", i)
	}
	if m.Accepts("ENV", false) {
		t.Error("ENV is not an entry")
	}
	d := m.Fields[5]
	id, ok := r.EntryType(d, "DEBIT", false)
	if !ok || id != TypeFor[debit]() {
		t.Errorf("expected debit, got %s", id)
	}
	if !Assignable(d, TypeFor[credit]()) || Assignable(d, TypeFor[acct]()) {
		t.Error("assignability mismatch")
	}
	if ids := r.ByName("CREDIT"); len(ids) != 1 || ids[0] != TypeFor[credit]() {
		t.Errorf("unexpected ByName result %v", ids)
	}
	if err := d.Write(&stmt{}, &acct{}); err == nil {
		t.Error("expected error writing a non-entry")
	}
}

func TestHeaders(t *testing.T) {
	r := fixture()
	m, err := r.Resolve(TypeFor[envelope]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h := m.Header("SECURITY", false); h == nil || h.Role != RoleHeader {
		t.Errorf("expected SECURITY header, got %v", h)
	}
	if m.Fields[0].Name != "STMT" {
		t.Errorf("expected derived child name STMT, got %q", m.Fields[0].Name)
	}
	if m.New == nil {
		t.Fatal("expected allocator")
	}
	if _, ok := m.New().(*envelope); !ok {
		t.Errorf("unexpected allocation %T", m.New())
	}
}

func TestResolveErrors(t *testing.T) {
	r := fixture()
	var se *SchemaError

	type unknown struct{}
	if _, err := r.Resolve(TypeFor[unknown]()); !errors.As(err, &se) {
		t.Errorf("expected schema error, got %v", err)
	}

	type dup struct{ A, B string }
	Element(r, "A", 10, func(d *dup) *string { return &d.A })
	Element(r, "B", 10, func(d *dup) *string { return &d.B })
	if _, err := r.Resolve(TypeFor[dup]()); !errors.As(err, &se) {
		t.Errorf("expected duplicate order error, got %v", err)
	}

	type parent struct{ A *acct2 }
	Child(r, 0, func(p *parent) **acct2 { return &p.A })
	Element(r, "X", 0, func(a *acct2) *string { return &a.X })
	if _, err := r.Resolve(TypeFor[parent]()); !errors.As(err, &se) {
		t.Errorf("expected underivable name error, got %v", err)
	}

	type orphan struct{ wrapper }
	Inherit(r, func(o *orphan) *missingBase { return nil })
	if _, err := r.Resolve(TypeFor[orphan]()); !errors.As(err, &se) {
		t.Errorf("expected missing base error, got %v", err)
	}

	type bad struct{ C chan int }
	Element(r, "C", 0, func(b *bad) *chan int { return &b.C })
	_, err := r.Resolve(TypeFor[bad]())
	if !errors.As(err, &se) || !errors.Is(err, conv.ErrUnsupported) {
		t.Errorf("expected unsupported type error, got %v", err)
	}
}

type acct2 struct{ X string }
type missingBase struct{}

func TestReRegistrationReplaces(t *testing.T) {
	r := fixture()
	Element(r, "TAG", 10, func(w *wrapper) *string { return &w.Tag }, Required())
	m, err := r.Resolve(TypeFor[wrapper]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Fields) != 2 || !m.Fields[1].Required {
		t.Errorf("expected replaced TAG descriptor, got %v", m.Fields)
	}
}
