package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/signadot/go-ofx/debug"
)

// Registry maps schema types to their descriptors. Registration is
// expected to finish, typically in init functions, before concurrent use;
// Resolve is safe for concurrent readers.
type Registry struct {
	mu sync.RWMutex

	types    map[TypeID]*entry
	order    []TypeID // registration order, for deterministic lookups
	byName   map[string][]TypeID
	resolved map[TypeID]*Metadata
}

// entry is a type's own registration, before composition with its
// ancestors.
type entry struct {
	id      TypeID
	name    string
	newFn   func() any
	headers []*Descriptor
	fields  []*Descriptor

	parent TypeID
	upcast func(any) any

	errs []error
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		types:    make(map[TypeID]*entry),
		byName:   make(map[string][]TypeID),
		resolved: make(map[TypeID]*Metadata),
	}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry that schema packages register
// with at init.
func Default() *Registry {
	return defaultRegistry
}

// get returns the entry for id, creating it. r.mu must be held.
func (r *Registry) get(id TypeID) *entry {
	e, ok := r.types[id]
	if !ok {
		e = &entry{id: id}
		r.types[id] = e
		r.order = append(r.order, id)
	}
	// any registration invalidates composed metadata
	clear(r.resolved)
	return e
}

// RegisterAggregate records the wire name of id and how to allocate it.
// name may be empty for types that only ever appear under a named child
// descriptor or as a base of other types.
func (r *Registry) RegisterAggregate(id TypeID, name string, newFn func() any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.get(id)
	if name != "" && e.name != name {
		if e.name != "" {
			r.byName[e.name] = slices.DeleteFunc(r.byName[e.name], func(x TypeID) bool { return x == id })
		}
		e.name = name
		r.byName[name] = append(r.byName[name], id)
	}
	if newFn != nil {
		e.newFn = newFn
	}
	if debug.Registry() {
		debug.Logf("registry: aggregate %s %q\n", id, name)
	}
}

func (r *Registry) RegisterHeader(id TypeID, d *Descriptor) {
	d.Role = RoleHeader
	r.register(id, d)
}

func (r *Registry) RegisterElement(id TypeID, d *Descriptor) {
	d.Role = RoleElement
	r.register(id, d)
}

func (r *Registry) RegisterChild(id TypeID, d *Descriptor) {
	d.Role = RoleChild
	r.register(id, d)
}

// register appends d to the own list of id. Registering a descriptor
// with the same role and name again replaces it; unnamed children are
// matched by order instead.
func (r *Registry) register(id TypeID, d *Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.get(id)
	if d.Type == nil || d.Read == nil || d.Write == nil {
		e.errs = append(e.errs, fmt.Errorf("incomplete %s descriptor %q", d.Role, d.Name))
		return
	}
	list := &e.fields
	if d.Role == RoleHeader {
		list = &e.headers
	}
	for i, x := range *list {
		if x.Role == d.Role && x.Name == d.Name && (x.Name != "" || x.Order == d.Order) {
			(*list)[i] = d
			return
		}
	}
	*list = append(*list, d)
	if debug.Registry() {
		debug.Logf("registry: %s %s\n", id, d)
	}
}

// DeclareInheritance makes the composed metadata of sub start with the
// composed metadata of super. upcast maps an instance of sub to the
// embedded instance of super that super's accessors operate on.
func (r *Registry) DeclareInheritance(sub, super TypeID, upcast func(any) any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.get(sub)
	e.parent = super
	e.upcast = upcast
}

// fail records a registration error, reported by Resolve.
func (r *Registry) fail(id TypeID, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.get(id)
	e.errs = append(e.errs, err)
}

// ByName returns the types registered under the aggregate name, in
// registration order.
func (r *Registry) ByName(name string) []TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.byName[name])
}

// Name returns the aggregate name registered for id.
func (r *Registry) Name(id TypeID) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.types[id]; ok {
		return e.name
	}
	return ""
}

// Types returns every registered type in registration order.
func (r *Registry) Types() []TypeID {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order)
}

// Assignable reports whether a value of type id can be stored through the
// child descriptor d.
func Assignable(d *Descriptor, id TypeID) bool {
	n, ok := d.Nested()
	if !ok || id.IsZero() {
		return false
	}
	if !n.Polymorphic() {
		return n.Type == id
	}
	return n.Iface != nil && id.rt.Implements(n.Iface)
}

// EntryType returns the type to instantiate for a child tag name under d.
// For polymorphic descriptors the first registered aggregate with that
// name assignable to d wins.
func (r *Registry) EntryType(d *Descriptor, name string, fold bool) (TypeID, bool) {
	n, ok := d.Nested()
	if !ok {
		return TypeID{}, false
	}
	if !n.Polymorphic() {
		return n.Type, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, id := range r.order {
		e := r.types[id]
		if e.name == "" || !nameEq(e.name, name, fold) {
			continue
		}
		if Assignable(d, id) {
			return id, true
		}
	}
	return TypeID{}, false
}

func nameEq(a, b string, fold bool) bool {
	if fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// Resolve returns the composed metadata of id. The result is memoized
// once the whole inheritance chain has resolved, so a type may be
// registered before its base type is.
func (r *Registry) Resolve(id TypeID) (*Metadata, error) {
	r.mu.RLock()
	m, ok := r.resolved[id]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resolve(id, nil)
}

// resolve composes id. r.mu must be held for writing.
func (r *Registry) resolve(id TypeID, seen []TypeID) (*Metadata, error) {
	if m, ok := r.resolved[id]; ok {
		return m, nil
	}
	if slices.Contains(seen, id) {
		return nil, &SchemaError{Type: id, Message: "inheritance cycle"}
	}
	e, ok := r.types[id]
	if !ok {
		return nil, &SchemaError{Type: id, Message: "type not registered"}
	}
	if len(e.errs) > 0 {
		return nil, &SchemaError{Type: id, Message: "bad registration", Err: errors.Join(e.errs...)}
	}
	m := &Metadata{
		Type: id,
		Name: e.name,
		New:  e.newFn,
		reg:  r,
	}
	if !e.parent.IsZero() {
		pm, err := r.resolve(e.parent, append(seen, id))
		if err != nil {
			return nil, &SchemaError{Type: id, Message: "cannot resolve base " + e.parent.String(), Err: err}
		}
		m.Parent = pm
		m.Headers = upcastAll(pm.Headers, e.upcast)
		m.Fields = upcastAll(pm.Fields, e.upcast)
	}
	headers, err := r.own(e, e.headers)
	if err != nil {
		return nil, err
	}
	fields, err := r.own(e, e.fields)
	if err != nil {
		return nil, err
	}
	m.Headers = append(m.Headers, headers...)
	m.Fields = append(m.Fields, fields...)
	r.resolved[id] = m
	if debug.Registry() {
		debug.Logf("registry: resolved %s %q with %d headers %d fields\n", id, m.Name, len(m.Headers), len(m.Fields))
	}
	return m, nil
}

// own sorts a type's own descriptors by order and derives missing child
// names.
func (r *Registry) own(e *entry, ds []*Descriptor) ([]*Descriptor, error) {
	res := make([]*Descriptor, 0, len(ds))
	for _, d := range ds {
		if d.Name == "" && d.Role == RoleChild {
			n, _ := d.Nested()
			if !n.Polymorphic() {
				ne, ok := r.types[n.Type]
				if !ok || ne.name == "" {
					return nil, &SchemaError{Type: e.id,
						Message: fmt.Sprintf("cannot derive name of child #%d: %s has no aggregate name", d.Order, n.Type)}
				}
				c := *d
				c.Name = ne.name
				d = &c
			}
		}
		res = append(res, d)
	}
	slices.SortStableFunc(res, func(a, b *Descriptor) int { return a.Order - b.Order })
	for i := 1; i < len(res); i++ {
		if res[i].Order == res[i-1].Order && res[i].Role != RoleHeader {
			return nil, &SchemaError{Type: e.id,
				Message: fmt.Sprintf("duplicate order %d for %s and %s", res[i].Order, res[i-1].Name, res[i].Name)}
		}
	}
	return res, nil
}

func upcastAll(ds []*Descriptor, up func(any) any) []*Descriptor {
	res := make([]*Descriptor, len(ds))
	for i, d := range ds {
		c := *d
		read, write := d.Read, d.Write
		c.Read = func(obj any) ([]any, error) { return read(up(obj)) }
		c.Write = func(obj any, v any) error { return write(up(obj), v) }
		res[i] = &c
	}
	return res
}
