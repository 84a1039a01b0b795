package schema

import (
	"fmt"
	"reflect"

	"github.com/signadot/go-ofx/conv"
)

// Aggregate registers T under the aggregate name. newFn may be nil, in
// which case instances are allocated with new(T).
func Aggregate[T any](r *Registry, name string, newFn func() *T) {
	alloc := func() any { return new(T) }
	if newFn != nil {
		alloc = func() any { return newFn() }
	}
	r.RegisterAggregate(TypeFor[T](), name, alloc)
}

// Inherit declares that S extends P. upcast returns the P embedded in an S.
func Inherit[S, P any](r *Registry, upcast func(*S) *P) {
	sub := TypeFor[S]()
	r.DeclareInheritance(sub, TypeFor[P](), func(obj any) any {
		return upcast(obj.(*S))
	})
}

// Header registers a header of T stored in the field returned by field.
func Header[T, V any](r *Registry, name string, field func(*T) *V, opts ...Option) {
	id := TypeFor[T]()
	codec, err := conv.For[V]()
	if err != nil {
		r.fail(id, fmt.Errorf("header %s: %w", name, err))
		return
	}
	d := leafDescriptor(name, 0, codec, field)
	for _, o := range opts {
		o(d)
	}
	ensureAlloc[T](r)
	r.RegisterHeader(id, d)
}

// Element registers a leaf element of T at the given order.
func Element[T, V any](r *Registry, name string, order int, field func(*T) *V, opts ...Option) {
	id := TypeFor[T]()
	codec, err := conv.For[V]()
	if err != nil {
		r.fail(id, fmt.Errorf("element %s: %w", name, err))
		return
	}
	d := leafDescriptor(name, order, codec, field)
	for _, o := range opts {
		o(d)
	}
	ensureAlloc[T](r)
	r.RegisterElement(id, d)
}

// ElementList registers a repeated leaf element of T.
func ElementList[T, V any](r *Registry, name string, order int, field func(*T) *[]V, opts ...Option) {
	id := TypeFor[T]()
	codec, err := conv.For[V]()
	if err != nil {
		r.fail(id, fmt.Errorf("element list %s: %w", name, err))
		return
	}
	d := &Descriptor{
		Name:  name,
		Order: order,
		Type:  Collection{Elem: leafType(codec)},
		Read: func(obj any) ([]any, error) {
			t, err := cast[T](obj)
			if err != nil {
				return nil, err
			}
			var res []any
			for _, v := range *field(t) {
				s, err := codec.Encode(v)
				if err != nil {
					return nil, err
				}
				if s != "" {
					res = append(res, s)
				}
			}
			return res, nil
		},
		Write: func(obj any, v any) error {
			t, err := cast[T](obj)
			if err != nil {
				return err
			}
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("element %s: expected text, got %T", name, v)
			}
			x, err := codec.Decode(s)
			if err != nil {
				return err
			}
			p := field(t)
			*p = append(*p, x)
			return nil
		},
	}
	for _, o := range opts {
		o(d)
	}
	ensureAlloc[T](r)
	r.RegisterElement(id, d)
}

// Child registers a nested aggregate of T. Its wire name is the aggregate
// name of C unless Named is given.
func Child[T, C any](r *Registry, order int, field func(*T) **C, opts ...Option) {
	id := TypeFor[T]()
	d := &Descriptor{
		Order: order,
		Type:  Nested{Type: TypeFor[C]()},
		Read: func(obj any) ([]any, error) {
			t, err := cast[T](obj)
			if err != nil {
				return nil, err
			}
			c := *field(t)
			if c == nil {
				return nil, nil
			}
			return []any{c}, nil
		},
		Write: func(obj any, v any) error {
			t, err := cast[T](obj)
			if err != nil {
				return err
			}
			c, ok := v.(*C)
			if !ok {
				return fmt.Errorf("child of %s: expected %s, got %T", id, TypeFor[C](), v)
			}
			*field(t) = c
			return nil
		},
	}
	for _, o := range opts {
		o(d)
	}
	ensureAlloc[T](r)
	r.RegisterChild(id, d)
}

// ChildList registers a repeated nested aggregate of T. E is either a
// pointer to a registered schema type or an interface, in which case any
// registered aggregate implementing it may appear.
func ChildList[T, E any](r *Registry, order int, field func(*T) *[]E, opts ...Option) {
	id := TypeFor[T]()
	var elem Nested
	switch et := reflect.TypeFor[E](); et.Kind() {
	case reflect.Interface:
		elem = Nested{Iface: et}
	case reflect.Pointer:
		elem = Nested{Type: TypeID{rt: et}}
	default:
		r.fail(id, fmt.Errorf("child list of %s must hold pointers or interfaces", et))
		return
	}
	d := &Descriptor{
		Order: order,
		Type:  Collection{Elem: elem},
		Read: func(obj any) ([]any, error) {
			t, err := cast[T](obj)
			if err != nil {
				return nil, err
			}
			var res []any
			for _, e := range *field(t) {
				if !isNil(e) {
					res = append(res, e)
				}
			}
			return res, nil
		},
		Write: func(obj any, v any) error {
			t, err := cast[T](obj)
			if err != nil {
				return err
			}
			e, ok := v.(E)
			if !ok {
				return fmt.Errorf("child list of %s: %T is not assignable to %s", id, v, reflect.TypeFor[E]())
			}
			p := field(t)
			*p = append(*p, e)
			return nil
		},
	}
	for _, o := range opts {
		o(d)
	}
	ensureAlloc[T](r)
	r.RegisterChild(id, d)
}

func leafType[V any](c conv.Codec[V]) ValueType {
	if c.Kind == conv.Enumerated {
		return Enumerated{Name: c.Name}
	}
	return Scalar{Kind: c.Kind}
}

func leafDescriptor[T, V any](name string, order int, codec conv.Codec[V], field func(*T) *V) *Descriptor {
	return &Descriptor{
		Name:  name,
		Order: order,
		Type:  leafType(codec),
		Read: func(obj any) ([]any, error) {
			t, err := cast[T](obj)
			if err != nil {
				return nil, err
			}
			s, err := codec.Encode(*field(t))
			if err != nil {
				return nil, err
			}
			if s == "" {
				return nil, nil
			}
			return []any{s}, nil
		},
		Write: func(obj any, v any) error {
			t, err := cast[T](obj)
			if err != nil {
				return err
			}
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%s: expected text, got %T", name, v)
			}
			x, err := codec.Decode(s)
			if err != nil {
				return err
			}
			*field(t) = x
			return nil
		},
	}
}

// ensureAlloc gives T an allocator without touching its aggregate name.
func ensureAlloc[T any](r *Registry) {
	id := TypeFor[T]()
	r.mu.Lock()
	defer r.mu.Unlock()
	e := r.get(id)
	if e.newFn == nil {
		e.newFn = func() any { return new(T) }
	}
}

func cast[T any](obj any) (*T, error) {
	t, ok := obj.(*T)
	if !ok || t == nil {
		return nil, fmt.Errorf("expected %s, got %T", TypeFor[T](), obj)
	}
	return t, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
