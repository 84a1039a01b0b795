package schema

import (
	"fmt"
	"reflect"

	"github.com/signadot/go-ofx/conv"
)

// TypeID identifies a registered schema type. It wraps the pointer type
// of the schema struct; identity is all the registry ever uses.
type TypeID struct {
	rt reflect.Type
}

// TypeFor returns the TypeID of *T.
func TypeFor[T any]() TypeID {
	return TypeID{rt: reflect.TypeFor[*T]()}
}

// TypeOf returns the TypeID of the dynamic type of v, which should be a
// pointer to a schema struct.
func TypeOf(v any) TypeID {
	return TypeID{rt: reflect.TypeOf(v)}
}

func (id TypeID) IsZero() bool {
	return id.rt == nil
}

func (id TypeID) String() string {
	if id.rt == nil {
		return "<nil>"
	}
	return id.rt.String()
}

// Role says where a descriptor's value lives on the wire.
type Role int

const (
	RoleHeader Role = iota
	RoleElement
	RoleChild
)

func (r Role) String() string {
	switch r {
	case RoleHeader:
		return "header"
	case RoleElement:
		return "element"
	case RoleChild:
		return "child"
	default:
		return "unknown"
	}
}

// ValueType is the value-type tag of a descriptor: one of Scalar,
// Enumerated, Nested or Collection.
type ValueType interface {
	fmt.Stringer
	valueType()
}

// Scalar is a leaf converted by conv.
type Scalar struct {
	Kind conv.Kind
}

// Enumerated is a leaf restricted to a fixed set of tokens.
type Enumerated struct {
	Name string
}

// Nested is a child aggregate. When Type is zero the child is
// polymorphic: any registered aggregate implementing Iface may appear and
// is chosen by its tag name.
type Nested struct {
	Type  TypeID
	Iface reflect.Type
}

// Collection is a repeated leaf or child.
type Collection struct {
	Elem ValueType
}

func (Scalar) valueType()     {}
func (Enumerated) valueType() {}
func (Nested) valueType()     {}
func (Collection) valueType() {}

func (s Scalar) String() string     { return s.Kind.String() }
func (e Enumerated) String() string { return "enumerated(" + e.Name + ")" }
func (c Collection) String() string { return "collection(" + c.Elem.String() + ")" }

func (n Nested) String() string {
	if n.Polymorphic() {
		return "nested(any " + n.Iface.String() + ")"
	}
	return "nested(" + n.Type.String() + ")"
}

func (n Nested) Polymorphic() bool {
	return n.Type.IsZero()
}

// Descriptor describes one wire field of a schema type.
type Descriptor struct {
	Name     string
	Role     Role
	Order    int
	Required bool
	Type     ValueType
	// Absent is header text that stands for a missing value, such as
	// NONE for NEWFILEUID. It is neither written nor bound.
	Absent string

	// Read returns the present values of the field on obj in order: leaf
	// text for headers and elements, schema instances for children. A
	// single-valued field yields at most one value.
	Read func(obj any) ([]any, error)
	// Write stores v, leaf text or a schema instance, on obj. Collections
	// append.
	Write func(obj any, v any) error
}

// IsCollection reports whether the field repeats.
func (d *Descriptor) IsCollection() bool {
	_, ok := d.Type.(Collection)
	return ok
}

// Nested returns the nested type of a child descriptor, looking through
// collections.
func (d *Descriptor) Nested() (Nested, bool) {
	t := d.Type
	if c, ok := t.(Collection); ok {
		t = c.Elem
	}
	n, ok := t.(Nested)
	return n, ok
}

func (d *Descriptor) String() string {
	req := ""
	if d.Required {
		req = " required"
	}
	name := d.Name
	if name == "" {
		name = "*"
	}
	return fmt.Sprintf("%s %s#%d %s%s", d.Role, name, d.Order, d.Type, req)
}

// Option adjusts a descriptor at registration.
type Option func(*Descriptor)

// Required marks the field as required.
func Required() Option {
	return func(d *Descriptor) { d.Required = true }
}

// AbsentAs marks text as the wire spelling of a missing header value.
func AbsentAs(text string) Option {
	return func(d *Descriptor) { d.Absent = text }
}

// Named sets the wire name of a child, overriding the name derived from
// the nested type.
func Named(name string) Option {
	return func(d *Descriptor) { d.Name = name }
}
