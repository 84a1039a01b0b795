package gomap

import (
	"bytes"
	"fmt"
	"io"

	"github.com/signadot/go-ofx/debug"
	"github.com/signadot/go-ofx/format"
	"github.com/signadot/go-ofx/schema"
	"github.com/signadot/go-ofx/stream"
	"github.com/signadot/go-ofx/token"
)

// Marshaller writes registered schema instances as OFX.
type Marshaller struct {
	cfg *config
}

func NewMarshaller(opts ...Option) *Marshaller {
	return &Marshaller{cfg: newConfig(opts)}
}

// Marshal renders v in the dialect given by the options.
func Marshal(v any, opts ...Option) ([]byte, error) {
	var buf bytes.Buffer
	m := NewMarshaller(opts...)
	w := stream.NewWriter(&buf, m.cfg.dialect, m.cfg.streamOpts()...)
	if err := m.Marshal(v, w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalTo renders v to w in dialect d. Nothing is written on error.
func MarshalTo(w io.Writer, v any, d format.Dialect, opts ...Option) error {
	data, err := Marshal(v, append(opts, WithDialect(d))...)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// Marshal writes the headers of v followed by its aggregate tree to w and
// flushes w. Dispatch is on the runtime type of v and of each child.
func (m *Marshaller) Marshal(v any, w stream.Writer) error {
	if v == nil {
		return &MarshalError{Message: "nil value"}
	}
	meta, err := m.cfg.reg.Resolve(schema.TypeOf(v))
	if err != nil {
		return err
	}
	if meta.Name == "" {
		return &schema.SchemaError{Type: meta.Type, Message: "root has no aggregate name"}
	}
	hs, err := m.headers(v, meta)
	if err != nil {
		return err
	}
	if err := w.WriteHeaders(hs); err != nil {
		return err
	}
	if err := m.aggregate(w, v, meta, meta.Name, meta.Name); err != nil {
		return err
	}
	return w.Flush()
}

func (m *Marshaller) headers(v any, meta *schema.Metadata) ([]token.Header, error) {
	var (
		hs      []token.Header
		missing []string
	)
	for _, d := range meta.Headers {
		vals, err := d.Read(v)
		if err != nil {
			return nil, &MarshalError{FieldPath: "header " + d.Name, Message: err.Error(), Err: err}
		}
		if len(vals) == 0 || (d.Absent != "" && vals[0] == d.Absent) {
			if d.Required {
				missing = append(missing, d.Name)
			}
			continue
		}
		hs = append(hs, token.Header{Name: d.Name, Value: vals[0].(string)})
	}
	if len(missing) != 0 {
		return nil, &ValidationError{Aggregate: meta.Name, Fields: missing}
	}
	return hs, nil
}

func (m *Marshaller) aggregate(w stream.Writer, obj any, meta *schema.Metadata, name, path string) error {
	if debug.Marshal() {
		debug.Logf("marshal %s from %s\n", path, meta.Type)
	}
	var missing []string
	for _, d := range meta.Fields {
		if !d.Required {
			continue
		}
		vals, err := d.Read(obj)
		if err != nil {
			return &MarshalError{FieldPath: path + "/" + fieldName(d), Message: err.Error(), Err: err}
		}
		if len(vals) == 0 {
			missing = append(missing, fieldName(d))
		}
	}
	if len(missing) != 0 {
		return &ValidationError{Aggregate: name, Fields: missing}
	}

	if err := w.WriteStartAggregate(name); err != nil {
		return err
	}
	for _, d := range meta.Fields {
		vals, err := d.Read(obj)
		if err != nil {
			return &MarshalError{FieldPath: path + "/" + fieldName(d), Message: err.Error(), Err: err}
		}
		for _, val := range vals {
			switch d.Role {
			case schema.RoleElement:
				if err := w.WriteElement(d.Name, val.(string)); err != nil {
					return &MarshalError{FieldPath: path + "/" + d.Name, Message: err.Error(), Err: err}
				}
			case schema.RoleChild:
				if err := m.child(w, d, val, path); err != nil {
					return err
				}
			}
		}
	}
	return w.WriteEndAggregate(name)
}

func (m *Marshaller) child(w stream.Writer, d *schema.Descriptor, val any, path string) error {
	cm, err := m.cfg.reg.Resolve(schema.TypeOf(val))
	if err != nil {
		return err
	}
	name := d.Name
	if name == "" {
		name = cm.Name
	}
	if name == "" {
		return &schema.SchemaError{Type: cm.Type, Message: fmt.Sprintf("no aggregate name under %s", path)}
	}
	return m.aggregate(w, val, cm, name, path+"/"+name)
}
