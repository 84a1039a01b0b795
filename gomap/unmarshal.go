package gomap

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/signadot/go-ofx/debug"
	"github.com/signadot/go-ofx/schema"
	"github.com/signadot/go-ofx/stream"
	"github.com/signadot/go-ofx/token"
)

// Unmarshaller reads OFX documents into registered schema types.
type Unmarshaller struct {
	cfg *config
}

func NewUnmarshaller(opts ...Option) *Unmarshaller {
	return &Unmarshaller{cfg: newConfig(opts)}
}

// Unmarshal is a convenience wrapper around Unmarshaller.Unmarshal.
func Unmarshal[T any](data []byte, opts ...Option) (*T, error) {
	v, err := NewUnmarshaller(opts...).Unmarshal(bytes.NewReader(data), schema.TypeFor[T]())
	if err != nil {
		return nil, err
	}
	res, ok := v.(*T)
	if !ok {
		return nil, &UnmarshalError{Message: fmt.Sprintf("allocated %T, want %T", v, res)}
	}
	return res, nil
}

// Unmarshal reads one document from r and returns a new instance of the
// type id, which must be a registered aggregate. Nothing is returned on
// error.
func (u *Unmarshaller) Unmarshal(r io.Reader, id schema.TypeID) (any, error) {
	m, err := u.cfg.reg.Resolve(id)
	if err != nil {
		return nil, err
	}
	if m.New == nil || m.Name == "" {
		return nil, &schema.SchemaError{Type: id, Message: "not a registered aggregate"}
	}
	dec, err := stream.NewDecoder(r, u.cfg.streamOpts()...)
	if err != nil {
		return nil, err
	}
	run := &unmarshalRun{cfg: u.cfg, dec: dec}
	if !u.cfg.noHint {
		dec.SetNestHint(run.hint)
	}
	hs, err := dec.ReadHeaders()
	if err != nil {
		return nil, err
	}
	root := m.New()
	if err := run.headers(root, m, hs); err != nil {
		return nil, err
	}
	ev, err := dec.ReadEvent()
	if err != nil {
		if err == io.EOF {
			return nil, &UnmarshalError{Message: "no root aggregate", Err: io.ErrUnexpectedEOF}
		}
		return nil, err
	}
	if ev.Type == stream.EventEndAggregate || !run.eq(ev.Name, m.Name) {
		return nil, &UnexpectedElementError{Aggregate: m.Name, Name: ev.Name, Pos: ev.Pos}
	}
	if ev.Type == stream.EventLeaf {
		err = run.empty(m, ev.Name)
	} else {
		err = run.aggregate(root, m, ev.Name)
	}
	if err != nil {
		return nil, err
	}
	if ev, err := dec.ReadEvent(); err != io.EOF {
		if err != nil {
			return nil, err
		}
		return nil, token.UnexpectedErr(ev.Name+" after root", ev.Pos)
	}
	return root, nil
}

type frame struct {
	meta  *schema.Metadata
	depth int
}

type unmarshalRun struct {
	cfg    *config
	dec    *stream.Decoder
	frames []frame
}

func (u *unmarshalRun) eq(a, b string) bool {
	if u.cfg.fold {
		return strings.EqualFold(a, b)
	}
	return a == b
}

// hint tells the decoder how many unclosed aggregates to end before child
// is placed: up to the nearest enclosing aggregate whose schema accepts it.
func (u *unmarshalRun) hint(open []string, child string) int {
	if len(u.frames) == 0 {
		return 0
	}
	top := u.frames[len(u.frames)-1]
	// inside content being skipped
	if top.depth != len(open) {
		return 0
	}
	if top.meta.Accepts(child, u.cfg.fold) {
		return 0
	}
	for i := len(u.frames) - 2; i >= 0; i-- {
		f := u.frames[i]
		if f.meta.Accepts(child, u.cfg.fold) {
			return len(open) - f.depth
		}
	}
	return 0
}

func (u *unmarshalRun) headers(root any, m *schema.Metadata, hs []token.Header) error {
	seen := map[*schema.Descriptor]bool{}
	for _, h := range hs {
		d := m.Header(h.Name, u.cfg.fold)
		if d == nil || h.Value == "" || (d.Absent != "" && strings.EqualFold(h.Value, d.Absent)) {
			continue
		}
		if err := d.Write(root, h.Value); err != nil {
			return &UnmarshalError{FieldPath: "header " + d.Name, Message: err.Error(), Err: err}
		}
		seen[d] = true
	}
	var missing []string
	for _, d := range m.Headers {
		if d.Required && !seen[d] {
			missing = append(missing, d.Name)
		}
	}
	if len(missing) != 0 {
		return &ValidationError{Aggregate: m.Name, Fields: missing}
	}
	return nil
}

// aggregate fills obj from events up to the end of the aggregate whose
// start was just read.
func (u *unmarshalRun) aggregate(obj any, m *schema.Metadata, name string) error {
	u.frames = append(u.frames, frame{meta: m, depth: u.dec.Depth()})
	defer func() { u.frames = u.frames[:len(u.frames)-1] }()

	path := u.dec.Path()
	if debug.Unmarshal() {
		debug.Logf("unmarshal %s into %s\n", path, m.Type)
	}
	seen := map[*schema.Descriptor]bool{}
	cursor := 0
	for {
		ev, err := u.dec.ReadEvent()
		if err != nil {
			if err == io.EOF {
				return &UnmarshalError{FieldPath: path, Message: "unterminated aggregate", Err: io.ErrUnexpectedEOF}
			}
			return err
		}
		if ev.Type == stream.EventEndAggregate {
			break
		}
		i := m.Match(ev.Name, cursor, u.cfg.fold)
		if i < 0 {
			if err := u.unexpected(path, ev, "no matching field"); err != nil {
				return err
			}
			continue
		}
		d := m.Fields[i]
		if d.IsCollection() {
			cursor = i
		} else {
			cursor = i + 1
		}
		switch d.Role {
		case schema.RoleElement:
			if ev.Type == stream.EventStartAggregate {
				if err := u.unexpected(path, ev, "aggregate where element expected"); err != nil {
					return err
				}
				continue
			}
			if ev.Text == "" {
				continue
			}
			if err := d.Write(obj, ev.Text); err != nil {
				return &UnmarshalError{FieldPath: path + "/" + ev.Name, Message: err.Error(), Err: err}
			}
			seen[d] = true
		case schema.RoleChild:
			if ev.Type == stream.EventLeaf && ev.Text != "" {
				if err := u.unexpected(path, ev, "text where aggregate expected"); err != nil {
					return err
				}
				continue
			}
			child, err := u.child(d, ev)
			if err != nil {
				return err
			}
			if err := d.Write(obj, child); err != nil {
				return &UnmarshalError{FieldPath: path + "/" + ev.Name, Message: err.Error(), Err: err}
			}
			seen[d] = true
		}
	}
	return validate(m, name, seen)
}

func (u *unmarshalRun) child(d *schema.Descriptor, ev *stream.Event) (any, error) {
	reg := u.cfg.reg
	id, ok := reg.EntryType(d, ev.Name, u.cfg.fold)
	if !ok {
		return nil, &schema.SchemaError{Message: fmt.Sprintf("no type for child %s", ev.Name)}
	}
	cm, err := reg.Resolve(id)
	if err != nil {
		return nil, err
	}
	if cm.New == nil {
		return nil, &schema.SchemaError{Type: id, Message: "no allocator"}
	}
	child := cm.New()
	if ev.Type == stream.EventLeaf {
		err = u.empty(cm, ev.Name)
	} else {
		err = u.aggregate(child, cm, ev.Name)
	}
	if err != nil {
		return nil, err
	}
	return child, nil
}

// empty handles an aggregate written with no content, as in <A></A>.
func (u *unmarshalRun) empty(m *schema.Metadata, name string) error {
	if debug.Unmarshal() {
		debug.Logf("unmarshal empty %s into %s\n", name, m.Type)
	}
	return validate(m, name, nil)
}

func (u *unmarshalRun) unexpected(agg string, ev *stream.Event, reason string) error {
	if u.cfg.strict {
		return &UnexpectedElementError{Aggregate: agg, Name: ev.Name, Pos: ev.Pos}
	}
	u.cfg.logger.Warn("dropping element",
		zap.String("tag", ev.Name),
		zap.String("aggregate", agg),
		zap.String("reason", reason),
		zap.Int("line", ev.Pos.Line()))
	if ev.Type == stream.EventStartAggregate {
		return u.dec.Skip()
	}
	return nil
}

func validate(m *schema.Metadata, name string, seen map[*schema.Descriptor]bool) error {
	var missing []string
	for _, d := range m.Fields {
		if d.Required && !seen[d] {
			missing = append(missing, fieldName(d))
		}
	}
	if len(missing) != 0 {
		return &ValidationError{Aggregate: name, Fields: missing}
	}
	return nil
}

func fieldName(d *schema.Descriptor) string {
	if d.Name != "" {
		return d.Name
	}
	return d.Type.String()
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
