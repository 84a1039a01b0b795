package schema

// Metadata is the composed description of a schema type: its ancestors'
// descriptors followed by its own, each group sorted by order.
type Metadata struct {
	Type TypeID
	// Name is the aggregate name, empty for types that are only used as
	// bases or under explicitly named child descriptors.
	Name    string
	Headers []*Descriptor
	// Fields holds elements and children in wire order.
	Fields []*Descriptor
	Parent *Metadata
	// New allocates a zero instance, nil for types never registered
	// through the generic helpers or RegisterAggregate.
	New func() any

	reg *Registry
}

// Elements returns the element descriptors in wire order.
func (m *Metadata) Elements() []*Descriptor {
	return m.filter(RoleElement)
}

// Children returns the child descriptors in wire order.
func (m *Metadata) Children() []*Descriptor {
	return m.filter(RoleChild)
}

func (m *Metadata) filter(role Role) []*Descriptor {
	var res []*Descriptor
	for _, d := range m.Fields {
		if d.Role == role {
			res = append(res, d)
		}
	}
	return res
}

// Header returns the header descriptor with the given name.
func (m *Metadata) Header(name string, fold bool) *Descriptor {
	for _, d := range m.Headers {
		if nameEq(d.Name, name, fold) {
			return d
		}
	}
	return nil
}

// Match returns the index of the first field at or after from that
// accepts the tag name, or -1.
func (m *Metadata) Match(name string, from int, fold bool) int {
	for i := max(from, 0); i < len(m.Fields); i++ {
		if m.matches(m.Fields[i], name, fold) {
			return i
		}
	}
	return -1
}

// Accepts reports whether any field accepts the tag name.
func (m *Metadata) Accepts(name string, fold bool) bool {
	return m.Match(name, 0, fold) >= 0
}

func (m *Metadata) matches(d *Descriptor, name string, fold bool) bool {
	if d.Name != "" {
		return nameEq(d.Name, name, fold)
	}
	if d.Role != RoleChild || m.reg == nil {
		return false
	}
	_, ok := m.reg.EntryType(d, name, fold)
	return ok
}

// Registry returns the registry m was resolved from.
func (m *Metadata) Registry() *Registry {
	return m.reg
}
