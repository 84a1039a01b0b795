// Package gomap maps OFX documents to and from Go values described by a
// schema.Registry.
//
// # Usage
//
// Types are registered once, usually from an init function:
//
//	type Status struct {
//		Code     int
//		Severity Severity
//		Message  string
//	}
//
//	func init() {
//		r := schema.Default()
//		schema.Aggregate[Status](r, "STATUS", nil)
//		schema.Element(r, "CODE", 0, func(s *Status) *int { return &s.Code }, schema.Required())
//		schema.Element(r, "SEVERITY", 10, func(s *Status) *Severity { return &s.Severity }, schema.Required())
//		schema.Element(r, "MESSAGE", 20, func(s *Status) *string { return &s.Message })
//	}
//
// Then:
//
//	data, err := gomap.Marshal(doc, gomap.WithDialect(format.V2))
//	doc, err := gomap.Unmarshal[ResponseEnvelope](data, gomap.WithDialect(format.V1))
//
// # Reading
//
// Fields are matched by tag name moving forward through the schema order,
// so a repeated field accepts consecutive tags and an out of order tag is
// unknown. Unknown tags are dropped with a warning unless Strict is given.
// In the SGML dialect the schema also decides where unclosed aggregates end:
// a tag the current aggregate does not accept closes it when an enclosing
// aggregate does.
//
// Empty leaf text is treated as absent. Required fields are checked when
// each aggregate ends.
//
// # Writing
//
// Fields are written in schema order. Absent optional fields are omitted;
// absent required fields fail with a ValidationError before anything of
// their aggregate is written.
package gomap
