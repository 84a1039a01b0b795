// Package schema holds the registry that describes how Go types map to
// OFX aggregates.
//
// Schema packages register their types once, at init, with the generic
// helpers:
//
//	schema.Aggregate[Status](r, "STATUS", nil)
//	schema.Element(r, "CODE", 0, func(s *Status) *StatusCode { return &s.Code }, schema.Required())
//	schema.Element(r, "MESSAGE", 20, func(s *Status) *string { return &s.Message })
//
// Each helper binds a pointer-to-field accessor, so the marshaller and
// unmarshaller never inspect struct layout. A type extending another
// declares it with [Inherit]; its composed metadata lists the base
// type's fields first. [Registry.Resolve] composes and memoizes metadata
// on first use.
package schema
