// Package stream provides structural event decoding and encoding for OFX
// documents.
//
// A [Decoder] reads the header block and then a sequence of [Event]s:
// StartAggregate, Leaf and EndAggregate. A [Writer] accepts the same
// events and renders them in one of the two dialects ([V1Writer],
// [V2Writer]) or as an indented tree ([PrettyWriter]).
//
// # Example: Decoding
//
//	dec, err := stream.NewDecoder(r, stream.WithDialect(format.V1))
//	if err != nil {
//	    return err
//	}
//	headers, _ := dec.ReadHeaders()
//	ev, _ := dec.ReadEvent() // StartAggregate OFX
//	ev, _ = dec.ReadEvent()  // StartAggregate SIGNONMSGSRSV1
//
// # Implicit closes
//
// In the SGML dialect a leaf such as <CODE>0 has no end tag, and producers
// routinely leave aggregates open as well. The decoder holds each start
// tag until the next token arrives: text makes it a leaf, another start
// tag makes it an aggregate. An end tag naming an aggregate below the
// innermost one closes everything above it. A [NestHint], normally
// installed by the unmarshaller from its schema, closes aggregates when a
// start tag cannot nest under the innermost one.
//
// # Example: Encoding
//
//	w := stream.NewV2Writer(out)
//	w.WriteHeaders(nil)
//	w.WriteStartAggregate("OFX")
//	w.WriteElement("CODE", "0")
//	w.WriteEndAggregate("OFX")
//	w.Flush()
package stream
