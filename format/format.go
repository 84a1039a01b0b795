// Package format names the two OFX wire dialects.
package format

import (
	"bytes"
	"errors"
	"fmt"
)

// Dialect selects the body grammar used by the tokenizer and writers.
type Dialect int

const (
	// V1 is the SGML dialect: leaf elements have no closing tag and the
	// header block is a list of NAME:VALUE lines.
	V1 Dialect = iota
	// V2 is the XML dialect: every tag is closed and headers live in
	// an <?OFX ...?> processing instruction.
	V2
)

var ErrBadDialect = errors.New("bad dialect")

func ParseDialect(v string) (Dialect, error) {
	d, ok := map[string]Dialect{
		"1":    V1,
		"v1":   V1,
		"sgml": V1,
		"2":    V2,
		"v2":   V2,
		"xml":  V2,
	}[v]
	if ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadDialect, v)
}

func (d Dialect) String() string {
	b, err := d.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(b)
}

func (d Dialect) MarshalText() ([]byte, error) {
	switch d {
	case V1:
		return []byte("v1"), nil
	case V2:
		return []byte("v2"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a dialect>", d)
	}
}

func (d *Dialect) UnmarshalText(b []byte) error {
	pd, err := ParseDialect(string(b))
	if err != nil {
		return err
	}
	*d = pd
	return nil
}

func (d Dialect) IsV1() bool { return d == V1 }
func (d Dialect) IsV2() bool { return d == V2 }

// Strict reports whether every tag in the body must be explicitly closed.
func (d Dialect) Strict() bool { return d == V2 }

// Suffix returns the conventional file extension for the dialect.
func (d Dialect) Suffix() string {
	switch d {
	case V2:
		return ".xml"
	default:
		return ".ofx"
	}
}

// AllDialects returns the supported dialects in preference order.
func AllDialects() []Dialect {
	return []Dialect{V1, V2}
}

// Detect guesses the dialect of a complete document by looking for an
// <?OFX processing instruction ahead of the root <OFX> element.
func Detect(doc []byte) Dialect {
	root := bytes.Index(doc, []byte("<OFX>"))
	if root < 0 {
		root = len(doc)
	}
	if bytes.Contains(doc[:root], []byte("<?OFX")) {
		return V2
	}
	return V1
}
