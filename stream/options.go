package stream

import (
	"strings"

	"github.com/signadot/go-ofx/format"
)

// StreamOption configures Decoder and Writer behavior.
type StreamOption func(*streamOpts)

type streamOpts struct {
	dialect   format.Dialect
	nestHint  NestHint
	foldCase  bool
	keepSpace bool
	newlines  bool
	colors    bool
	indent    string
}

// NestHint tells the permissive decoder how many open aggregates to close
// before child can be placed. open lists the open aggregate names from the
// root down. Returning 0 nests child under the innermost open aggregate.
type NestHint func(open []string, child string) int

// WithDialect selects the body grammar. The default is format.V1.
func WithDialect(d format.Dialect) StreamOption {
	return func(opts *streamOpts) {
		opts.dialect = d
	}
}

// WithNestHint installs h for the permissive dialect. It is ignored by the
// strict dialect, where every tag is closed explicitly.
func WithNestHint(h NestHint) StreamOption {
	return func(opts *streamOpts) {
		opts.nestHint = h
	}
}

// FoldCase makes tag name comparisons case-insensitive.
func FoldCase(v bool) StreamOption {
	return func(opts *streamOpts) {
		opts.foldCase = v
	}
}

// KeepSpace preserves surrounding whitespace in leaf text.
func KeepSpace() StreamOption {
	return func(opts *streamOpts) {
		opts.keepSpace = true
	}
}

// WithNewlines makes writers emit a line break after every tag.
func WithNewlines() StreamOption {
	return func(opts *streamOpts) {
		opts.newlines = true
	}
}

// WithColors enables colored output in the PrettyWriter.
func WithColors(v bool) StreamOption {
	return func(opts *streamOpts) {
		opts.colors = v
	}
}

// WithIndent sets the PrettyWriter indentation unit.
func WithIndent(s string) StreamOption {
	return func(opts *streamOpts) {
		opts.indent = s
	}
}

func buildOpts(opts []StreamOption) *streamOpts {
	res := &streamOpts{indent: "  "}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

func (o *streamOpts) eq(a, b string) bool {
	if o.foldCase {
		return strings.EqualFold(a, b)
	}
	return a == b
}
