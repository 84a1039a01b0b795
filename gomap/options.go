package gomap

import (
	"go.uber.org/zap"

	"github.com/signadot/go-ofx/format"
	"github.com/signadot/go-ofx/schema"
	"github.com/signadot/go-ofx/stream"
)

// Option configures a Marshaller or Unmarshaller.
type Option func(*config)

type config struct {
	strict    bool
	logger    *zap.Logger
	reg       *schema.Registry
	dialect   format.Dialect
	fold      bool
	keepSpace bool
	noHint    bool
	newlines  bool
}

func newConfig(opts []Option) *config {
	cfg := &config{
		logger: zap.NewNop(),
		reg:    schema.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Strict makes the unmarshaller fail with UnexpectedElementError on tags
// that match no remaining descriptor.
func Strict() Option {
	return func(c *config) { c.strict = true }
}

// Lenient makes the unmarshaller drop unmatched tags, logging a warning.
// This is the default.
func Lenient() Option {
	return func(c *config) { c.strict = false }
}

// WithLogger sets the logger for dropped-tag warnings.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l == nil {
			l = zap.NewNop()
		}
		c.logger = l
	}
}

// WithRegistry uses r instead of schema.Default().
func WithRegistry(r *schema.Registry) Option {
	return func(c *config) { c.reg = r }
}

// WithDialect selects the wire dialect. The default is format.V1.
func WithDialect(d format.Dialect) Option {
	return func(c *config) { c.dialect = d }
}

// FoldCase matches tag and header names case-insensitively.
func FoldCase(v bool) Option {
	return func(c *config) { c.fold = v }
}

// KeepSpace preserves whitespace around leaf text.
func KeepSpace() Option {
	return func(c *config) { c.keepSpace = true }
}

// NoNestHint stops the unmarshaller from using the schema to decide where
// unclosed aggregates end in the SGML dialect. Only explicit end tags then
// close aggregates.
func NoNestHint() Option {
	return func(c *config) { c.noHint = true }
}

// WithNewlines makes the marshaller put a line break after every tag.
func WithNewlines() Option {
	return func(c *config) { c.newlines = true }
}

func (c *config) streamOpts() []stream.StreamOption {
	res := []stream.StreamOption{
		stream.WithDialect(c.dialect),
		stream.FoldCase(c.fold),
	}
	if c.keepSpace {
		res = append(res, stream.KeepSpace())
	}
	if c.newlines {
		res = append(res, stream.WithNewlines())
	}
	return res
}
