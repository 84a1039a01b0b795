package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/signadot/go-ofx/client"
	"github.com/signadot/go-ofx/conv"
	"github.com/signadot/go-ofx/format"
	"github.com/signadot/go-ofx/gomap"
	"github.com/signadot/go-ofx/stream"
)

type MainConfig struct {
	Color    bool   `cli:"name=color desc='render with color'"`
	Verbose  bool   `cli:"name=v desc='log debug output to stderr'"`
	Strict   bool   `cli:"name=strict desc='fail on unknown elements'"`
	FoldCase bool   `cli:"name=i desc='match tag names ignoring case'"`
	NoHint   bool   `cli:"name=nohint desc='only close SGML aggregates on explicit end tags'"`
	FIFile   string `cli:"name=fi-file desc='institution data file (default $OFX_FI_FILE)'"`

	Out      string
	CloseOut func() error

	Main   *cli.Command
	logger *zap.Logger
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) Logger() *zap.Logger {
	if cfg.logger != nil {
		return cfg.logger
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if cfg.Verbose {
		zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	l, err := zc.Build()
	if err != nil {
		l = zap.NewNop()
	}
	cfg.logger = l
	return l
}

func (cfg *MainConfig) mapOpts() []gomap.Option {
	res := []gomap.Option{
		gomap.WithLogger(cfg.Logger()),
		gomap.FoldCase(cfg.FoldCase),
	}
	if cfg.Strict {
		res = append(res, gomap.Strict())
	}
	if cfg.NoHint {
		res = append(res, gomap.NoNestHint())
	}
	return res
}

func (cfg *MainConfig) streamOpts(d format.Dialect) []stream.StreamOption {
	return []stream.StreamOption{
		stream.WithDialect(d),
		stream.FoldCase(cfg.FoldCase),
	}
}

// colors reports whether output to w is colored: -color when given,
// otherwise whether w is a terminal.
func (cfg *MainConfig) colors(w io.Writer) bool {
	for _, opt := range cfg.Main.Opts {
		if opt.Name == "color" && opt.Value != nil {
			return cfg.Color
		}
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) store() (*client.FileStore, error) {
	path := cfg.FIFile
	if path == "" {
		path = os.Getenv("OFX_FI_FILE")
	}
	if path == "" {
		return nil, fmt.Errorf("%w: no institution file, use -fi-file or $OFX_FI_FILE", cli.ErrUsage)
	}
	return client.OpenFileStore(path)
}

type ViewConfig struct {
	*MainConfig
	Indent int `cli:"name=indent desc='spaces per nesting level'"`

	View *cli.Command
}

type EventsConfig struct {
	*MainConfig
	Events *cli.Command
}

type ConvertConfig struct {
	*MainConfig
	Dialect  format.Dialect
	Newlines bool `cli:"name=n desc='break lines after every tag'"`
	Raw      bool `cli:"name=raw desc='convert tag by tag without the schema'"`

	Convert *cli.Command
}

func (cfg *ConvertConfig) dialectOpt(_ *cli.Context, a string) (any, error) {
	d, err := format.ParseDialect(a)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cfg.Dialect = d
	return d, nil
}

type DiffConfig struct {
	*MainConfig
	Context int `cli:"name=c desc='lines of context around changes'"`

	Diff *cli.Command
}

type FilterConfig struct {
	*MainConfig
	Expr string `cli:"name=e desc='filter expression over type posted amount fitid name memo checknum payee'"`

	Filter *cli.Command
}

type FIConfig struct {
	*MainConfig
	FI *cli.Command
}

type ProfileConfig struct {
	*MainConfig
	Profile *cli.Command
}

type StatementConfig struct {
	*MainConfig
	User     string `cli:"name=u desc='user id'"`
	Password string `cli:"name=p desc='password (default $OFX_PASSWORD)'"`
	Kind     string `cli:"name=kind desc='bank, cc or inv'"`
	BankID   string `cli:"name=bank desc='bank routing number'"`
	Account  string `cli:"name=acct desc='account id'"`
	Type     string `cli:"name=type desc='bank account type'"`
	Broker   string `cli:"name=broker desc='broker id'"`
	Days     int    `cli:"name=days desc='days of history'"`
	Start    time.Time
	End      time.Time
	Filter   string `cli:"name=e desc='only show transactions matching this expression'"`

	Statement *cli.Command
}

func (cfg *StatementConfig) dateOpt(dst *time.Time) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, a string) (any, error) {
		t, err := conv.ParseDate(a)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*dst = t
		return t, nil
	})
}
