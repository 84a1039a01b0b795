package main

import (
	"github.com/scott-cotton/cli"

	"github.com/signadot/go-ofx/format"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, &cli.Opt{
		Name:        "o",
		Description: "output file (default stdout)",
		Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
	})

	return cli.NewCommandAt(&cfg.Main, "ofx").
		WithSynopsis("ofx [opts] command [opts]").
		WithDescription("ofx reads, writes and fetches Open Financial Exchange documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return ofxMain(cfg, cc, args)
		}).
		WithSubs(
			ViewCommand(cfg),
			EventsCommand(cfg),
			ConvertCommand(cfg),
			DiffCommand(cfg),
			FilterCommand(cfg),
			FICommand(cfg),
			ProfileCommand(cfg),
			StatementCommand(cfg))
}

func ViewCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ViewConfig{MainConfig: mainCfg, Indent: 2}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.View, "view").
		WithAliases("v").
		WithSynopsis("view [files]").
		WithDescription("view OFX documents as an indented tree, in color on terminals").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return view(cfg, cc, args)
		})
}

func EventsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &EventsConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Events, "events").
		WithAliases("ev").
		WithSynopsis("events [files]").
		WithDescription("list the headers and structural events of OFX documents").
		WithRun(func(cc *cli.Context, args []string) error {
			return events(cfg, cc, args)
		})
}

func ConvertCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConvertConfig{MainConfig: mainCfg, Dialect: format.V2}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts, &cli.Opt{
		Name:        "O",
		Description: "output dialect: v1/sgml, v2/xml",
		Type:        cli.NamedFuncOpt(cfg.dialectOpt, "(dialect)"),
	})
	return cli.NewCommandAt(&cfg.Convert, "convert").
		WithAliases("c").
		WithSynopsis("convert [-O dialect] [-raw] [file]").
		WithDescription(convertDescription).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return convert(cfg, cc, args)
		})
}

const convertDescription = `convert rewrites an OFX document in another dialect.

By default the document is read into the request or response envelope and
written back, which drops unknown elements and puts everything in schema
order. With -raw the document is copied event by event; only the header
block is rewritten for the target dialect.`

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg, Context: 3}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff a b").
		WithDescription("compare two OFX documents after reading them into envelopes; exits 1 when they differ").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diff(cfg, cc, args)
		})
}

func FilterCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FilterConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Filter, "filter").
		WithAliases("f").
		WithSynopsis("filter -e expr [files]").
		WithDescription(`list statement transactions matching an expression, such as
  amount < 0 && posted >= date("20240101")`).
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return filter(cfg, cc, args)
		})
}

func FICommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FIConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.FI, "fi").
		WithSynopsis("fi [id]").
		WithDescription("list known institutions, or show one").
		WithRun(func(cc *cli.Context, args []string) error {
			return fi(cfg, cc, args)
		})
}

func ProfileCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ProfileConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Profile, "profile").
		WithSynopsis("profile <fi>").
		WithDescription("fetch the profile of an institution").
		WithRun(func(cc *cli.Context, args []string) error {
			return profile(cfg, cc, args)
		})
}

func StatementCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &StatementConfig{MainConfig: mainCfg, Kind: "bank", Type: "CHECKING", Days: 30}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts = append(opts,
		&cli.Opt{
			Name:        "start",
			Description: "first day (default -days ago)",
			Type:        cli.NamedFuncOpt(cfg.dateOpt(&cfg.Start), "(date)"),
		},
		&cli.Opt{
			Name:        "end",
			Description: "last day (default now)",
			Type:        cli.NamedFuncOpt(cfg.dateOpt(&cfg.End), "(date)"),
		})
	return cli.NewCommandAt(&cfg.Statement, "statement").
		WithAliases("st").
		WithSynopsis("statement -u user -acct id [opts] <fi>").
		WithDescription("download an account statement").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return statement(cfg, cc, args)
		})
}
