package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-ofx/client"
	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/domain/investment"
	"github.com/signadot/go-ofx/gomap"
	"github.com/signadot/go-ofx/stream"
)

func fi(cfg *FIConfig, cc *cli.Context, args []string) error {
	args, err := cfg.FI.Parse(cc, args)
	if err != nil {
		return err
	}
	store, err := cfg.store()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		tw := tabwriter.NewWriter(cc.Out, 0, 8, 2, ' ', 0)
		for _, d := range store.List() {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", d.ID, d.Name, d.URL)
		}
		return tw.Flush()
	}
	for _, id := range args {
		d, err := store.Get(id)
		if err != nil {
			return err
		}
		fmt.Fprintf(cc.Out, "id:      %s\nname:    %s\norg:     %s\nfid:     %s\nurl:     %s\nversion: %s\n",
			d.ID, d.Name, d.Organization, d.FID, d.URL, d.OFXVersion)
	}
	return nil
}

// service returns a client for the institution id of the data store.
func (cfg *MainConfig) service(id string) (*client.Service, error) {
	store, err := cfg.store()
	if err != nil {
		return nil, err
	}
	data, err := store.Get(id)
	if err != nil {
		return nil, err
	}
	conn := client.NewHTTPConnection(
		client.WithConnLogger(cfg.Logger()),
		client.WithRequestDialect(data.OFXVersion),
		client.WithMapOptions(cfg.mapOpts()...))
	return client.NewService(data, conn, client.WithLogger(cfg.Logger())), nil
}

// render writes v as an indented tree.
func (cfg *MainConfig) render(w io.Writer, v any) error {
	m := gomap.NewMarshaller(gomap.WithLogger(cfg.Logger()))
	return m.Marshal(v, stream.NewPrettyWriter(w, stream.WithColors(cfg.colors(w))))
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func profile(cfg *ProfileConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Profile.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: profile requires an institution id", cli.ErrUsage)
	}
	svc, err := cfg.service(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()
	p, err := svc.Profile(ctx)
	if err != nil {
		return err
	}
	return cfg.render(cc.Out, p)
}

func statement(cfg *StatementConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Statement.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: statement requires an institution id", cli.ErrUsage)
	}
	if cfg.User == "" || cfg.Account == "" {
		return fmt.Errorf("%w: statement requires -u and -acct", cli.ErrUsage)
	}
	password := cfg.Password
	if password == "" {
		password = os.Getenv("OFX_PASSWORD")
	}
	end := cfg.End
	if end.IsZero() {
		end = time.Now()
	}
	start := cfg.Start
	if start.IsZero() {
		start = end.AddDate(0, 0, -cfg.Days)
	}
	svc, err := cfg.service(args[0])
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	var (
		v    any
		txns []*common.Transaction
	)
	switch cfg.Kind {
	case "bank":
		if cfg.BankID == "" {
			return fmt.Errorf("%w: bank statements require -bank", cli.ErrUsage)
		}
		acct := &common.BankAccountDetails{BankID: cfg.BankID, AccountID: cfg.Account}
		if err := acct.AccountType.UnmarshalText([]byte(cfg.Type)); err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		st, err := svc.BankStatement(ctx, cfg.User, password, acct, start, end)
		if err != nil {
			return err
		}
		v, txns = st, st.Transactions()
	case "cc":
		acct := &common.CreditCardAccountDetails{AccountID: cfg.Account}
		st, err := svc.CreditCardStatement(ctx, cfg.User, password, acct, start, end)
		if err != nil {
			return err
		}
		v, txns = st, st.Transactions()
	case "inv":
		if cfg.Broker == "" {
			return fmt.Errorf("%w: investment statements require -broker", cli.ErrUsage)
		}
		acct := &investment.AccountDetails{BrokerID: cfg.Broker, AccountID: cfg.Account}
		st, err := svc.InvestmentStatement(ctx, cfg.User, password, acct, start, end)
		if err != nil {
			return err
		}
		v = st
	default:
		return fmt.Errorf("%w: unknown statement kind %q", cli.ErrUsage, cfg.Kind)
	}

	if cfg.Filter == "" {
		return cfg.render(cc.Out, v)
	}
	if txns == nil && cfg.Kind == "inv" {
		return fmt.Errorf("%w: -e applies to bank and credit card statements", cli.ErrUsage)
	}
	matched, err := client.FilterTransactions(txns, cfg.Filter)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cc.Out, 0, 8, 2, ' ', 0)
	for _, t := range matched {
		writeTransaction(tw, t)
	}
	return tw.Flush()
}
