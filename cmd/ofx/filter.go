package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-ofx/client"
	"github.com/signadot/go-ofx/conv"
	"github.com/signadot/go-ofx/domain/common"
	"github.com/signadot/go-ofx/domain/envelope"
)

func filter(cfg *FilterConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Filter.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Expr == "" {
		return fmt.Errorf("%w: filter requires -e", cli.ErrUsage)
	}
	f, err := client.CompileFilter(cfg.Expr)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	ins, err := readInputs(cc, args)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(cc.Out, 0, 8, 2, ' ', 0)
	for _, in := range ins {
		v, err := in.envelope(cfg.MainConfig)
		if err != nil {
			return err
		}
		res, ok := v.(*envelope.ResponseEnvelope)
		if !ok {
			return fmt.Errorf("%s is a request, not a statement", in.name)
		}
		for _, txns := range statementTransactions(res) {
			for _, t := range txns {
				ok, err := f.Match(t)
				if err != nil {
					return err
				}
				if ok {
					writeTransaction(tw, t)
				}
			}
		}
	}
	return tw.Flush()
}

// statementTransactions returns the transaction lists of every bank and
// credit card statement in res.
func statementTransactions(res *envelope.ResponseEnvelope) [][]*common.Transaction {
	var all [][]*common.Transaction
	if set := res.Banking(); set != nil {
		for _, tx := range set.StatementResponses {
			if tx.Message != nil {
				all = append(all, tx.Message.Transactions())
			}
		}
	}
	if set := res.CreditCard(); set != nil {
		for _, tx := range set.StatementResponses {
			if tx.Message != nil {
				all = append(all, tx.Message.Transactions())
			}
		}
	}
	return all
}

func writeTransaction(w io.Writer, t *common.Transaction) {
	name := t.Name
	if name == "" && t.Payee != nil {
		name = t.Payee.Name
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
		t.DatePosted.Format(time.DateOnly), t.Type, conv.FormatNumber(t.Amount), t.ID, name, t.Memo)
}
