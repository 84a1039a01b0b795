package client

import (
	"fmt"
	"os"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/signadot/go-ofx/conv"
	"github.com/signadot/go-ofx/domain/common"
)

// TxEnv is the environment a transaction filter expression runs in.
type TxEnv struct {
	Type        string    `expr:"type"`
	Posted      time.Time `expr:"posted"`
	Amount      float64   `expr:"amount"`
	ID          string    `expr:"fitid"`
	Name        string    `expr:"name"`
	Memo        string    `expr:"memo"`
	CheckNumber string    `expr:"checknum"`
	Payee       string    `expr:"payee"`
}

func txEnv(t *common.Transaction) TxEnv {
	e := TxEnv{
		Type:        string(t.Type),
		Posted:      t.DatePosted,
		Amount:      t.Amount,
		ID:          t.ID,
		Name:        t.Name,
		Memo:        t.Memo,
		CheckNumber: t.CheckNumber,
	}
	if t.Payee != nil {
		e.Payee = t.Payee.Name
	}
	return e
}

func exprOpts() []expr.Option {
	return []expr.Option{
		expr.Env(TxEnv{}),
		expr.AsBool(),
		expr.Function("date", func(params ...any) (any, error) {
			return conv.ParseDate(params[0].(string))
		},
			new(func(string) time.Time)),
		expr.Function("getenv", func(params ...any) (any, error) {
			return os.Getenv(params[0].(string)), nil
		},
			new(func(string) string)),
	}
}

// Filter is a compiled transaction predicate such as
//
//	amount < 0 && posted >= date("20070301")
type Filter struct {
	src string
	prg *vm.Program
}

// CompileFilter compiles a boolean expression over TxEnv.
func CompileFilter(src string) (*Filter, error) {
	prg, err := expr.Compile(src, exprOpts()...)
	if err != nil {
		return nil, fmt.Errorf("filter %q: %w", src, err)
	}
	return &Filter{src: src, prg: prg}, nil
}

// Match reports whether t satisfies the filter.
func (f *Filter) Match(t *common.Transaction) (bool, error) {
	res, err := vm.Run(f.prg, txEnv(t))
	if err != nil {
		return false, fmt.Errorf("filter %q on %s: %w", f.src, t.ID, err)
	}
	ok, _ := res.(bool)
	return ok, nil
}

// FilterTransactions returns the transactions of txns matching expression,
// in their original order.
func FilterTransactions(txns []*common.Transaction, expression string) ([]*common.Transaction, error) {
	f, err := CompileFilter(expression)
	if err != nil {
		return nil, err
	}
	var res []*common.Transaction
	for _, t := range txns {
		ok, err := f.Match(t)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, t)
		}
	}
	return res, nil
}
