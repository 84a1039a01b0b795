package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-ofx/domain/envelope"
	"github.com/signadot/go-ofx/format"
	"github.com/signadot/go-ofx/gomap"
)

func ofxMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
		if cfg.logger != nil {
			cfg.logger.Sync()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

// input is one document read from a file or stdin.
type input struct {
	name string
	data []byte
}

func (in *input) dialect() format.Dialect {
	return format.Detect(in.data)
}

func readInput(cc *cli.Context, path string) (*input, error) {
	var r io.Reader
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("could not open %q: %w", path, err)
		}
		defer f.Close()
		r = f
	} else {
		r = cc.In
	}
	d, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}
	return &input{name: path, data: d}, nil
}

// readInputs reads every file in args, or stdin without args.
func readInputs(cc *cli.Context, args []string) ([]*input, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}
	res := make([]*input, 0, len(args))
	for _, a := range args {
		in, err := readInput(cc, a)
		if err != nil {
			return nil, err
		}
		res = append(res, in)
	}
	return res, nil
}

var requestMarker = []byte("SIGNONMSGSRQV1")

// isRequest reports whether in holds a request envelope. Requests and
// responses share the OFX root, so the signon message set decides.
func (in *input) isRequest() bool {
	return bytes.Contains(bytes.ToUpper(in.data), requestMarker)
}

// envelope reads in as a request or response envelope.
func (in *input) envelope(cfg *MainConfig) (any, error) {
	opts := append(cfg.mapOpts(), gomap.WithDialect(in.dialect()))
	var (
		v   any
		err error
	)
	if in.isRequest() {
		v, err = gomap.Unmarshal[envelope.RequestEnvelope](in.data, opts...)
	} else {
		v, err = gomap.Unmarshal[envelope.ResponseEnvelope](in.data, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("error decoding %s: %w", in.name, err)
	}
	return v, nil
}

func separate(w io.Writer, i, n int) error {
	if i == n-1 {
		return nil
	}
	_, err := w.Write([]byte("\n"))
	return err
}
