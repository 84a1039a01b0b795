package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-ofx/gomap"
	"github.com/signadot/go-ofx/stream"
	"github.com/signadot/go-ofx/token"
)

func convert(cfg *ConvertConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Convert.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		return fmt.Errorf("%w: convert takes at most one file, got %v", cli.ErrUsage, args)
	}
	ins, err := readInputs(cc, args)
	if err != nil {
		return err
	}
	in := ins[0]
	if cfg.Raw {
		var sOpts []stream.StreamOption
		if cfg.Newlines {
			sOpts = append(sOpts, stream.WithNewlines())
		}
		w := stream.NewWriter(cc.Out, cfg.Dialect, sOpts...)
		if err := replay(cfg.MainConfig, in, w, envelopeHeader); err != nil {
			return fmt.Errorf("error converting %s: %w", in.name, err)
		}
		return nil
	}
	v, err := in.envelope(cfg.MainConfig)
	if err != nil {
		return err
	}
	var mOpts []gomap.Option
	if cfg.Newlines {
		mOpts = append(mOpts, gomap.WithNewlines())
	}
	if err := gomap.MarshalTo(cc.Out, v, cfg.Dialect, mOpts...); err != nil {
		return fmt.Errorf("error encoding %s: %w", in.name, err)
	}
	return nil
}

// envelopeHeader reports whether h carries over between dialects. The
// format headers (OFXHEADER, VERSION, DATA, ...) are the writer's to set.
func envelopeHeader(h token.Header) bool {
	switch strings.ToUpper(h.Name) {
	case "SECURITY", "OLDFILEUID", "NEWFILEUID":
		return true
	}
	return false
}
