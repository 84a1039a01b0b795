package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/go-ofx/stream"
	"github.com/signadot/go-ofx/token"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		return err
	}
	ins, err := readInputs(cc, args)
	if err != nil {
		return err
	}
	if cfg.Indent < 0 {
		return fmt.Errorf("%w: -indent must not be negative", cli.ErrUsage)
	}
	opts := []stream.StreamOption{
		stream.WithColors(cfg.colors(cc.Out)),
		stream.WithIndent(strings.Repeat(" ", cfg.Indent)),
	}
	for i, in := range ins {
		w := stream.NewPrettyWriter(cc.Out, opts...)
		if err := replay(cfg.MainConfig, in, w, nil); err != nil {
			return fmt.Errorf("error processing %s: %w", in.name, err)
		}
		if err := separate(cc.Out, i, len(ins)); err != nil {
			return err
		}
	}
	return nil
}

// replay copies the document in to w event by event. keep, when not nil,
// selects the headers passed on.
func replay(cfg *MainConfig, in *input, w stream.Writer, keep func(token.Header) bool) error {
	dec, err := stream.NewDecoder(bytes.NewReader(in.data), cfg.streamOpts(in.dialect())...)
	if err != nil {
		return err
	}
	hs, err := dec.ReadHeaders()
	if err != nil {
		return err
	}
	if keep != nil {
		var kept []token.Header
		for _, h := range hs {
			if keep(h) {
				kept = append(kept, h)
			}
		}
		hs = kept
	}
	if err := w.WriteHeaders(hs); err != nil {
		return err
	}
	for {
		ev, err := dec.ReadEvent()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if ev.Type == stream.EventLeaf && ev.Text == "" {
			cfg.Logger().Sugar().Warnf("%s: dropping empty element %s at %s", in.name, ev.Name, dec.Path())
			continue
		}
		if err := stream.Replay(w, ev); err != nil {
			return err
		}
	}
	return w.Flush()
}

func events(cfg *EventsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Events.Parse(cc, args)
	if err != nil {
		return err
	}
	ins, err := readInputs(cc, args)
	if err != nil {
		return err
	}
	for i, in := range ins {
		if err := listEvents(cfg.MainConfig, cc.Out, in); err != nil {
			return fmt.Errorf("error processing %s: %w", in.name, err)
		}
		if err := separate(cc.Out, i, len(ins)); err != nil {
			return err
		}
	}
	return nil
}

func listEvents(cfg *MainConfig, w io.Writer, in *input) error {
	d := in.dialect()
	dec, err := stream.NewDecoder(bytes.NewReader(in.data), cfg.streamOpts(d)...)
	if err != nil {
		return err
	}
	hs, err := dec.ReadHeaders()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# %s (%s)\n", in.name, d)
	for _, h := range hs {
		fmt.Fprintf(w, "Header %s=%q\n", h.Name, h.Value)
	}
	for {
		ev, err := dec.ReadEvent()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		pos := "-"
		if ev.Pos != nil {
			l, c := ev.Pos.LineCol()
			pos = fmt.Sprintf("%d:%d", l, c)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", pos, dec.Path(), ev)
	}
}
