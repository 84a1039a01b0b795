package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"github.com/signadot/go-ofx/format"
	"github.com/signadot/go-ofx/gomap"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires 2 args, got %v", cli.ErrUsage, args)
	}
	var texts [2]string
	for i, a := range args {
		in, err := readInput(cc, a)
		if err != nil {
			return err
		}
		texts[i], err = canonical(cfg.MainConfig, in)
		if err != nil {
			return err
		}
	}
	lines := lineDiff(texts[0], texts[1], cfg.Context)
	if lines == nil {
		return nil
	}
	fmt.Fprintf(cc.Out, "--- %s\n+++ %s\n", args[0], args[1])
	if err := writeDiff(cc.Out, lines, cfg.colors(cc.Out)); err != nil {
		return err
	}
	return cli.ExitCodeErr(1)
}

// canonical renders the envelope of in as SGML with one tag per line, so
// that documents differing only in dialect, spacing or element order
// render alike.
func canonical(cfg *MainConfig, in *input) (string, error) {
	v, err := in.envelope(cfg)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := gomap.MarshalTo(&buf, v, format.V1, gomap.WithNewlines()); err != nil {
		return "", fmt.Errorf("error encoding %s: %w", in.name, err)
	}
	return strings.ReplaceAll(buf.String(), "\r\n", "\n"), nil
}

type diffLine struct {
	op   diffpatch.Operation
	text string
}

// skipLine stands for unchanged lines left out of a diff.
const skipLine = "..."

// lineDiff compares a and b line by line and returns the changed lines with
// context unchanged lines around each change. It returns nil when a and b
// are equal.
func lineDiff(a, b string, context int) []diffLine {
	dmp := diffpatch.New()
	ca, cb, lineArray := dmp.DiffLinesToChars(a, b)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ca, cb, false), lineArray)

	var (
		res     []diffLine
		changed bool
	)
	for i, d := range diffs {
		lines := strings.SplitAfter(d.Text, "\n")
		if lines[len(lines)-1] == "" {
			lines = lines[:len(lines)-1]
		}
		if d.Type != diffpatch.DiffEqual {
			changed = true
			for _, l := range lines {
				res = append(res, diffLine{op: d.Type, text: l})
			}
			continue
		}
		head, tail := context, context
		if i == 0 {
			head = 0
		}
		if i == len(diffs)-1 {
			tail = 0
		}
		if head+tail >= len(lines) {
			for _, l := range lines {
				res = append(res, diffLine{op: diffpatch.DiffEqual, text: l})
			}
			continue
		}
		for _, l := range lines[:head] {
			res = append(res, diffLine{op: diffpatch.DiffEqual, text: l})
		}
		res = append(res, diffLine{op: diffpatch.DiffEqual, text: skipLine + "\n"})
		for _, l := range lines[len(lines)-tail:] {
			res = append(res, diffLine{op: diffpatch.DiffEqual, text: l})
		}
	}
	if !changed {
		return nil
	}
	return res
}

func writeDiff(w io.Writer, lines []diffLine, colored bool) error {
	del := color.New(color.FgRed)
	ins := color.New(color.FgGreen)
	if !colored {
		del.DisableColor()
		ins.DisableColor()
	}
	for _, l := range lines {
		var err error
		text := strings.TrimSuffix(l.text, "\n")
		switch l.op {
		case diffpatch.DiffDelete:
			_, err = del.Fprintln(w, "-"+text)
		case diffpatch.DiffInsert:
			_, err = ins.Fprintln(w, "+"+text)
		default:
			_, err = fmt.Fprintln(w, " "+text)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
