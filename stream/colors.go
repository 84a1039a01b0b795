package stream

import (
	"strings"

	"github.com/fatih/color"
)

type ColorAttr int

const (
	HeaderColor ColorAttr = iota
	AggregateColor
	ElementColor
	ValueColor
	SepColor
)

type Colors struct {
	Default func(string, ...any) string
	Map     map[ColorAttr]func(string, ...any) string
}

func NewColors() *Colors {
	colors := &Colors{
		Default: colorDefault,
		Map:     map[ColorAttr]func(string, ...any) string{},
	}
	colors.Map[HeaderColor] = color.BlueString
	colors.Map[AggregateColor] = color.RGB(128, 168, 196).SprintfFunc()
	colors.Map[ElementColor] = color.RGB(196, 96, 16).SprintfFunc()
	colors.Map[ValueColor] = color.RGB(8, 196, 16).SprintfFunc()
	colors.Map[SepColor] = color.RGB(96, 96, 96).SprintfFunc()
	for k, f := range colors.Map {
		colors.Map[k] = func(v string, _ ...any) string {
			return f(strings.Replace(v, "%", "%%", -1))
		}
	}
	return colors
}

func colorDefault(v string, _ ...any) string { return v }

func (c *Colors) Color(a ColorAttr, s string) string {
	return c.Get(a)(s)
}

func (c *Colors) Get(a ColorAttr) func(string, ...any) string {
	if c == nil {
		return colorDefault
	}
	f := c.Map[a]
	if f == nil {
		return c.Default
	}
	return f
}
