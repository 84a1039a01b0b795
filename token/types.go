package token

import "fmt"

type TokenType int

const (
	TStartTag TokenType = iota
	TEndTag
	TSelfClose
	TText
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TStartTag:  "TStartTag",
		TEndTag:    "TEndTag",
		TSelfClose: "TSelfClose",
		TText:      "TText",
	}[t]
}

// Token is one body token. For tags Text holds the tag name; for
// TText it holds the decoded character data.
type Token struct {
	Type TokenType
	Pos  *Pos
	Text string
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

func (t *Token) String() string {
	switch t.Type {
	case TStartTag:
		return "<" + t.Text + ">"
	case TEndTag:
		return "</" + t.Text + ">"
	case TSelfClose:
		return "<" + t.Text + "/>"
	default:
		return t.Text
	}
}

// Header is one NAME:VALUE pair from the document preamble.
type Header struct {
	Name  string
	Value string
}
