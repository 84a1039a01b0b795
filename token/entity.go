package token

import (
	"strconv"
	"strings"
)

var entities = map[string]string{
	"amp":  "&",
	"lt":   "<",
	"gt":   ">",
	"quot": `"`,
	"apos": "'",
	"nbsp": " ",
}

// DecodeEntities replaces character references in s. Unknown or
// malformed references are kept verbatim, since SGML producers commonly
// emit a bare '&' in names such as "AT&T".
func DecodeEntities(s string) string {
	i := strings.IndexByte(s, '&')
	if i < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i >= 0 {
		b.WriteString(s[:i])
		s = s[i:]
		semi := strings.IndexByte(s, ';')
		if semi < 0 || semi > 10 {
			b.WriteByte('&')
			s = s[1:]
			i = strings.IndexByte(s, '&')
			continue
		}
		if r, ok := decodeRef(s[1:semi]); ok {
			b.WriteString(r)
			s = s[semi+1:]
		} else {
			b.WriteByte('&')
			s = s[1:]
		}
		i = strings.IndexByte(s, '&')
	}
	b.WriteString(s)
	return b.String()
}

func decodeRef(ref string) (string, bool) {
	if r, ok := entities[ref]; ok {
		return r, true
	}
	if len(ref) < 2 || ref[0] != '#' {
		return "", false
	}
	var (
		n   uint64
		err error
	)
	if ref[1] == 'x' || ref[1] == 'X' {
		n, err = strconv.ParseUint(ref[2:], 16, 32)
	} else {
		n, err = strconv.ParseUint(ref[1:], 10, 32)
	}
	if err != nil {
		return "", false
	}
	return string(rune(n)), true
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Escape encodes the characters that would otherwise be read as markup.
func Escape(s string) string {
	return escaper.Replace(s)
}
