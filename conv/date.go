package conv

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrDateTooShort = errors.New("date needs at least YYYYMMDD")
	ErrDateField    = errors.New("bad date field")
	ErrDateOffset   = errors.New("bad time zone offset")
)

// ParseDate parses YYYYMMDD[HHMM[SS[.fff]]][offset[:name]]. The offset is
// in hours and may be fractional ([-8:PST], [+5.5:IST]). Missing time
// fields are zero and a missing offset means UTC.
func ParseDate(s string) (time.Time, error) {
	t, err := parseDate(strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &ConversionError{Text: s, Target: Date.String(), Err: err}
	}
	return t, nil
}

func parseDate(s string) (time.Time, error) {
	loc := time.UTC
	if i := strings.IndexByte(s, '['); i >= 0 {
		l, err := parseZone(s[i:])
		if err != nil {
			return time.Time{}, err
		}
		loc = l
		s = strings.TrimSpace(s[:i])
	}
	var nanos int
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac := s[i+1:]
		s = s[:i]
		if frac != "" {
			if !digits(frac) {
				return time.Time{}, fmt.Errorf("%w: fraction %q", ErrDateField, frac)
			}
			if len(frac) > 9 {
				frac = frac[:9]
			}
			n, _ := strconv.Atoi(frac)
			nanos = n * int(math.Pow10(9-len(frac)))
		}
	}
	if len(s) < 8 {
		return time.Time{}, ErrDateTooShort
	}
	if !digits(s) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrDateField, s)
	}
	fields := []int{0, 0, 0, 0, 0, 0}
	limits := []struct{ lo, hi int }{{0, 9999}, {1, 12}, {1, 31}, {0, 23}, {0, 59}, {0, 60}}
	widths := []int{4, 2, 2, 2, 2, 2}
	off := 0
	for i, w := range widths {
		if off >= len(s) {
			break
		}
		if off+w > len(s) {
			return time.Time{}, fmt.Errorf("%w: truncated at %q", ErrDateField, s[off:])
		}
		v, _ := strconv.Atoi(s[off : off+w])
		if v < limits[i].lo || v > limits[i].hi {
			return time.Time{}, fmt.Errorf("%w: %q out of range", ErrDateField, s[off:off+w])
		}
		fields[i] = v
		off += w
	}
	if off < len(s) {
		return time.Time{}, fmt.Errorf("%w: trailing %q", ErrDateField, s[off:])
	}
	return time.Date(fields[0], time.Month(fields[1]), fields[2],
		fields[3], fields[4], fields[5], nanos, loc), nil
}

// parseZone parses "[offset[:name]]".
func parseZone(z string) (*time.Location, error) {
	if !strings.HasSuffix(z, "]") {
		return nil, fmt.Errorf("%w: %q", ErrDateOffset, z)
	}
	z = z[1 : len(z)-1]
	offText, name, _ := strings.Cut(z, ":")
	offText = strings.TrimSpace(offText)
	name = strings.TrimSpace(name)
	hours, err := strconv.ParseFloat(offText, 64)
	if err != nil || math.Abs(hours) > 14 {
		return nil, fmt.Errorf("%w: %q", ErrDateOffset, offText)
	}
	secs := int(math.Round(hours * 3600))
	if secs == 0 && (name == "" || name == "GMT" || name == "UTC") {
		return time.UTC, nil
	}
	return time.FixedZone(name, secs), nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// FormatDate renders t as YYYYMMDDHHMMSS.fff[offset:name] in t's own zone.
func FormatDate(t time.Time) string {
	name, secs := t.Zone()
	var b strings.Builder
	b.WriteString(t.Format("20060102150405"))
	fmt.Fprintf(&b, ".%03d", t.Nanosecond()/int(time.Millisecond))
	b.WriteByte('[')
	b.WriteString(formatOffset(secs))
	if secs == 0 && (name == "" || name == "UTC") {
		name = "GMT"
	}
	if name != "" && !strings.ContainsAny(name, ":]") {
		b.WriteByte(':')
		b.WriteString(name)
	}
	b.WriteByte(']')
	return b.String()
}

func formatOffset(secs int) string {
	if secs%3600 == 0 {
		return strconv.Itoa(secs / 3600)
	}
	return strconv.FormatFloat(float64(secs)/3600, 'f', -1, 64)
}
