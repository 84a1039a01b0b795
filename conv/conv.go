// Package conv converts between OFX leaf text and Go values.
//
// A leaf is present when its encoded text is non-empty: the zero value of
// a string or enumerated type, and a nil pointer, encode to "" and are
// omitted on output.
package conv

import (
	"encoding"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Kind classifies leaf values.
type Kind int

const (
	String Kind = iota
	Number
	Integer
	Boolean
	Date
	Enumerated
)

func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Number:
		return "number"
	case Integer:
		return "integer"
	case Boolean:
		return "boolean"
	case Date:
		return "date"
	case Enumerated:
		return "enumerated"
	default:
		return "unknown"
	}
}

var ErrUnsupported = errors.New("unsupported leaf type")

// ConversionError reports leaf text that could not be converted to its
// target type.
type ConversionError struct {
	Text   string
	Target string
	Err    error
}

func (e *ConversionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot convert %q to %s: %v", e.Text, e.Target, e.Err)
	}
	return fmt.Sprintf("cannot convert %q to %s", e.Text, e.Target)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

// Codec encodes and decodes one Go leaf type.
type Codec[V any] struct {
	Kind Kind
	// Name is the Go type name, used in error messages and for enumerated
	// types.
	Name   string
	Encode func(V) (string, error)
	Decode func(string) (V, error)
}

// For returns the codec for V. Supported types are string, float64,
// *float64, int, int64, *int, bool, *bool, time.Time, *time.Time, and
// types whose value implements encoding.TextMarshaler and whose pointer
// implements encoding.TextUnmarshaler.
func For[V any]() (Codec[V], error) {
	name := reflect.TypeFor[V]().String()
	var c any
	switch any((*V)(nil)).(type) {
	case *string:
		c = Codec[string]{Kind: String, Encode: encodeString, Decode: decodeString}
	case *float64:
		c = Codec[float64]{Kind: Number, Encode: encodeNoErr(FormatNumber), Decode: ParseNumber}
	case **float64:
		c = Codec[*float64]{Kind: Number, Encode: encodePtr(FormatNumber), Decode: decodePtr(ParseNumber)}
	case *int:
		c = Codec[int]{Kind: Integer, Encode: encodeNoErr(strconv.Itoa), Decode: ParseInt}
	case *int64:
		c = Codec[int64]{Kind: Integer, Encode: encodeNoErr(formatInt64), Decode: parseInt64}
	case **int:
		c = Codec[*int]{Kind: Integer, Encode: encodePtr(strconv.Itoa), Decode: decodePtr(ParseInt)}
	case *bool:
		c = Codec[bool]{Kind: Boolean, Encode: encodeNoErr(FormatBool), Decode: ParseBool}
	case **bool:
		c = Codec[*bool]{Kind: Boolean, Encode: encodePtr(FormatBool), Decode: decodePtr(ParseBool)}
	case *time.Time:
		c = Codec[time.Time]{Kind: Date, Encode: encodeTime, Decode: ParseDate}
	case **time.Time:
		c = Codec[*time.Time]{Kind: Date, Encode: encodeTimePtr, Decode: decodePtr(ParseDate)}
	default:
		return enumCodec[V](name)
	}
	res := c.(Codec[V])
	res.Name = name
	return res, nil
}

// MustFor is like For but panics on unsupported types. It is meant for
// registration code run at init.
func MustFor[V any]() Codec[V] {
	c, err := For[V]()
	if err != nil {
		panic(err)
	}
	return c
}

func enumCodec[V any](name string) (Codec[V], error) {
	var zero V
	if _, ok := any(zero).(encoding.TextMarshaler); !ok {
		return Codec[V]{}, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	if _, ok := any(&zero).(encoding.TextUnmarshaler); !ok {
		return Codec[V]{}, fmt.Errorf("%w: %s does not implement encoding.TextUnmarshaler", ErrUnsupported, name)
	}
	return Codec[V]{
		Kind: Enumerated,
		Name: name,
		Encode: func(v V) (string, error) {
			b, err := any(v).(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return "", err
			}
			return string(b), nil
		},
		Decode: func(s string) (V, error) {
			var v V
			if err := any(&v).(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
				return v, &ConversionError{Text: s, Target: name, Err: err}
			}
			return v, nil
		},
	}, nil
}

func encodeString(s string) (string, error) { return s, nil }
func decodeString(s string) (string, error) { return s, nil }

func encodeNoErr[V any](f func(V) string) func(V) (string, error) {
	return func(v V) (string, error) { return f(v), nil }
}

func encodePtr[V any](f func(V) string) func(*V) (string, error) {
	return func(v *V) (string, error) {
		if v == nil {
			return "", nil
		}
		return f(*v), nil
	}
}

func decodePtr[V any](f func(string) (V, error)) func(string) (*V, error) {
	return func(s string) (*V, error) {
		v, err := f(s)
		if err != nil {
			return nil, err
		}
		return &v, nil
	}
}

func encodeTime(t time.Time) (string, error) {
	if t.IsZero() {
		return "", nil
	}
	return FormatDate(t), nil
}

func encodeTimePtr(t *time.Time) (string, error) {
	if t == nil {
		return "", nil
	}
	return FormatDate(*t), nil
}

// FormatNumber uses the shortest representation with '.' as the decimal
// point.
func FormatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func ParseNumber(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, &ConversionError{Text: s, Target: Number.String(), Err: unwrapNum(err)}
	}
	return f, nil
}

func ParseInt(s string) (int, error) {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &ConversionError{Text: s, Target: Integer.String(), Err: unwrapNum(err)}
	}
	return i, nil
}

func formatInt64(i int64) string {
	return strconv.FormatInt(i, 10)
}

func parseInt64(s string) (int64, error) {
	i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, &ConversionError{Text: s, Target: Integer.String(), Err: unwrapNum(err)}
	}
	return i, nil
}

func unwrapNum(err error) error {
	var ne *strconv.NumError
	if errors.As(err, &ne) {
		return ne.Err
	}
	return err
}

func FormatBool(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

func ParseBool(s string) (bool, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y", "YES", "TRUE", "1":
		return true, nil
	case "N", "NO", "FALSE", "0":
		return false, nil
	}
	return false, &ConversionError{Text: s, Target: Boolean.String()}
}
