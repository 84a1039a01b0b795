package stream

// Error reports misuse of a Writer or Decoder: headers written twice or
// after the body, unbalanced end tags, empty leaf values.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return "ofx stream: " + e.Msg
}
