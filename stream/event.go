package stream

import (
	"fmt"

	"github.com/signadot/go-ofx/token"
)

// Event represents a structural event from the decoder.
// Events correspond to the Writer's methods, so a decoded document can be
// replayed into any Writer.
type Event struct {
	Type EventType

	// Name is the tag name of the aggregate or leaf element.
	Name string

	// Text is the decoded value of a Leaf.
	Text string

	// Pos is the position of the tag that produced the event, nil for
	// synthesized events.
	Pos *token.Pos

	// Synthetic marks an EndAggregate that had no explicit end tag.
	Synthetic bool
}

func (e *Event) String() string {
	switch e.Type {
	case EventLeaf:
		return fmt.Sprintf("%s %s=%q", e.Type, e.Name, e.Text)
	case EventEndAggregate:
		if e.Synthetic {
			return fmt.Sprintf("%s %s (implicit)", e.Type, e.Name)
		}
	}
	return fmt.Sprintf("%s %s", e.Type, e.Name)
}

// EventType represents the type of a structural event.
type EventType int

const (
	EventStartAggregate EventType = iota
	EventEndAggregate
	EventLeaf
)

func (t EventType) String() string {
	switch t {
	case EventStartAggregate:
		return "StartAggregate"
	case EventEndAggregate:
		return "EndAggregate"
	case EventLeaf:
		return "Leaf"
	default:
		return "Unknown"
	}
}

func (t EventType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *EventType) UnmarshalText(d []byte) error {
	k := string(d)
	pt, ok := map[string]EventType{
		"StartAggregate": EventStartAggregate,
		"EndAggregate":   EventEndAggregate,
		"Leaf":           EventLeaf,
	}[k]
	if ok {
		*t = pt
		return nil
	}
	return fmt.Errorf("unknown type %q", k)
}

// Replay writes ev to w.
func Replay(w Writer, ev *Event) error {
	switch ev.Type {
	case EventStartAggregate:
		return w.WriteStartAggregate(ev.Name)
	case EventEndAggregate:
		return w.WriteEndAggregate(ev.Name)
	case EventLeaf:
		return w.WriteElement(ev.Name, ev.Text)
	default:
		return &Error{Msg: fmt.Sprintf("cannot replay event type %d", ev.Type)}
	}
}
