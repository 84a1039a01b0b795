package stream

import (
	"errors"
	"fmt"
	"strings"
)

// State tracks the stack of open aggregates for a sequence of events.
// It is shared by the Decoder, which uses it to resolve end tags, and by
// the writers, which use it to reject unbalanced output.
type State struct {
	stack   []string
	headers bool
	body    bool
	done    bool
}

// NewState creates a new State for tracking structure state.
func NewState() *State {
	return &State{}
}

// ProcessHeaders records that the header block was written. Headers must
// come first and at most once.
func (s *State) ProcessHeaders() error {
	if s.headers {
		return errors.New("headers already written")
	}
	if s.body {
		return errors.New("headers after body")
	}
	s.headers = true
	return nil
}

// ProcessEvent processes an event and updates the open aggregate stack.
// Call this for each event in order.
func (s *State) ProcessEvent(event *Event) error {
	if s.done {
		return fmt.Errorf("%s %s after root aggregate closed", event.Type, event.Name)
	}
	switch event.Type {
	case EventStartAggregate:
		s.body = true
		s.stack = append(s.stack, event.Name)
	case EventEndAggregate:
		if len(s.stack) == 0 {
			return fmt.Errorf("end of %s with no open aggregate", event.Name)
		}
		top := s.stack[len(s.stack)-1]
		if top != event.Name {
			return fmt.Errorf("end of %s while %s is open", event.Name, top)
		}
		s.stack = s.stack[:len(s.stack)-1]
		if len(s.stack) == 0 {
			s.done = true
		}
	case EventLeaf:
		if len(s.stack) == 0 {
			return fmt.Errorf("element %s outside of an aggregate", event.Name)
		}
	default:
		return fmt.Errorf("unknown event type %d", event.Type)
	}
	return nil
}

// Depth returns the current nesting depth (0 = top level).
func (s *State) Depth() int {
	return len(s.stack)
}

// Open returns the names of the open aggregates from the root down.
// The result must not be modified.
func (s *State) Open() []string {
	return s.stack
}

// Top returns the innermost open aggregate.
func (s *State) Top() (string, bool) {
	if len(s.stack) == 0 {
		return "", false
	}
	return s.stack[len(s.stack)-1], true
}

// CurrentPath returns the open aggregates joined by '/', e.g. "OFX/SIGNONMSGSRSV1".
func (s *State) CurrentPath() string {
	return strings.Join(s.stack, "/")
}

// Done reports whether the root aggregate has been closed.
func (s *State) Done() bool {
	return s.done
}
