package linking

import "fmt"

// State is the client-observed lifecycle of one linking session. The
// widget runs on the client and holds the live state; the server only
// sees the event vocabulary through callbacks. This table documents
// which event orderings the widget can legally produce.
type State int

const (
	StateUninitialized State = iota
	StateTokenReady
	StateLinking
	StateLinked
	StateClosed
	StateError
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "UNINITIALIZED"
	case StateTokenReady:
		return "TOKEN_READY"
	case StateLinking:
		return "LINKING"
	case StateLinked:
		return "LINKED"
	case StateClosed:
		return "CLOSED"
	case StateError:
		return "ERROR"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event is a lifecycle signal from the token endpoint or the widget
type Event string

const (
	EventTokenIssued Event = "token_issued"
	EventOpened      Event = "opened"  // widget opened by the client
	EventSuccess     Event = "success" // widget reports a linked item
	EventClose       Event = "close"   // user aborted
	EventError       Event = "error"   // widget or completion failure
)

// Terminal reports whether the session is finished. LINKED and CLOSED end
// the session; ERROR does not, since a new token allows a retry.
func (s State) Terminal() bool {
	return s == StateLinked || s == StateClosed
}

// Next returns the state after applying event, or an error for
// transitions the lifecycle does not allow.
func Next(s State, event Event) (State, error) {
	switch event {
	case EventTokenIssued:
		if s == StateUninitialized || s == StateError {
			return StateTokenReady, nil
		}
	case EventOpened:
		if s == StateTokenReady {
			return StateLinking, nil
		}
	case EventSuccess:
		if s == StateLinking {
			return StateLinked, nil
		}
	case EventClose:
		if s == StateLinking {
			return StateClosed, nil
		}
	case EventError:
		if s == StateLinking || s == StateTokenReady {
			return StateError, nil
		}
	default:
		return s, fmt.Errorf("unknown linking event %q", event)
	}
	return s, fmt.Errorf("event %q not allowed in state %s", event, s)
}
