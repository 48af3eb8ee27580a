package sync

import "context"

// Channel is one reliable, ordered, message-based point-to-point link to
// the peer. Delivery and ordering are the transport's job; the session
// never retransmits. A channel serves exactly one session.
type Channel interface {
	Send(ctx context.Context, msg Message) error
	Close() error
}

// EventKind classifies what the transport observed.
type EventKind int

const (
	// EventOpened fires once when the link to the peer is up.
	EventOpened EventKind = iota
	// EventMessage delivers one protocol message, in send order.
	EventMessage
	// EventClosed fires when the peer or transport closed the link.
	EventClosed
	// EventError reports a transport failure.
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventOpened:
		return "OPENED"
	case EventMessage:
		return "MESSAGE"
	case EventClosed:
		return "CLOSED"
	case EventError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Event is one channel occurrence fed into Session.HandleEvent.
type Event struct {
	Kind EventKind
	Msg  *Message // set for EventMessage
	Err  error    // set for EventError
}
