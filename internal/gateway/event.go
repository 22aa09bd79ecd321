package gateway

// EventKind classifies inbound transport events.
type EventKind string

const (
	EventCommand EventKind = "command"
	EventButton  EventKind = "button"
	EventText    EventKind = "text"
)

// InboundEvent is one interaction arriving from the messaging transport.
// Payload holds the command line, button action, or free text depending on
// Kind. Name fields are the transport's view of the actor, used for upserts.
type InboundEvent struct {
	ActorID     int64
	Kind        EventKind
	Payload     string
	DisplayName string
	Username    string
}

// Button is one keyboard cell; Action round-trips as a button event payload.
type Button struct {
	Label  string
	Action string
}

// Response is what the transport renders back to the actor. ImageLink, when
// set, is a deep link the transport is expected to present as a QR code.
type Response struct {
	Text      string
	Keyboard  [][]Button
	ImageLink string
}
