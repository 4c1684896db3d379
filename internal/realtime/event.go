package realtime

import "encoding/json"

const (
	EventSendMessage  = "sent-message"
	EventMessageSent  = "res-sent-message"
	EventNotification = "notification"
	EventError        = "error"
)

// Event is an outbound frame.
type Event struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// InboundEvent is a client frame; Data is decoded by the handler.
type InboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type ErrorPayload struct {
	Event   string `json:"event,omitempty"`
	Message string `json:"message"`
}
