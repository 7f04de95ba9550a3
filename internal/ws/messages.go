package ws

import "encoding/json"

// Envelope wraps every WS frame, in both directions.
type Envelope struct {
	Event string          `json:"event"`          // e.g. "room_message"
	Body  json.RawMessage `json:"body,omitempty"` // arbitrary JSON
}

// ──────────────────────────── Request / Response DTOs ─────────────────────────

// RoomMessageRequest is the body for "room_message".
type RoomMessageRequest struct {
	Room    string `json:"room" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// Empty ACK body.
type AckBody struct{}

// ErrorBody is returned for failures.
type ErrorBody struct {
	Error string `json:"error"`
}

// marshalEvent builds the wire bytes for a server-initiated frame.
func marshalEvent(event string, body any) ([]byte, error) {
	return json.Marshal(map[string]any{
		"event": event,
		"body":  body,
	})
}
