package websocket

import (
	"encoding/json"

	"miniblog/internal/models"
)

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewEventMessage encodes an activity event for broadcast.
func NewEventMessage(event models.Event) ([]byte, error) {
	return json.Marshal(Message{Action: "event", Payload: event})
}

// NewErrorMessage encodes an error notice for a single client.
func NewErrorMessage(text string) []byte {
	data, _ := json.Marshal(Message{Action: "error", Payload: text})
	return data
}
