package websocket

import (
	"encoding/json"
	"time"
)

// WebSocket frame types
const (
	TypeMessages   = "messages"
	TypeNewMessage = "message"
	TypeSession    = "session"
	TypeError      = "error"
)

type Envelope struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

func NewEnvelope(msgType string, data interface{}) Envelope {
	return Envelope{
		Type:      msgType,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// Encode renders a frame ready for Client.Enqueue or Manager.SendToUser.
func Encode(msgType string, data interface{}) ([]byte, error) {
	return json.Marshal(NewEnvelope(msgType, data))
}
