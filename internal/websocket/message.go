package websocket

import "encoding/json"

// Message defines the structure for websocket messages.
type Message struct {
	Action  string      `json:"action"`
	Payload interface{} `json:"payload"`
}

// NewMessage builds a Message and marshals it for broadcast. Marshal errors
// yield a nil slice, which the hub drops.
func NewMessage(action string, payload interface{}) []byte {
	data, err := json.Marshal(Message{Action: action, Payload: payload})
	if err != nil {
		return nil
	}
	return data
}
