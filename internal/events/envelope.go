package events

import "encoding/json"

// Envelope is the part every lifecycle payload shares. Consumers decode it
// first to route by event type.
type Envelope struct {
	EventType string `json:"event_type"`
	RequestID string `json:"request_id,omitempty"`
	ActorCode string `json:"actor_code,omitempty"`
}

func DecodeEnvelope(payload []byte) (Envelope, error) {
	var env Envelope
	err := json.Unmarshal(payload, &env)
	return env, err
}
