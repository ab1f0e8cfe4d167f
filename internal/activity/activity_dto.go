package activity

import (
	"encoding/json"
	"time"
)

type RecordInput struct {
	EventID       string
	EventType     string
	AggregateType string
	AggregateID   string
	ActorCode     string
	RequestID     string
	Payload       []byte
	OccurredAt    time.Time
}

type ListFilter struct {
	AggregateType string `form:"aggregate_type" binding:"omitempty,oneof=employee report"`
	AggregateID   string `form:"aggregate_id"`
	Limit         int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

type ActivityResponse struct {
	ID            uint            `json:"id"`
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateType string          `json:"aggregate_type"`
	AggregateID   string          `json:"aggregate_id"`
	ActorCode     string          `json:"actor_code,omitempty"`
	RequestID     string          `json:"request_id,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	OccurredAt    time.Time       `json:"occurred_at"`
}
