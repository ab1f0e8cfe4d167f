package events

import "time"

const EmployeeLifecycleTopic = "dailyreport.employee.lifecycle.v1"

const (
	EmployeeRegistered = "employee_registered"
	EmployeeUpdated    = "employee_updated"
	EmployeeDeleted    = "employee_deleted"
)

type EmployeeLifecycleEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	EmployeeCode string    `json:"employee_code"`
	Role         string    `json:"role,omitempty"`
	ActorCode    string    `json:"actor_code,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
