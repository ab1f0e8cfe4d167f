package events

import "time"

const ReportLifecycleTopic = "dailyreport.report.lifecycle.v1"

const (
	ReportCreated = "report_created"
	ReportUpdated = "report_updated"
	ReportDeleted = "report_deleted"
)

type ReportLifecycleEvent struct {
	EventType    string    `json:"event_type"`
	RequestID    string    `json:"request_id,omitempty"`
	ReportID     uint      `json:"report_id"`
	EmployeeCode string    `json:"employee_code"`
	ReportDate   string    `json:"report_date"`
	DeletePolicy string    `json:"delete_policy,omitempty"`
	ActorCode    string    `json:"actor_code,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}
