package activity

import "time"

type Activity struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	EventID       string    `gorm:"type:varchar(36);not null;uniqueIndex:uq_activities_event_id"`
	EventType     string    `gorm:"type:varchar(50);not null;index:idx_activities_event_type"`
	AggregateType string    `gorm:"type:varchar(50);not null;index:idx_activities_aggregate"`
	AggregateID   string    `gorm:"type:varchar(64);not null;index:idx_activities_aggregate"`
	ActorCode     string    `gorm:"type:varchar(20)"`
	RequestID     string    `gorm:"type:varchar(64)"`
	Payload       string    `gorm:"type:text"`
	OccurredAt    time.Time `gorm:"not null;index:idx_activities_occurred_at"`
	CreatedAt     time.Time
}
