package employee

import (
	"time"

	"gorm.io/plugin/soft_delete"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

// Employee codes are never reused: the primary key covers deleted rows too.
type Employee struct {
	Code         string                `gorm:"type:varchar(10);primaryKey"`
	Name         string                `gorm:"type:varchar(20);not null"`
	PasswordHash string                `gorm:"type:varchar(255);not null"`
	Role         string                `gorm:"type:varchar(10);not null"`
	Deleted      soft_delete.DeletedAt `gorm:"softDelete:flag;not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (e Employee) IsDeleted() bool {
	return e.Deleted != 0
}

func (e Employee) Status() Status {
	if e.IsDeleted() {
		return StatusDeleted
	}
	return StatusActive
}
