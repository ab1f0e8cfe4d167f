package report

import (
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/employee"

	"gorm.io/plugin/soft_delete"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusDeleted Status = "deleted"
)

const dateLayout = "2006-01-02"

// At most one non-deleted report exists per employee and date; the partial
// unique index enforces it at write time.
type Report struct {
	ID           uint                  `gorm:"primaryKey;autoIncrement"`
	EmployeeCode string                `gorm:"type:varchar(10);not null;index;uniqueIndex:uq_reports_employee_date,where:deleted = 0"`
	ReportDate   time.Time             `gorm:"type:date;not null;uniqueIndex:uq_reports_employee_date,where:deleted = 0"`
	Title        string                `gorm:"type:varchar(100);not null"`
	Content      string                `gorm:"type:varchar(600);not null"`
	Deleted      soft_delete.DeletedAt `gorm:"softDelete:flag;not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeCode;references:Code;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
}

func (r Report) IsDeleted() bool {
	return r.Deleted != 0
}

func (r Report) Status() Status {
	if r.IsDeleted() {
		return StatusDeleted
	}
	return StatusActive
}

// ParseDate reads a YYYY-MM-DD calendar date as UTC midnight.
func ParseDate(v string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, v, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.UTC().Format(dateLayout) == b.UTC().Format(dateLayout)
}
