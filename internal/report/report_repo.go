package report

import (
	"context"
	"database/sql"
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/employee"
	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/dbtx"

	"gorm.io/gorm"
)

//go:generate mockgen -source=report_repo.go -destination=mock/report_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *Report) error
	// FindActiveByID returns gorm.ErrRecordNotFound for missing and
	// deleted reports alike.
	FindActiveByID(ctx context.Context, id uint) (*Report, error)
	FindAll(ctx context.Context, filter ReportFilter) ([]Report, error)
	Update(ctx context.Context, r *Report) error
	SoftDelete(ctx context.Context, id uint, at time.Time) error
	HardDelete(ctx context.Context, id uint) error
	// ExistsOnDate reports whether another non-deleted report of the
	// employee sits on date. excludeID 0 excludes nothing.
	ExistsOnDate(ctx context.Context, employeeCode string, date time.Time, excludeID uint) (bool, error)
	ListIDsByEmployee(ctx context.Context, employeeCode string) ([]uint, error)
	EmployeeActive(ctx context.Context, employeeCode string) (bool, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) conn(ctx context.Context) *gorm.DB {
	return dbtx.Bind(r.db, r.tx).WithContext(ctx)
}

func (r *repository) Create(ctx context.Context, rep *Report) error {
	return r.conn(ctx).Omit("Employee").Create(rep).Error
}

func (r *repository) FindActiveByID(ctx context.Context, id uint) (*Report, error) {
	var rep Report
	if err := r.conn(ctx).First(&rep, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repository) FindAll(ctx context.Context, filter ReportFilter) ([]Report, error) {
	q := r.conn(ctx).Model(&Report{})
	if filter.EmployeeCode != "" {
		q = q.Where("employee_code = ?", filter.EmployeeCode)
	}
	if filter.From != nil {
		q = q.Where("report_date >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("report_date <= ?", *filter.To)
	}

	var reps []Report
	err := q.Order("report_date DESC, id DESC").Find(&reps).Error
	return reps, err
}

func (r *repository) Update(ctx context.Context, rep *Report) error {
	res := r.conn(ctx).
		Model(&Report{}).
		Where("id = ?", rep.ID).
		Updates(map[string]any{
			"report_date": rep.ReportDate,
			"title":       rep.Title,
			"content":     rep.Content,
			"updated_at":  rep.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SoftDelete(ctx context.Context, id uint, at time.Time) error {
	res := r.conn(ctx).
		Model(&Report{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"deleted":    1,
			"updated_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) HardDelete(ctx context.Context, id uint) error {
	res := r.conn(ctx).
		Unscoped().
		Where("id = ?", id).
		Delete(&Report{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) ExistsOnDate(ctx context.Context, employeeCode string, date time.Time, excludeID uint) (bool, error) {
	q := r.conn(ctx).
		Model(&Report{}).
		Where("employee_code = ?", employeeCode).
		Where("report_date = ?", date)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ListIDsByEmployee(ctx context.Context, employeeCode string) ([]uint, error) {
	var ids []uint
	err := r.conn(ctx).
		Model(&Report{}).
		Where("employee_code = ?", employeeCode).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) EmployeeActive(ctx context.Context, employeeCode string) (bool, error) {
	var count int64
	err := r.conn(ctx).
		Model(&employee.Employee{}).
		Where("code = ?", employeeCode).
		Count(&count).Error
	return count > 0, err
}
