package employee

import (
	"context"
	"database/sql"
	"time"

	"github.com/yutaorii/saisyuukadaiteisyutu/internal/shared/dbtx"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	// FindByCode includes deleted rows and returns gorm.ErrRecordNotFound
	// when the code was never registered.
	FindByCode(ctx context.Context, code string) (*Employee, error)
	FindAllActive(ctx context.Context) ([]Employee, error)
	Update(ctx context.Context, empl *Employee) error
	SoftDelete(ctx context.Context, code string, at time.Time) error
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).Create(empl).Error
}

func (r *repository) FindByCode(ctx context.Context, code string) (*Employee, error) {
	var empl Employee
	err := r.conn(ctx).
		Unscoped().
		First(&empl, "code = ?", code).Error
	if err != nil {
		return nil, err
	}
	return &empl, nil
}

func (r *repository) FindAllActive(ctx context.Context) ([]Employee, error) {
	var empls []Employee
	err := r.conn(ctx).
		Order("code ASC").
		Find(&empls).Error
	return empls, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.conn(ctx).
		Model(&Employee{}).
		Where("code = ?", empl.Code).
		Updates(map[string]any{
			"name":          empl.Name,
			"password_hash": empl.PasswordHash,
			"role":          empl.Role,
			"updated_at":    empl.UpdatedAt,
		}).Error
}

func (r *repository) SoftDelete(ctx context.Context, code string, at time.Time) error {
	res := r.conn(ctx).
		Model(&Employee{}).
		Where("code = ?", code).
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
