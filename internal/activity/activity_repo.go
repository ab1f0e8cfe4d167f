package activity

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=activity_repo.go -destination=mock/activity_repo_mock.go -package=mock
type Repository interface {
	// CreateIfAbsent inserts a unless an activity with the same event id
	// exists. It reports whether a row was written.
	CreateIfAbsent(ctx context.Context, a *Activity) (bool, error)
	List(ctx context.Context, filter ListFilter) ([]Activity, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateIfAbsent(ctx context.Context, a *Activity) (bool, error) {
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}},
			DoNothing: true,
		}).
		Create(a)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]Activity, error) {
	q := r.db.WithContext(ctx).Model(&Activity{})
	if filter.AggregateType != "" {
		q = q.Where("aggregate_type = ?", filter.AggregateType)
	}
	if filter.AggregateID != "" {
		q = q.Where("aggregate_id = ?", filter.AggregateID)
	}

	var rows []Activity
	err := q.Order("occurred_at DESC, id DESC").
		Limit(filter.Limit).
		Find(&rows).Error
	return rows, err
}
