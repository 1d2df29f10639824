package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"mesto-api/internal/model"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	if err := r.db.WithContext(ctx).Create(activity).Error; err != nil {
		return fmt.Errorf("create activity failed: %w", err)
	}
	return nil
}

// ListByActor returns the newest activities of actorID first. A
// non-positive limit returns all of them.
func (r *ActivityRepository) ListByActor(ctx context.Context, actorID string, limit int) ([]model.Activity, error) {
	query := r.db.WithContext(ctx).
		Where("actor_id = ?", actorID).
		Order("occurred_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var activities []model.Activity
	err := query.Find(&activities).Error
	if err != nil {
		return nil, fmt.Errorf("list activities failed: %w", err)
	}
	return activities, nil
}
