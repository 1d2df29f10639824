package app

import (
	"context"

	"mesto-api/internal/apperror"
	"mesto-api/internal/auth"
	"mesto-api/internal/model"
)

const (
	DefaultActivityLimit = 50
	MaxActivityLimit     = 200
)

type ActivityStore interface {
	ListByActor(ctx context.Context, actorID string, limit int) ([]model.Activity, error)
}

// ActivityService reads the audit trail written by the activity worker.
type ActivityService struct {
	store ActivityStore
}

func NewActivityService(store ActivityStore) *ActivityService {
	return &ActivityService{store: store}
}

// Recent returns the caller's newest activities, newest first. limit is
// defaulted when non-positive and capped at MaxActivityLimit.
func (s *ActivityService) Recent(ctx context.Context, identity auth.Identity, limit int) ([]model.Activity, error) {
	if identity.UserID == "" {
		return nil, apperror.NewUnauthorized("Authorization required", nil)
	}
	switch {
	case limit <= 0:
		limit = DefaultActivityLimit
	case limit > MaxActivityLimit:
		limit = MaxActivityLimit
	}
	return s.store.ListByActor(ctx, identity.UserID, limit)
}
