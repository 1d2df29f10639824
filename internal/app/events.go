package app

import (
	"context"
	"time"

	"mesto-api/internal/logging"
	"mesto-api/internal/model"
)

// emitter publishes activity events without ever failing the caller.
type emitter struct {
	publisher EventPublisher
	logger    logging.Logger
	now       func() time.Time
}

func (e emitter) emit(ctx context.Context, typ model.ActivityType, actorID, resourceID string) {
	if e.publisher == nil {
		return
	}
	event := model.Activity{
		Type:       typ,
		ActorID:    actorID,
		ResourceID: resourceID,
		OccurredAt: e.now().UTC(),
	}
	if err := e.publisher.Publish(ctx, event); err != nil {
		e.logger.Warn(ctx, "publish activity failed", "type", string(typ), "error", err)
	}
}
