package model

import "time"

type ActivityType string

const (
	ActivityUserCreated  ActivityType = "user.created"
	ActivityCardCreated  ActivityType = "card.created"
	ActivityCardDeleted  ActivityType = "card.deleted"
	ActivityCardLiked    ActivityType = "card.liked"
	ActivityCardDisliked ActivityType = "card.disliked"
)

// Activity is an audit record of a successful mutation, delivered through
// the events queue and persisted by the activity worker.
type Activity struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Type       ActivityType `gorm:"size:32;not null;index" json:"type"`
	ActorID    string       `gorm:"size:24;not null;index" json:"actor_id"`
	ResourceID string       `gorm:"size:24;not null" json:"resource_id"`
	OccurredAt time.Time    `gorm:"not null" json:"occurred_at"`
}
