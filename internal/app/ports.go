package app

import (
	"context"

	"mesto-api/internal/model"
)

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*model.User, error)
}

type CardStore interface {
	Create(ctx context.Context, card *model.Card) error
	List(ctx context.Context) ([]model.Card, error)
	GetByID(ctx context.Context, id string) (*model.Card, error)
	DeleteOwned(ctx context.Context, id, ownerID string) (bool, error)
	AddLike(ctx context.Context, cardID, userID string) (*model.Card, error)
	RemoveLike(ctx context.Context, cardID, userID string) (*model.Card, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// CardListCache is optional; a nil cache disables caching. SetCards must
// drop the write when the generation moved past gen.
type CardListCache interface {
	GetCards(ctx context.Context) ([]model.Card, bool, error)
	Generation(ctx context.Context) (int64, error)
	SetCards(ctx context.Context, cards []model.Card, gen int64) error
	Invalidate(ctx context.Context) error
}

// EventPublisher is optional; a nil publisher drops events.
type EventPublisher interface {
	Publish(ctx context.Context, event model.Activity) error
}
