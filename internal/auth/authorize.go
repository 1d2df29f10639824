package auth

import (
	"mesto-api/internal/apperror"
	"mesto-api/internal/model"
)

type Action int

const (
	ActionDeleteCard Action = iota
	ActionLikeCard
	ActionDislikeCard
	ActionUpdateProfile
)

const forbiddenDeleteMessage = "You do not have permission to delete this card"

// Authorize decides whether identity may perform action on card. Like and
// dislike are always allowed: the only set member they can touch is the
// caller's own id. Profile updates always target the caller's own record,
// so card is ignored for them.
func Authorize(identity Identity, card *model.Card, action Action) error {
	if identity.UserID == "" {
		return apperror.NewUnauthorized("Authorization required", nil)
	}
	switch action {
	case ActionDeleteCard:
		if card == nil || !card.IsOwnedBy(identity.UserID) {
			return apperror.NewForbidden(forbiddenDeleteMessage, nil)
		}
		return nil
	case ActionLikeCard, ActionDislikeCard, ActionUpdateProfile:
		return nil
	default:
		return apperror.NewForbidden("Action is not permitted", nil)
	}
}
