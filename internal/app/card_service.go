package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"mesto-api/internal/apperror"
	"mesto-api/internal/auth"
	"mesto-api/internal/logging"
	"mesto-api/internal/model"
	"mesto-api/internal/repository"
)

const (
	msgCreateCardInvalid = "Incorrect data entered when creating card"
	msgCardNotFound      = "Card not found"
	msgInvalidCardID     = "Invalid card id"
)

type likeOp int

const (
	likeAdd likeOp = iota
	likeRemove
)

type CardService struct {
	cards  CardStore
	users  UserStore
	cache  CardListCache
	logger logging.Logger
	events emitter
}

type CreateCardInput struct {
	Name string
	Link string
}

func NewCardService(cards CardStore, users UserStore, cache CardListCache, publisher EventPublisher, logger logging.Logger) *CardService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &CardService{
		cards:  cards,
		users:  users,
		cache:  cache,
		logger: logger,
		events: emitter{publisher: publisher, logger: logger, now: time.Now},
	}
}

// List serves the cached collection when present. On a miss the
// generation is read before the store query, so a mutation that lands in
// between prevents the older list from being cached.
func (s *CardService) List(ctx context.Context) ([]model.Card, error) {
	var (
		gen      int64
		cachable bool
	)
	if s.cache != nil {
		cards, ok, err := s.cache.GetCards(ctx)
		if err != nil {
			s.logger.Warn(ctx, "read card cache failed", "error", err)
		} else if ok {
			return cards, nil
		}
		if gen, err = s.cache.Generation(ctx); err != nil {
			s.logger.Warn(ctx, "read card cache generation failed", "error", err)
		} else {
			cachable = true
		}
	}

	cards, err := s.cards.List(ctx)
	if err != nil {
		return nil, err
	}
	if cachable {
		if err := s.cache.SetCards(ctx, cards, gen); err != nil {
			s.logger.Warn(ctx, "write card cache failed", "error", err)
		}
	}
	return cards, nil
}

// Create stores a card owned by the caller.
func (s *CardService) Create(ctx context.Context, identity auth.Identity, input CreateCardInput) (*model.Card, error) {
	card := &model.Card{
		Name:    strings.TrimSpace(input.Name),
		Link:    strings.TrimSpace(input.Link),
		OwnerID: identity.UserID,
	}
	if err := model.Validate(card); err != nil {
		return nil, apperror.NewBadRequest(msgCreateCardInvalid, err)
	}

	owner, err := s.users.GetByID(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, apperror.NewBadRequest(msgInvalidUserID, err)
		}
		return nil, err
	}
	if owner == nil {
		return nil, apperror.NewNotFound(msgUserNotFound, nil)
	}

	if err := s.cards.Create(ctx, card); err != nil {
		if repository.IsConstraintViolation(err, "owner") {
			return nil, apperror.NewNotFound(msgUserNotFound, err)
		}
		return nil, err
	}

	s.invalidate(ctx)
	s.events.emit(ctx, model.ActivityCardCreated, identity.UserID, card.ID)
	return card, nil
}

// Delete removes a card owned by the caller.
func (s *CardService) Delete(ctx context.Context, identity auth.Identity, cardID string) error {
	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		return classifyCardErr(err)
	}
	if card == nil {
		return apperror.NewNotFound(msgCardNotFound, nil)
	}
	if err := auth.Authorize(identity, card, auth.ActionDeleteCard); err != nil {
		return err
	}

	deleted, err := s.cards.DeleteOwned(ctx, card.ID, identity.UserID)
	if err != nil {
		return err
	}
	if !deleted {
		// Removed by a concurrent request after the lookup.
		return apperror.NewNotFound(msgCardNotFound, nil)
	}

	s.invalidate(ctx)
	s.events.emit(ctx, model.ActivityCardDeleted, identity.UserID, card.ID)
	return nil
}

func (s *CardService) Like(ctx context.Context, identity auth.Identity, cardID string) (*model.Card, error) {
	return s.toggleLike(ctx, identity, cardID, likeAdd)
}

func (s *CardService) Dislike(ctx context.Context, identity auth.Identity, cardID string) (*model.Card, error) {
	return s.toggleLike(ctx, identity, cardID, likeRemove)
}

// toggleLike changes only the caller's own membership; the member id is
// taken from identity and never from the request.
func (s *CardService) toggleLike(ctx context.Context, identity auth.Identity, cardID string, op likeOp) (*model.Card, error) {
	action, event := auth.ActionLikeCard, model.ActivityCardLiked
	mutate := s.cards.AddLike
	if op == likeRemove {
		action, event = auth.ActionDislikeCard, model.ActivityCardDisliked
		mutate = s.cards.RemoveLike
	}
	if !repository.ValidID(cardID) {
		return nil, apperror.NewBadRequest(msgInvalidCardID, repository.ErrInvalidID)
	}
	if err := auth.Authorize(identity, nil, action); err != nil {
		return nil, err
	}

	card, err := mutate(ctx, cardID, identity.UserID)
	if err != nil {
		return nil, classifyCardErr(err)
	}
	if card == nil {
		return nil, apperror.NewNotFound(msgCardNotFound, nil)
	}

	s.invalidate(ctx)
	s.events.emit(ctx, event, identity.UserID, card.ID)
	return card, nil
}

func (s *CardService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn(ctx, "invalidate card cache failed", "error", err)
	}
}

func classifyCardErr(err error) error {
	if errors.Is(err, repository.ErrInvalidID) {
		return apperror.NewBadRequest(msgInvalidCardID, err)
	}
	return err
}
