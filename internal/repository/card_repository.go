package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"mesto-api/internal/model"
	"mesto-api/internal/pkg/idgen"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create assigns an id and inserts the card. An owner that does not exist
// yields a ConstraintViolation on "owner" where the dialect enforces it.
func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	if card.ID == "" {
		id, err := idgen.New()
		if err != nil {
			return err
		}
		card.ID = id
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(card).Error; err != nil {
		if err = translate(err, "id", "owner"); IsConstraintViolation(err, "") {
			return err
		}
		return fmt.Errorf("create card failed: %w", err)
	}
	card.Likes = []model.CardLike{}
	return nil
}

func (r *CardRepository) List(ctx context.Context) ([]model.Card, error) {
	var cards []model.Card
	err := r.db.WithContext(ctx).
		Preload("Likes", orderLikes).
		Order("created_at DESC").
		Find(&cards).Error
	if err != nil {
		return nil, fmt.Errorf("list cards failed: %w", err)
	}
	return cards, nil
}

func (r *CardRepository) GetByID(ctx context.Context, id string) (*model.Card, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	return r.getByID(r.db.WithContext(ctx), strings.ToLower(id))
}

// DeleteOwned removes the card and its likes set in one transaction, but
// only while ownerID still owns it. It reports whether a card was removed.
func (r *CardRepository) DeleteOwned(ctx context.Context, id, ownerID string) (bool, error) {
	if err := checkID(id); err != nil {
		return false, err
	}
	id = strings.ToLower(id)
	var deleted bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND owner_id = ?", id, ownerID).Delete(&model.Card{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("card_id = ?", id).Delete(&model.CardLike{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("delete card failed: %w", err)
	}
	return deleted, nil
}

// AddLike puts userID into the card's likes set. The insert is a single
// conflict-ignoring statement, so repeating it is a no-op and concurrent
// callers cannot lose each other's updates. It returns the card as stored
// afterwards, or nil if the card does not exist.
func (r *CardRepository) AddLike(ctx context.Context, cardID, userID string) (*model.Card, error) {
	return r.mutateLikes(ctx, cardID, func(tx *gorm.DB, id string) error {
		like := model.CardLike{CardID: id, UserID: userID}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Omit(clause.Associations).
			Create(&like).Error
	})
}

// RemoveLike takes userID out of the card's likes set. Removing an absent
// member is a no-op.
func (r *CardRepository) RemoveLike(ctx context.Context, cardID, userID string) (*model.Card, error) {
	return r.mutateLikes(ctx, cardID, func(tx *gorm.DB, id string) error {
		return tx.Where("card_id = ? AND user_id = ?", id, userID).Delete(&model.CardLike{}).Error
	})
}

func (r *CardRepository) mutateLikes(ctx context.Context, cardID string, op func(tx *gorm.DB, id string) error) (*model.Card, error) {
	if err := checkID(cardID); err != nil {
		return nil, err
	}
	id := strings.ToLower(cardID)
	var card *model.Card
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&model.Card{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := op(tx, id); err != nil {
			return err
		}
		var err error
		card, err = r.getByID(tx, id)
		return err
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrForeignKeyViolated) {
			return nil, nil
		}
		return nil, fmt.Errorf("update card likes failed: %w", err)
	}
	return card, nil
}

func (r *CardRepository) getByID(db *gorm.DB, id string) (*model.Card, error) {
	var card model.Card
	if err := db.Preload("Likes", orderLikes).Where("id = ?", id).First(&card).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query card by id failed: %w", err)
	}
	return &card, nil
}

func orderLikes(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}
