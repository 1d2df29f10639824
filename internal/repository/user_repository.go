package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"mesto-api/internal/model"
	"mesto-api/internal/pkg/idgen"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create assigns an id and inserts the user. A duplicate email yields a
// ConstraintViolation on "email".
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	if user.ID == "" {
		id, err := idgen.New()
		if err != nil {
			return err
		}
		user.ID = id
	}
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if err = translate(err, "email", ""); IsConstraintViolation(err, "") {
			return err
		}
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", strings.ToLower(id)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by id failed: %w", err)
	}
	return &user, nil
}

// GetByEmail returns the user including its password hash.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by email failed: %w", err)
	}
	return &user, nil
}

// UpdateFields applies a partial update and returns the user as stored
// afterwards, or nil when no user has that id.
func (r *UserRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (*model.User, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	var user model.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := tx.Model(&model.User{}).Where("id = ?", strings.ToLower(id)).Updates(fields).Error; err != nil {
				return translate(err, "email", "")
			}
		}
		return tx.Where("id = ?", strings.ToLower(id)).First(&user).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if IsConstraintViolation(err, "") {
			return nil, err
		}
		return nil, fmt.Errorf("update user failed: %w", err)
	}
	return &user, nil
}
