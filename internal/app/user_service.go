package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"mesto-api/internal/apperror"
	"mesto-api/internal/auth"
	"mesto-api/internal/logging"
	"mesto-api/internal/model"
	"mesto-api/internal/repository"
)

const (
	msgCreateUserInvalid    = "Incorrect data entered when creating user"
	msgEmailTaken           = "User with this email exists"
	msgBadCredentials       = "Incorrect email or password"
	msgUserNotFound         = "User not found"
	msgInvalidUserID        = "Invalid user id"
	msgUpdateProfileInvalid = "Incorrect data entered when updating profile"
	msgUpdateAvatarInvalid  = "Incorrect data entered when updating the avatar"
)

type UserService struct {
	users  UserStore
	hasher PasswordHasher
	tokens TokenIssuer
	events emitter
}

type CreateUserInput struct {
	Name     string
	About    string
	Avatar   string
	Email    string
	Password string
}

// UpdateProfileInput holds the fields present in the request. Nil fields are
// left untouched.
type UpdateProfileInput struct {
	Name  *string
	About *string
}

func NewUserService(users UserStore, hasher PasswordHasher, tokens TokenIssuer, publisher EventPublisher, logger logging.Logger) *UserService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &UserService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: emitter{publisher: publisher, logger: logger, now: time.Now},
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser registers a new account. The returned user never carries the
// password hash.
func (s *UserService) CreateUser(ctx context.Context, input CreateUserInput) (*model.User, error) {
	user := &model.User{
		Name:   strings.TrimSpace(input.Name),
		About:  strings.TrimSpace(input.About),
		Avatar: strings.TrimSpace(input.Avatar),
		Email:  normalizeEmail(input.Email),
	}
	user.ApplyDefaults()
	if err := model.Validate(user); err != nil {
		return nil, apperror.NewBadRequest(msgCreateUserInvalid, err)
	}
	if input.Password == "" {
		return nil, apperror.NewBadRequest(msgCreateUserInvalid, nil)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password failed: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsConstraintViolation(err, "email") {
			return nil, apperror.NewConflict(msgEmailTaken, err)
		}
		return nil, err
	}
	user.PasswordHash = ""

	s.events.emit(ctx, model.ActivityUserCreated, user.ID, user.ID)
	return user, nil
}

// Login returns a token for the account. An unknown email and a wrong
// password fail identically.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", apperror.NewUnauthorized(msgBadCredentials, nil)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", apperror.NewUnauthorized(msgBadCredentials, nil)
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return "", apperror.NewUnauthorized(msgBadCredentials, err)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token failed: %w", err)
	}
	return token, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, apperror.NewBadRequest(msgInvalidUserID, err)
		}
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound(msgUserNotFound, nil)
	}
	return user, nil
}

func (s *UserService) Current(ctx context.Context, identity auth.Identity) (*model.User, error) {
	return s.GetByID(ctx, identity.UserID)
}

func (s *UserService) UpdateProfile(ctx context.Context, identity auth.Identity, input UpdateProfileInput) (*model.User, error) {
	candidate := model.User{}
	fields := make(map[string]any, 2)
	var present []string
	if input.Name != nil {
		candidate.Name = strings.TrimSpace(*input.Name)
		fields["name"] = candidate.Name
		present = append(present, "Name")
	}
	if input.About != nil {
		candidate.About = strings.TrimSpace(*input.About)
		fields["about"] = candidate.About
		present = append(present, "About")
	}
	if len(present) > 0 {
		if err := model.ValidatePartial(&candidate, present...); err != nil {
			return nil, apperror.NewBadRequest(msgUpdateProfileInvalid, err)
		}
	}
	return s.update(ctx, identity, fields)
}

func (s *UserService) UpdateAvatar(ctx context.Context, identity auth.Identity, avatar *string) (*model.User, error) {
	if avatar == nil {
		return nil, apperror.NewBadRequest(msgUpdateAvatarInvalid, nil)
	}
	candidate := model.User{Avatar: strings.TrimSpace(*avatar)}
	if err := model.ValidatePartial(&candidate, "Avatar"); err != nil {
		return nil, apperror.NewBadRequest(msgUpdateAvatarInvalid, err)
	}
	return s.update(ctx, identity, map[string]any{"avatar": candidate.Avatar})
}

// update always targets the caller's own record.
func (s *UserService) update(ctx context.Context, identity auth.Identity, fields map[string]any) (*model.User, error) {
	if err := auth.Authorize(identity, nil, auth.ActionUpdateProfile); err != nil {
		return nil, err
	}
	user, err := s.users.UpdateFields(ctx, identity.UserID, fields)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, apperror.NewBadRequest(msgInvalidUserID, err)
		}
		return nil, err
	}
	if user == nil {
		return nil, apperror.NewNotFound(msgUserNotFound, nil)
	}
	return user, nil
}
