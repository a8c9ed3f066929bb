package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/apperr"
	"github.com/neighborly-app/backend/internal/models"
	"github.com/neighborly-app/backend/internal/repository"
	"github.com/neighborly-app/backend/internal/validation"
)

// maxBatchLookup caps getUsersByIds, which the client calls to resolve a
// member list into display names.
const maxBatchLookup = 50

type UserService struct {
	users  repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

func (s *UserService) Get(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}
	return user, nil
}

func (s *UserService) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	if len(ids) > maxBatchLookup {
		return nil, fmt.Errorf("%w: at most %d user ids per lookup", apperr.ErrValidation, maxBatchLookup)
	}
	users, err := s.users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	return users, nil
}

// UpdateProfileInput is the partial update accepted from the client. Nil
// leaves a field alone; an empty string clears it. Email is not here on
// purpose; it is immutable and never an update target.
type UpdateProfileInput struct {
	Username  *string `json:"username"`
	AboutMe   *string `json:"aboutMe"`
	Pronoun   *string `json:"pronoun"`
	AvatarURL *string `json:"avatarUrl"`
}

// UpdateProfile validates and applies a partial profile update, returning
// the updated record. All validation happens before the write.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*models.User, error) {
	var patch models.ProfilePatch

	if input.Username != nil {
		username := validation.NormalizeUsername(*input.Username)
		if !validation.ValidateUsername(username) {
			return nil, fmt.Errorf("%w: username must be non-blank and at most %d characters", apperr.ErrValidation, validation.MaxUsernameLength)
		}
		patch.Username = &username
	}
	if input.AboutMe != nil {
		aboutMe := strings.TrimSpace(*input.AboutMe)
		if utf8.RuneCountInString(aboutMe) > validation.MaxAboutMeLength {
			return nil, fmt.Errorf("%w: aboutMe exceeds %d characters", apperr.ErrValidation, validation.MaxAboutMeLength)
		}
		patch.AboutMe = &aboutMe
	}
	if input.Pronoun != nil {
		pronoun := strings.TrimSpace(*input.Pronoun)
		patch.Pronoun = &pronoun
	}
	if input.AvatarURL != nil {
		// Opaque reference into object storage; stored as-is.
		avatarURL := strings.TrimSpace(*input.AvatarURL)
		patch.AvatarURL = &avatarURL
	}

	user, err := s.users.UpdateProfile(ctx, userID, patch)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}
	return user, nil
}
