package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/apperr"
	"github.com/neighborly-app/backend/internal/models"
	"github.com/neighborly-app/backend/internal/repository"
)

// ReadStateService maintains the per (user, channel) last-read marker that
// clients use to derive unread counts. The unread computation itself lives
// client-side against message sent times.
type ReadStateService struct {
	channels   repository.ChannelRepository
	readStates repository.ReadStateRepository
	logger     *zap.Logger
}

func NewReadStateService(
	channels repository.ChannelRepository,
	readStates repository.ReadStateRepository,
	logger *zap.Logger,
) *ReadStateService {
	return &ReadStateService{
		channels:   channels,
		readStates: readStates,
		logger:     logger,
	}
}

// UpdateLastRead upserts the marker: first call creates it, every later call
// overwrites unconditionally. Last write wins even if the timestamp moves
// backwards; callers own monotonicity.
func (s *ReadStateService) UpdateLastRead(ctx context.Context, userID, channelID string, lastRead time.Time) (*models.ReadState, error) {
	if lastRead.IsZero() {
		return nil, fmt.Errorf("%w: lastReadTime is required", apperr.ErrValidation)
	}

	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("update last read: %w", err)
	}
	if channel == nil {
		return nil, apperr.ErrChannelNotFound
	}

	rs, err := s.readStates.Upsert(ctx, userID, channelID, lastRead)
	if err != nil {
		return nil, fmt.Errorf("update last read: %w", err)
	}
	return rs, nil
}

// Get returns the marker, or (nil, nil) when the user has never read the
// channel; absence is not an error.
func (s *ReadStateService) Get(ctx context.Context, userID, channelID string) (*models.ReadState, error) {
	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("get read state: %w", err)
	}
	if channel == nil {
		return nil, apperr.ErrChannelNotFound
	}

	rs, err := s.readStates.Get(ctx, userID, channelID)
	if err != nil {
		return nil, fmt.Errorf("get read state: %w", err)
	}
	return rs, nil
}
