package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/apperr"
	"github.com/neighborly-app/backend/internal/models"
	"github.com/neighborly-app/backend/internal/pagination"
	"github.com/neighborly-app/backend/internal/repository"
	"github.com/neighborly-app/backend/internal/validation"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

type MessageService struct {
	channels repository.ChannelRepository
	messages repository.MessageRepository
	logger   *zap.Logger
}

func NewMessageService(
	channels repository.ChannelRepository,
	messages repository.MessageRepository,
	logger *zap.Logger,
) *MessageService {
	return &MessageService{
		channels: channels,
		messages: messages,
		logger:   logger,
	}
}

// MessagePage is one page of a channel's log, oldest first. NextToken is
// opaque; empty means the page ran short and the caller is caught up.
type MessagePage struct {
	Items     []models.Message `json:"items"`
	NextToken string           `json:"nextToken,omitempty"`
}

// Create appends a message. Content is trimmed and validated before any
// write; the store assigns the id, sent time, and sequence at accept time.
// The append has no side effects; no counters, no fan-out.
func (s *MessageService) Create(ctx context.Context, channelID, userID, content, mediaURL string) (*models.Message, error) {
	content = validation.NormalizeContent(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message content is empty", apperr.ErrValidation)
	}
	if utf8.RuneCountInString(content) > validation.MaxMessageLength {
		return nil, fmt.Errorf("%w: message content exceeds %d characters", apperr.ErrValidation, validation.MaxMessageLength)
	}

	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	if channel == nil {
		return nil, apperr.ErrChannelNotFound
	}

	msg, err := s.messages.Create(ctx, channelID, userID, content, mediaURL)
	if err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// List returns messages in acceptance order (ascending sequence), which
// matches sent-time order except where concurrent writers interleaved.
// limit <= 0 falls back to the default page size and anything above the cap
// is clamped.
func (s *MessageService) List(ctx context.Context, channelID string, limit int, nextToken string) (*MessagePage, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	afterSeq, err := pagination.DecodeToken(nextToken)
	if err != nil {
		return nil, err
	}

	channel, err := s.channels.GetByID(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if channel == nil {
		return nil, apperr.ErrChannelNotFound
	}

	items, err := s.messages.ListByChannel(ctx, channelID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	page := &MessagePage{Items: items}
	if len(items) == limit {
		page.NextToken = pagination.EncodeToken(items[len(items)-1].Seq)
	}
	return page, nil
}
