package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neighborly-app/backend/internal/models"
)

type ReadStateStore struct {
	pool *pgxpool.Pool
}

func NewReadStateStore(pool *pgxpool.Pool) *ReadStateStore {
	return &ReadStateStore{pool: pool}
}

// Upsert is unconditional last-write-wins: the marker may move backwards if
// a caller sends an older timestamp. Forward-only enforcement belongs to
// callers, not here.
func (s *ReadStateStore) Upsert(ctx context.Context, userID, channelID string, lastRead time.Time) (*models.ReadState, error) {
	query := `
		INSERT INTO read_states (user_id, channel_id, last_read_time)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, channel_id) DO UPDATE
		SET last_read_time = EXCLUDED.last_read_time
		RETURNING user_id, channel_id, last_read_time`

	var rs models.ReadState
	err := s.pool.QueryRow(ctx, query, userID, channelID, lastRead).Scan(
		&rs.UserID,
		&rs.ChannelID,
		&rs.LastReadTime,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert read state: %w", err)
	}
	return &rs, nil
}

func (s *ReadStateStore) Get(ctx context.Context, userID, channelID string) (*models.ReadState, error) {
	query := `
		SELECT user_id, channel_id, last_read_time
		FROM read_states
		WHERE user_id = $1 AND channel_id = $2`

	var rs models.ReadState
	err := s.pool.QueryRow(ctx, query, userID, channelID).Scan(
		&rs.UserID,
		&rs.ChannelID,
		&rs.LastReadTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get read state: %w", err)
	}
	return &rs, nil
}
