package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neighborly-app/backend/internal/models"
)

type ChannelStore struct {
	pool *pgxpool.Pool
}

func NewChannelStore(pool *pgxpool.Pool) *ChannelStore {
	return &ChannelStore{pool: pool}
}

func (s *ChannelStore) GetByID(ctx context.Context, channelID string) (*models.Channel, error) {
	query := `
		SELECT channel_id, building_id, name, description, created_time
		FROM channels
		WHERE channel_id = $1`

	var ch models.Channel
	err := s.pool.QueryRow(ctx, query, channelID).Scan(
		&ch.ID,
		&ch.BuildingID,
		&ch.Name,
		&ch.Description,
		&ch.CreatedTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get channel: %w", err)
	}
	return &ch, nil
}

func (s *ChannelStore) ListByBuilding(ctx context.Context, buildingID string) ([]models.Channel, error) {
	query := `
		SELECT channel_id, building_id, name, description, created_time
		FROM channels
		WHERE building_id = $1
		ORDER BY name`

	rows, err := s.pool.Query(ctx, query, buildingID)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	channels := make([]models.Channel, 0)
	for rows.Next() {
		var ch models.Channel
		if err := rows.Scan(
			&ch.ID,
			&ch.BuildingID,
			&ch.Name,
			&ch.Description,
			&ch.CreatedTime,
		); err != nil {
			return nil, fmt.Errorf("scan channel: %w", err)
		}
		channels = append(channels, ch)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate channels: %w", err)
	}

	return channels, nil
}
