package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neighborly-app/backend/internal/models"
)

type MessageStore struct {
	pool *pgxpool.Pool
}

func NewMessageStore(pool *pgxpool.Pool) *MessageStore {
	return &MessageStore{pool: pool}
}

// Create appends to the channel log. sent_time and seq are assigned here at
// write time; the client never supplies either, which is what makes the
// per-channel order stable.
func (s *MessageStore) Create(ctx context.Context, channelID, userID, content, mediaURL string) (*models.Message, error) {
	query := `
		INSERT INTO messages (message_id, channel_id, user_id, content, media_url, sent_time)
		VALUES ($1, $2, $3, $4, $5, now())
		RETURNING seq, message_id, channel_id, user_id, content, media_url, sent_time`

	var msg models.Message
	err := s.pool.QueryRow(ctx, query, uuid.NewString(), channelID, userID, content, mediaURL).Scan(
		&msg.Seq,
		&msg.ID,
		&msg.ChannelID,
		&msg.UserID,
		&msg.Content,
		&msg.MediaURL,
		&msg.SentTime,
	)
	if err != nil {
		return nil, fmt.Errorf("insert message: %w", err)
	}
	return &msg, nil
}

// ListByChannel pages forward through the log: seq > afterSeq, ascending.
// seq is the total-order key and the cursor, so the sort and the cursor
// predicate agree; a sent_time sort could disagree with the cursor under
// concurrent inserts (now() is transaction-start time, seq is assigned at
// insert) and skip rows across page boundaries.
func (s *MessageStore) ListByChannel(ctx context.Context, channelID string, afterSeq int64, limit int) ([]models.Message, error) {
	query := `
		SELECT seq, message_id, channel_id, user_id, content, media_url, sent_time
		FROM messages
		WHERE channel_id = $1 AND seq > $2
		ORDER BY seq
		LIMIT $3`

	rows, err := s.pool.Query(ctx, query, channelID, afterSeq, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var msg models.Message
		if err := rows.Scan(
			&msg.Seq,
			&msg.ID,
			&msg.ChannelID,
			&msg.UserID,
			&msg.Content,
			&msg.MediaURL,
			&msg.SentTime,
		); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return messages, nil
}
