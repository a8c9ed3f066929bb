package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neighborly-app/backend/internal/apperr"
	"github.com/neighborly-app/backend/internal/models"
)

const userColumns = `user_id, email, password_hash, username, about_me, pronoun, avatar_url, joined_buildings, created_time`

type UserStore struct {
	pool *pgxpool.Pool
}

func NewUserStore(pool *pgxpool.Pool) *UserStore {
	return &UserStore{pool: pool}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Username,
		&u.AboutMe,
		&u.Pronoun,
		&u.AvatarURL,
		&u.JoinedBuildings,
		&u.CreatedTime,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (user_id, email, password_hash, username, created_time)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_time`

	err := s.pool.QueryRow(ctx, query, user.ID, user.Email, user.PasswordHash, user.Username).
		Scan(&user.CreatedTime)
	if err != nil {
		// 23505 = unique_violation; the only unique constraint besides the
		// primary key is email.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperr.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.JoinedBuildings = []string{}
	return nil
}

func (s *UserStore) GetByID(ctx context.Context, userID string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(s.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = ANY($1)`

	rows, err := s.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0, len(ids))
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

// UpdateProfile builds the SET clause from the patch so untouched fields
// keep their stored values. Email is never part of the clause.
func (s *UserStore) UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.User, error) {
	sets := make([]string, 0, 4)
	args := []any{userID}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.AboutMe != nil {
		add("about_me", *patch.AboutMe)
	}
	if patch.Pronoun != nil {
		add("pronoun", *patch.Pronoun)
	}
	if patch.AvatarURL != nil {
		add("avatar_url", *patch.AvatarURL)
	}
	if len(sets) == 0 {
		return s.GetByID(ctx, userID)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") +
		` WHERE user_id = $1 RETURNING ` + userColumns

	u, err := scanUser(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}
