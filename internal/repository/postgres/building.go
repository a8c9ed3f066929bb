package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/neighborly-app/backend/internal/models"
)

const buildingColumns = `building_id, country, state, city, address, name, member_count, created_time`

type BuildingStore struct {
	pool *pgxpool.Pool
}

func NewBuildingStore(pool *pgxpool.Pool) *BuildingStore {
	return &BuildingStore{pool: pool}
}

func scanBuilding(row pgx.Row) (*models.Building, error) {
	var b models.Building
	err := row.Scan(
		&b.ID,
		&b.Country,
		&b.State,
		&b.City,
		&b.Address,
		&b.Name,
		&b.MemberCount,
		&b.CreatedTime,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *BuildingStore) GetByID(ctx context.Context, buildingID string) (*models.Building, error) {
	query := `SELECT ` + buildingColumns + ` FROM buildings WHERE building_id = $1`

	b, err := scanBuilding(s.pool.QueryRow(ctx, query, buildingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get building: %w", err)
	}
	return b, nil
}

// Search is always scoped to a city and state; the optional address filter
// is a case-insensitive substring match, matching how the client's search
// screen narrows results as the user types.
func (s *BuildingStore) Search(ctx context.Context, city, state, addressFilter string) ([]models.Building, error) {
	var query string
	var args []any

	if addressFilter != "" {
		query = `
			SELECT ` + buildingColumns + `
			FROM buildings
			WHERE city = $1 AND state = $2 AND address ILIKE '%' || $3 || '%'
			ORDER BY address`
		args = []any{city, state, addressFilter}
	} else {
		query = `
			SELECT ` + buildingColumns + `
			FROM buildings
			WHERE city = $1 AND state = $2
			ORDER BY address`
		args = []any{city, state}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search buildings: %w", err)
	}
	defer rows.Close()

	buildings := make([]models.Building, 0)
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, fmt.Errorf("scan building: %w", err)
		}
		buildings = append(buildings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate buildings: %w", err)
	}

	return buildings, nil
}
