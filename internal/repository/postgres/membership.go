package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type MembershipStore struct {
	pool *pgxpool.Pool
}

func NewMembershipStore(pool *pgxpool.Pool) *MembershipStore {
	return &MembershipStore{pool: pool}
}

// Join runs the set-append and the counter increment in one transaction.
//
// The append is conditioned on the set not already containing the building
// (`NOT joined_buildings @> ...`), so concurrent joins for the same
// (user, building) pair serialize on the user row and at most one of them
// sees RowsAffected == 1. Only that one increments member_count; the
// counter can never drift ahead of the set.
func (s *MembershipStore) Join(ctx context.Context, userID, buildingID string) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin join: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE users
		SET joined_buildings = array_append(joined_buildings, $2)
		WHERE user_id = $1 AND NOT (joined_buildings @> ARRAY[$2])`,
		userID, buildingID)
	if err != nil {
		return false, fmt.Errorf("append membership: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already a member (or the user vanished; the service checked
		// existence before calling). Nothing to commit.
		return false, nil
	}

	tag, err = tx.Exec(ctx, `
		UPDATE buildings
		SET member_count = member_count + 1
		WHERE building_id = $1`,
		buildingID)
	if err != nil {
		return false, fmt.Errorf("increment member count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Building disappeared between the service's check and this write.
		// Roll the set-append back rather than leave the two out of step.
		return false, fmt.Errorf("increment member count: building %s not found", buildingID)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit join: %w", err)
	}
	return true, nil
}
