package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/neighborly-app/backend/internal/apperr"
	"github.com/neighborly-app/backend/internal/models"
	"github.com/neighborly-app/backend/internal/repository"
)

// MembershipService owns the one operation that mutates two entities: the
// user's joined-buildings set and the building's member counter. Nothing
// else in the system writes member_count.
type MembershipService struct {
	users      repository.UserRepository
	buildings  repository.BuildingRepository
	membership repository.MembershipRepository
	logger     *zap.Logger
}

func NewMembershipService(
	users repository.UserRepository,
	buildings repository.BuildingRepository,
	membership repository.MembershipRepository,
	logger *zap.Logger,
) *MembershipService {
	return &MembershipService{
		users:      users,
		buildings:  buildings,
		membership: membership,
		logger:     logger,
	}
}

// JoinResult reports the outcome of a join. AlreadyMember is success, not an
// error: joining twice is an idempotent no-op.
type JoinResult struct {
	AlreadyMember bool             `json:"alreadyMember"`
	Building      *models.Building `json:"building"`
}

// JoinBuilding adds the user to the building. Both entities are verified to
// exist before any write, so a failure can never leave a partial mutation.
// The write itself is a single conditional transaction: the member counter
// moves by exactly one on the non-member-to-member transition and by zero in
// every other case, including concurrent duplicate joins.
func (s *MembershipService) JoinBuilding(ctx context.Context, userID, buildingID string) (*JoinResult, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("join building: %w", err)
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}

	building, err := s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("join building: %w", err)
	}
	if building == nil {
		return nil, apperr.ErrBuildingNotFound
	}

	if user.IsMemberOf(buildingID) {
		return &JoinResult{AlreadyMember: true, Building: building}, nil
	}

	joined, err := s.membership.Join(ctx, userID, buildingID)
	if err != nil {
		return nil, fmt.Errorf("join building: %w", err)
	}
	if !joined {
		// Lost a race against another join for the same pair; the other
		// caller's increment already landed.
		return &JoinResult{AlreadyMember: true, Building: building}, nil
	}

	s.logger.Info("user joined building",
		zap.String("user_id", userID),
		zap.String("building_id", buildingID),
	)

	// Re-read so the response carries the post-increment count.
	building, err = s.buildings.GetByID(ctx, buildingID)
	if err != nil {
		return nil, fmt.Errorf("join building: %w", err)
	}
	return &JoinResult{AlreadyMember: false, Building: building}, nil
}
