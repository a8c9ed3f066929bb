package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neighborly-app/backend/internal/apperr"
	"github.com/neighborly-app/backend/internal/models"
	"github.com/neighborly-app/backend/internal/observ"
)

func newMembershipFixture() (*fixture, *MembershipService) {
	f := newFixture()
	svc := NewMembershipService(
		&mockUserRepo{f: f},
		&mockBuildingRepo{f: f},
		&mockMembershipRepo{f: f},
		observ.Nop(),
	)
	return f, svc
}

func TestJoinBuilding_NewMember(t *testing.T) {
	t.Parallel()

	f, svc := newMembershipFixture()
	f.addUser(models.User{ID: "alice", Email: "alice@example.com"})
	f.addBuilding(models.Building{ID: "B1", City: "Waterloo", State: "ON", MemberCount: 5})

	result, err := svc.JoinBuilding(context.Background(), "alice", "B1")
	require.NoError(t, err)
	require.False(t, result.AlreadyMember)
	require.Equal(t, 6, result.Building.MemberCount)

	alice, err := (&mockUserRepo{f: f}).GetByID(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"B1"}, alice.JoinedBuildings)
}

func TestJoinBuilding_Idempotent(t *testing.T) {
	t.Parallel()

	f, svc := newMembershipFixture()
	f.addUser(models.User{ID: "alice", Email: "alice@example.com"})
	f.addBuilding(models.Building{ID: "B1", MemberCount: 5})

	_, err := svc.JoinBuilding(context.Background(), "alice", "B1")
	require.NoError(t, err)

	result, err := svc.JoinBuilding(context.Background(), "alice", "B1")
	require.NoError(t, err)
	require.True(t, result.AlreadyMember)
	require.Equal(t, 6, result.Building.MemberCount)

	alice, err := (&mockUserRepo{f: f}).GetByID(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"B1"}, alice.JoinedBuildings, "no duplicate entries")
}

func TestJoinBuilding_UserNotFound(t *testing.T) {
	t.Parallel()

	f, svc := newMembershipFixture()
	f.addBuilding(models.Building{ID: "B1", MemberCount: 5})

	_, err := svc.JoinBuilding(context.Background(), "ghost", "B1")
	require.ErrorIs(t, err, apperr.ErrUserNotFound)

	b, err := (&mockBuildingRepo{f: f}).GetByID(context.Background(), "B1")
	require.NoError(t, err)
	require.Equal(t, 5, b.MemberCount, "no mutation on failed precondition")
}

func TestJoinBuilding_BuildingNotFound(t *testing.T) {
	t.Parallel()

	f, svc := newMembershipFixture()
	f.addUser(models.User{ID: "alice", Email: "alice@example.com"})

	_, err := svc.JoinBuilding(context.Background(), "alice", "nowhere")
	require.ErrorIs(t, err, apperr.ErrBuildingNotFound)

	alice, err := (&mockUserRepo{f: f}).GetByID(context.Background(), "alice")
	require.NoError(t, err)
	require.Empty(t, alice.JoinedBuildings, "no mutation on failed precondition")
}

// Concurrent duplicate joins must move the counter by at most one in total.
func TestJoinBuilding_Concurrent(t *testing.T) {
	t.Parallel()

	f, svc := newMembershipFixture()
	f.addUser(models.User{ID: "alice", Email: "alice@example.com"})
	f.addBuilding(models.Building{ID: "B1", MemberCount: 10})

	const callers = 50
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	var mu sync.Mutex
	firstJoins := 0

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := svc.JoinBuilding(context.Background(), "alice", "B1")
			if err != nil {
				errs <- err
				return
			}
			if !result.AlreadyMember {
				mu.Lock()
				firstJoins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, 1, firstJoins, "exactly one caller observes the transition")

	b, err := (&mockBuildingRepo{f: f}).GetByID(context.Background(), "B1")
	require.NoError(t, err)
	require.Equal(t, 11, b.MemberCount)

	alice, err := (&mockUserRepo{f: f}).GetByID(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, []string{"B1"}, alice.JoinedBuildings)
}
