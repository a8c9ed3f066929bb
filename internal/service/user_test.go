package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neighborly-app/backend/internal/apperr"
	"github.com/neighborly-app/backend/internal/models"
	"github.com/neighborly-app/backend/internal/observ"
)

func strPtr(s string) *string { return &s }

func newUserFixture() (*fixture, *UserService) {
	f := newFixture()
	svc := NewUserService(&mockUserRepo{f: f}, observ.Nop())
	return f, svc
}

func TestUpdateProfile_TrimsUsername(t *testing.T) {
	t.Parallel()

	f, svc := newUserFixture()
	f.addUser(models.User{ID: "alice", Email: "alice@example.com"})

	user, err := svc.UpdateProfile(context.Background(), "alice", UpdateProfileInput{
		Username: strPtr("  Bob  "),
	})
	require.NoError(t, err)
	require.NotNil(t, user.Username)
	require.Equal(t, "Bob", *user.Username)
}

func TestUpdateProfile_RejectsBlankUsername(t *testing.T) {
	t.Parallel()

	f, svc := newUserFixture()
	f.addUser(models.User{ID: "alice", Email: "alice@example.com", Username: strPtr("alice")})

	for _, username := range []string{"", "   "} {
		_, err := svc.UpdateProfile(context.Background(), "alice", UpdateProfileInput{
			Username: strPtr(username),
		})
		require.ErrorIs(t, err, apperr.ErrValidation)
	}

	user, err := svc.Get(context.Background(), "alice")
	require.NoError(t, err)
	require.Equal(t, "alice", *user.Username, "rejected update leaves the profile untouched")
}

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	t.Parallel()

	f, svc := newUserFixture()
	f.addUser(models.User{
		ID:       "alice",
		Email:    "alice@example.com",
		Username: strPtr("alice"),
		AboutMe:  "old blurb",
	})

	user, err := svc.UpdateProfile(context.Background(), "alice", UpdateProfileInput{
		AboutMe: strPtr("new blurb"),
		Pronoun: strPtr("she/her"),
	})
	require.NoError(t, err)
	require.Equal(t, "new blurb", user.AboutMe)
	require.Equal(t, "she/her", user.Pronoun)
	require.Equal(t, "alice", *user.Username, "unsupplied fields keep their values")
	require.Equal(t, "alice@example.com", user.Email, "email is immutable")
}

func TestUpdateProfile_ClearsOptionalFields(t *testing.T) {
	t.Parallel()

	f, svc := newUserFixture()
	f.addUser(models.User{ID: "alice", Email: "alice@example.com", AboutMe: "something"})

	user, err := svc.UpdateProfile(context.Background(), "alice", UpdateProfileInput{
		AboutMe: strPtr(""),
	})
	require.NoError(t, err)
	require.Empty(t, user.AboutMe)
}

func TestUpdateProfile_UserNotFound(t *testing.T) {
	t.Parallel()

	_, svc := newUserFixture()

	_, err := svc.UpdateProfile(context.Background(), "ghost", UpdateProfileInput{
		AboutMe: strPtr("hello"),
	})
	require.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestGet_NotFound(t *testing.T) {
	t.Parallel()

	_, svc := newUserFixture()

	_, err := svc.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, apperr.ErrUserNotFound)
}

func TestGetByIDs(t *testing.T) {
	t.Parallel()

	f, svc := newUserFixture()
	f.addUser(models.User{ID: "alice", Email: "alice@example.com"})
	f.addUser(models.User{ID: "bob", Email: "bob@example.com"})

	users, err := svc.GetByIDs(context.Background(), []string{"alice", "bob", "ghost"})
	require.NoError(t, err)
	require.Len(t, users, 2, "missing ids are silently absent")
}

func TestGetByIDs_CapsBatchSize(t *testing.T) {
	t.Parallel()

	_, svc := newUserFixture()

	ids := make([]string, maxBatchLookup+1)
	for i := range ids {
		ids[i] = "user"
	}
	_, err := svc.GetByIDs(context.Background(), ids)
	require.ErrorIs(t, err, apperr.ErrValidation)
}
