package repository

import (
	"context"
	"time"

	"github.com/neighborly-app/backend/internal/models"
)

// Every method takes ctx first: all of these hit the backing store, and a
// cancelled request must cancel its query. Stores return (nil, nil) for
// not-found; translating absence into the error taxonomy is the service
// layer's job.

// UserRepository handles profile records.
type UserRepository interface {
	// Create inserts the profile record produced by a first successful
	// identity verification. Email uniqueness is enforced by the store.
	Create(ctx context.Context, user *models.User) error

	// GetByID returns a user by the opaque provider-issued id.
	GetByID(ctx context.Context, userID string) (*models.User, error)

	// GetByEmail looks a user up by normalized email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// GetByIDs returns the users whose ids appear in ids; missing ids are
	// silently absent from the result.
	GetByIDs(ctx context.Context, ids []string) ([]models.User, error)

	// UpdateProfile overwrites exactly the fields set in the patch and
	// returns the updated record. Email is not a patchable field.
	UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.User, error)
}

// BuildingRepository handles building lookup and search.
type BuildingRepository interface {
	GetByID(ctx context.Context, buildingID string) (*models.Building, error)

	// Search returns buildings in the given city and state, optionally
	// narrowed by an address substring, ordered by address.
	Search(ctx context.Context, city, state, addressFilter string) ([]models.Building, error)
}

// MembershipRepository performs the one write that touches two entities.
type MembershipRepository interface {
	// Join atomically adds buildingID to the user's joined set and
	// increments the building's member count, but only on the transition
	// from non-member to member. Returns false with nil error when the user
	// was already a member; the counter is untouched in that case, no
	// matter how many callers race.
	Join(ctx context.Context, userID, buildingID string) (joined bool, err error)
}

// ChannelRepository handles the per-building channel directory.
type ChannelRepository interface {
	GetByID(ctx context.Context, channelID string) (*models.Channel, error)
	ListByBuilding(ctx context.Context, buildingID string) ([]models.Channel, error)
}

// MessageRepository handles the append-only message log.
type MessageRepository interface {
	// Create appends a message, assigning message id, sent time, and the
	// tie-breaking sequence number at write time.
	Create(ctx context.Context, channelID, userID, content, mediaURL string) (*models.Message, error)

	// ListByChannel returns up to limit messages with seq > afterSeq in
	// ascending (sent_time, seq) order. afterSeq 0 starts from the top.
	ListByChannel(ctx context.Context, channelID string, afterSeq int64, limit int) ([]models.Message, error)
}

// ReadStateRepository handles per (user, channel) read markers.
type ReadStateRepository interface {
	// Upsert creates or unconditionally overwrites the marker
	// (last-write-wins; forward-only enforcement is the caller's problem).
	Upsert(ctx context.Context, userID, channelID string, lastRead time.Time) (*models.ReadState, error)

	Get(ctx context.Context, userID, channelID string) (*models.ReadState, error)
}
