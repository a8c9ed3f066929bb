package models

import (
	"time"
)

// User is a resident profile. The ID is issued by the identity provider at
// registration and is opaque to the rest of the system; we never parse it.
//
// Email is immutable after creation. JoinedBuildings is the authoritative
// record of membership; Building.MemberCount is derived from it and is kept
// in step by the membership service, never written independently.
type User struct {
	ID              string    `json:"userId"`
	Email           string    `json:"email"`
	Username        *string   `json:"username"`
	AboutMe         string    `json:"aboutMe,omitempty"`
	Pronoun         string    `json:"pronoun,omitempty"`
	AvatarURL       string    `json:"avatarUrl,omitempty"`
	JoinedBuildings []string  `json:"joinedBuildings"`
	CreatedTime     time.Time `json:"createdTime"`

	// PasswordHash is held by the identity facade only and never serialized.
	PasswordHash string `json:"-"`
}

// IsMemberOf reports whether the user has joined the given building.
func (u *User) IsMemberOf(buildingID string) bool {
	for _, b := range u.JoinedBuildings {
		if b == buildingID {
			return true
		}
	}
	return false
}

// Building is a physical residence users organize around. Buildings are
// provisioned out of band (seed data / ops tooling); the only field mutated
// at runtime is MemberCount, and only by the membership service.
type Building struct {
	ID          string    `json:"buildingId"`
	Country     string    `json:"country"`
	State       string    `json:"state"`
	City        string    `json:"city"`
	Address     string    `json:"address"`
	Name        string    `json:"name,omitempty"`
	MemberCount int       `json:"memberCount"`
	CreatedTime time.Time `json:"createdTime"`
}

// Channel is a discussion topic scoped to exactly one building. Channels are
// created during building setup and are immutable here.
type Channel struct {
	ID          string    `json:"channelId"`
	BuildingID  string    `json:"buildingId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedTime time.Time `json:"createdTime"`
}

// Message is one entry in a channel's append-only log.
//
// SentTime is assigned by the server at accept time, never taken from the
// client. Seq is a store-generated strictly increasing key; it breaks
// same-millisecond SentTime ties so every channel has a stable total order.
// Seq is also the pagination cursor and is not exposed in JSON; clients see
// only the opaque next_token.
type Message struct {
	Seq       int64     `json:"-"`
	ID        string    `json:"messageId"`
	ChannelID string    `json:"channelId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	MediaURL  string    `json:"mediaUrl,omitempty"`
	SentTime  time.Time `json:"sentTime"`
}

// ReadState records the last time a user is known to have viewed a channel.
// One row per (user, channel); updates are last-write-wins.
type ReadState struct {
	UserID       string    `json:"userId"`
	ChannelID    string    `json:"channelId"`
	LastReadTime time.Time `json:"lastReadTime"`
}

// ProfilePatch is a partial profile update. Nil means "leave unchanged";
// a non-nil empty string clears the field. Email is deliberately absent.
type ProfilePatch struct {
	Username  *string
	AboutMe   *string
	Pronoun   *string
	AvatarURL *string
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Username == nil && p.AboutMe == nil && p.Pronoun == nil && p.AvatarURL == nil
}
