package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/neighborly-app/backend/internal/apperr"
	"github.com/neighborly-app/backend/internal/models"
	"github.com/neighborly-app/backend/internal/repository"
)

// fixture is the in-memory store shared by the mock repositories. A single
// lock stands in for the row-level serialization the real store provides,
// which is what the concurrent-join test depends on.
type fixture struct {
	mu         sync.Mutex
	users      map[string]*models.User
	buildings  map[string]*models.Building
	channels   map[string]*models.Channel
	messages   []models.Message
	readStates map[string]models.ReadState
	nextSeq    int64
	now        func() time.Time
}

func newFixture() *fixture {
	return &fixture{
		users:      make(map[string]*models.User),
		buildings:  make(map[string]*models.Building),
		channels:   make(map[string]*models.Channel),
		readStates: make(map[string]models.ReadState),
		now:        time.Now,
	}
}

func (f *fixture) addUser(u models.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.JoinedBuildings == nil {
		u.JoinedBuildings = []string{}
	}
	f.users[u.ID] = &u
}

func (f *fixture) addBuilding(b models.Building) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.buildings[b.ID] = &b
}

func (f *fixture) addChannel(ch models.Channel) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels[ch.ID] = &ch
}

// addMessage seeds a message with an explicit seq and sent time, for cases
// where the two disagree (concurrent writers get sequence slots in a
// different order than their clock reads).
func (f *fixture) addMessage(msg models.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if msg.Seq > f.nextSeq {
		f.nextSeq = msg.Seq
	}
	f.messages = append(f.messages, msg)
}

func copyUser(u *models.User) *models.User {
	cp := *u
	cp.JoinedBuildings = append([]string(nil), u.JoinedBuildings...)
	return &cp
}

// steppingClock returns a clock that advances by step on every read, so
// consecutive messages get strictly increasing sent times.
func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(step)
		return t
	}
}

// fixedClock always returns the same instant; used to force sent-time ties.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// --- repository implementations over the fixture ---

type mockUserRepo struct{ f *fixture }

var _ repository.UserRepository = (*mockUserRepo)(nil)

func (m *mockUserRepo) Create(ctx context.Context, user *models.User) error {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	for _, u := range m.f.users {
		if u.Email == user.Email {
			return apperr.ErrEmailTaken
		}
	}
	user.CreatedTime = m.f.now()
	user.JoinedBuildings = []string{}
	m.f.users[user.ID] = copyUser(user)
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, userID string) (*models.User, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	u, ok := m.f.users[userID]
	if !ok {
		return nil, nil
	}
	return copyUser(u), nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	for _, u := range m.f.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]models.User, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	users := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.f.users[id]; ok {
			users = append(users, *copyUser(u))
		}
	}
	return users, nil
}

func (m *mockUserRepo) UpdateProfile(ctx context.Context, userID string, patch models.ProfilePatch) (*models.User, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	u, ok := m.f.users[userID]
	if !ok {
		return nil, nil
	}
	if patch.Username != nil {
		username := *patch.Username
		u.Username = &username
	}
	if patch.AboutMe != nil {
		u.AboutMe = *patch.AboutMe
	}
	if patch.Pronoun != nil {
		u.Pronoun = *patch.Pronoun
	}
	if patch.AvatarURL != nil {
		u.AvatarURL = *patch.AvatarURL
	}
	return copyUser(u), nil
}

type mockBuildingRepo struct{ f *fixture }

var _ repository.BuildingRepository = (*mockBuildingRepo)(nil)

func (m *mockBuildingRepo) GetByID(ctx context.Context, buildingID string) (*models.Building, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	b, ok := m.f.buildings[buildingID]
	if !ok {
		return nil, nil
	}
	cp := *b
	return &cp, nil
}

func (m *mockBuildingRepo) Search(ctx context.Context, city, state, addressFilter string) ([]models.Building, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	results := make([]models.Building, 0)
	for _, b := range m.f.buildings {
		if b.City != city || b.State != state {
			continue
		}
		if addressFilter != "" && !containsFold(b.Address, addressFilter) {
			continue
		}
		results = append(results, *b)
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Address < results[j].Address })
	return results, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

type mockMembershipRepo struct{ f *fixture }

var _ repository.MembershipRepository = (*mockMembershipRepo)(nil)

// Join mirrors the store's conditional transaction: the append happens only
// if the set does not already contain the building, and the counter moves
// only when the append did.
func (m *mockMembershipRepo) Join(ctx context.Context, userID, buildingID string) (bool, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()

	u, ok := m.f.users[userID]
	if !ok {
		return false, nil
	}
	for _, b := range u.JoinedBuildings {
		if b == buildingID {
			return false, nil
		}
	}

	b, ok := m.f.buildings[buildingID]
	if !ok {
		return false, fmt.Errorf("increment member count: building %s not found", buildingID)
	}

	u.JoinedBuildings = append(u.JoinedBuildings, buildingID)
	b.MemberCount++
	return true, nil
}

type mockChannelRepo struct{ f *fixture }

var _ repository.ChannelRepository = (*mockChannelRepo)(nil)

func (m *mockChannelRepo) GetByID(ctx context.Context, channelID string) (*models.Channel, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	ch, ok := m.f.channels[channelID]
	if !ok {
		return nil, nil
	}
	cp := *ch
	return &cp, nil
}

func (m *mockChannelRepo) ListByBuilding(ctx context.Context, buildingID string) ([]models.Channel, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	channels := make([]models.Channel, 0)
	for _, ch := range m.f.channels {
		if ch.BuildingID == buildingID {
			channels = append(channels, *ch)
		}
	}
	sort.Slice(channels, func(i, j int) bool { return channels[i].Name < channels[j].Name })
	return channels, nil
}

type mockMessageRepo struct{ f *fixture }

var _ repository.MessageRepository = (*mockMessageRepo)(nil)

func (m *mockMessageRepo) Create(ctx context.Context, channelID, userID, content, mediaURL string) (*models.Message, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	m.f.nextSeq++
	msg := models.Message{
		Seq:       m.f.nextSeq,
		ID:        fmt.Sprintf("msg-%d", m.f.nextSeq),
		ChannelID: channelID,
		UserID:    userID,
		Content:   content,
		MediaURL:  mediaURL,
		SentTime:  m.f.now(),
	}
	m.f.messages = append(m.f.messages, msg)
	return &msg, nil
}

func (m *mockMessageRepo) ListByChannel(ctx context.Context, channelID string, afterSeq int64, limit int) ([]models.Message, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	result := make([]models.Message, 0)
	for _, msg := range m.f.messages {
		if msg.ChannelID == channelID && msg.Seq > afterSeq {
			result = append(result, msg)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Seq < result[j].Seq })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

type mockReadStateRepo struct{ f *fixture }

var _ repository.ReadStateRepository = (*mockReadStateRepo)(nil)

func readStateKey(userID, channelID string) string {
	return userID + "|" + channelID
}

func (m *mockReadStateRepo) Upsert(ctx context.Context, userID, channelID string, lastRead time.Time) (*models.ReadState, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	rs := models.ReadState{UserID: userID, ChannelID: channelID, LastReadTime: lastRead}
	m.f.readStates[readStateKey(userID, channelID)] = rs
	return &rs, nil
}

func (m *mockReadStateRepo) Get(ctx context.Context, userID, channelID string) (*models.ReadState, error) {
	m.f.mu.Lock()
	defer m.f.mu.Unlock()
	rs, ok := m.f.readStates[readStateKey(userID, channelID)]
	if !ok {
		return nil, nil
	}
	return &rs, nil
}
