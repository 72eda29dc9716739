package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/skillswap/backend/internal/logger"
	"github.com/skillswap/backend/internal/models"
	"github.com/skillswap/backend/internal/repository"
	"github.com/skillswap/backend/internal/ws"
)

func init() {
	logger.Discard()
}

// memoryUsers — пользователи и сессии в памяти. Реализует AuthRepository,
// ProfileRepository, UserDirectory и PhotoOwner.
type memoryUsers struct {
	mu       sync.Mutex
	byID     map[uuid.UUID]*models.User
	sessions map[string]*models.Session
	logins   int
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{
		byID:     make(map[uuid.UUID]*models.User),
		sessions: make(map[string]*models.Session),
	}
}

func (m *memoryUsers) add(name string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	u := &models.User{ID: uuid.New(), Name: name, Email: name + "@example.com"}
	m.byID[u.ID] = u
	return u
}

func (m *memoryUsers) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	copied := *user
	m.byID[user.ID] = &copied
	return nil
}

func (m *memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *memoryUsers) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.byID[id]
	return ok, nil
}

func (m *memoryUsers) ListShort(ctx context.Context, ids []uuid.UUID) ([]models.UserShort, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.UserShort, 0, len(ids))
	for _, id := range ids {
		if u, ok := m.byID[id]; ok {
			out = append(out, models.UserShort{ID: u.ID, Name: u.Name, PhotoURL: u.PhotoURL})
		}
	}
	return out, nil
}

func (m *memoryUsers) UpdateProfile(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[user.ID]; !ok {
		return repository.ErrUserNotFound
	}
	copied := *user
	m.byID[user.ID] = &copied
	return nil
}

func (m *memoryUsers) UpdatePhoto(ctx context.Context, userID uuid.UUID, photoURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PhotoURL = photoURL
	return nil
}

func (m *memoryUsers) SetAvailability(ctx context.Context, userID uuid.UUID, availability models.Availability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.Availability = availability
	return nil
}

func (m *memoryUsers) CreateSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.ID = uuid.New()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *memoryUsers) DeleteSession(ctx context.Context, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, refreshToken)
	return nil
}

func (m *memoryUsers) SessionExists(ctx context.Context, refreshToken string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[refreshToken]
	return ok && s.ExpiresAt.After(time.Now()), nil
}

func (m *memoryUsers) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logins++
	return nil
}

// memorySkills — навыки в памяти, реализует SkillRepository.
// Список с владельцами соединяется с memoryUsers как LEFT JOIN,
// порядок выдачи такой же, как у SQL: created_at, затем position.
type memorySkills struct {
	mu     sync.Mutex
	users  *memoryUsers
	rows   []models.Skill
	listed int
}

func newMemorySkills(users *memoryUsers) *memorySkills {
	return &memorySkills{users: users}
}

func (m *memorySkills) ListWithUsers(ctx context.Context, excludeUserID uuid.UUID) ([]models.SkillWithUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listed++

	out := make([]models.SkillWithUser, 0, len(m.rows))
	for _, s := range m.ordered() {
		if excludeUserID != uuid.Nil && s.UserID == excludeUserID {
			continue
		}
		row := models.SkillWithUser{Skill: s}
		if u, err := m.users.GetByID(ctx, s.UserID); err == nil {
			name, photo := u.Name, u.PhotoURL
			rating, reviews := u.Rating, u.ReviewCount
			row.UserName, row.UserPhotoURL = &name, &photo
			row.UserRating, row.UserReviewCount = &rating, &reviews
			row.UserExists = true
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *memorySkills) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Skill{}
	for _, s := range m.ordered() {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m *memorySkills) GetByID(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.ID == id {
			copied := s
			return &copied, nil
		}
	}
	return nil, repository.ErrSkillNotFound
}

func (m *memorySkills) Create(ctx context.Context, s *models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = uuid.New()
	s.CreatedAt = time.Now()
	s.Position = 0
	for _, row := range m.rows {
		if row.UserID == s.UserID && row.Position >= s.Position {
			s.Position = row.Position + 1
		}
	}
	m.rows = append(m.rows, *s)
	return nil
}

func (m *memorySkills) Update(ctx context.Context, s *models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == s.ID {
			m.rows[i] = *s
			return nil
		}
	}
	return repository.ErrSkillNotFound
}

func (m *memorySkills) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return repository.ErrSkillNotFound
}

func (m *memorySkills) ReplaceForUser(ctx context.Context, userID uuid.UUID, skills []models.Skill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	for _, s := range m.rows {
		if s.UserID != userID {
			kept = append(kept, s)
		}
	}
	m.rows = kept
	// Одна транзакция: у всех строк общий created_at.
	now := time.Now()
	for i := range skills {
		skills[i].ID = uuid.New()
		skills[i].CreatedAt = now
		skills[i].Position = i
		m.rows = append(m.rows, skills[i])
	}
	return nil
}

// ordered возвращает копию строк в порядке выдачи. Вызывается под m.mu.
func (m *memorySkills) ordered() []models.Skill {
	out := append([]models.Skill(nil), m.rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Position < out[j].Position
	})
	return out
}

// recordedEvent — событие, отправленное через recordingNotifier.
type recordedEvent struct {
	Room   string
	UserID uuid.UUID
	Event  string
	Data   any
}

// recordingNotifier запоминает рассылки вместо доставки по сокетам.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) BroadcastToUser(userID uuid.UUID, event string, data any) error {
	n.record(recordedEvent{UserID: userID, Event: event, Data: data})
	return nil
}

func (n *recordingNotifier) BroadcastToRoom(room string, event string, data any, except *ws.Client) error {
	n.record(recordedEvent{Room: room, Event: event, Data: data})
	return nil
}

func (n *recordingNotifier) BroadcastToRoomAndUser(room string, userID uuid.UUID, event string, data any) error {
	n.record(recordedEvent{Room: room, UserID: userID, Event: event, Data: data})
	return nil
}

func (n *recordingNotifier) record(e recordedEvent) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
}

func (n *recordingNotifier) all() []recordedEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]recordedEvent(nil), n.events...)
}
