package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"session-auth/internal/model"
)

// MemoryUserRepository keeps users in process memory. It backs the
// "memory" store driver and tests; data does not survive a restart.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: map[string]model.User{}}
}

func (r *MemoryUserRepository) FindByUsername(_ context.Context, username string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return model.User{}, model.ErrUserNotFound
	}
	u.PasswordHash = slices.Clone(u.PasswordHash)
	return u, nil
}

func (r *MemoryUserRepository) Create(_ context.Context, u model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.Username]; exists {
		return model.ErrUserAlreadyExists
	}
	u.PasswordHash = slices.Clone(u.PasswordHash)
	r.users[u.Username] = u
	return nil
}

func (r *MemoryUserRepository) UpdatePassword(_ context.Context, username string, passwordHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = slices.Clone(passwordHash)
	u.UpdatedAt = time.Now().UTC()
	r.users[username] = u
	return nil
}

func (r *MemoryUserRepository) UpdateRole(_ context.Context, username string, role model.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[username]
	if !ok {
		return model.ErrUserNotFound
	}
	u.Role = role
	u.UpdatedAt = time.Now().UTC()
	r.users[username] = u
	return nil
}

type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]model.Session
}

func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{sessions: map[uuid.UUID]model.Session{}}
}

func (r *MemorySessionRepository) Create(_ context.Context, s model.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[s.ID] = cloneSession(s)
	return nil
}

func (r *MemorySessionRepository) SetLogout(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return false, nil
	}
	s.LogoutTime = &at
	r.sessions[id] = s
	return true, nil
}

func (r *MemorySessionRepository) ListByLoginTimeDesc(_ context.Context) ([]model.Session, error) {
	r.mu.RLock()
	sessions := make([]model.Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, cloneSession(s))
	}
	r.mu.RUnlock()

	slices.SortStableFunc(sessions, func(a, b model.Session) int {
		return b.LoginTime.Compare(a.LoginTime)
	})
	return sessions, nil
}

func (r *MemorySessionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return model.ErrSessionNotFound
	}
	delete(r.sessions, id)
	return nil
}

// Get returns a copy of one session; used by tests and diagnostics.
func (r *MemorySessionRepository) Get(id uuid.UUID) (model.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return cloneSession(s), ok
}

func (r *MemorySessionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

func cloneSession(s model.Session) model.Session {
	if s.LogoutTime != nil {
		t := *s.LogoutTime
		s.LogoutTime = &t
	}
	return s
}
