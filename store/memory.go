package store

import (
	"context"
	"sync"

	"github.com/Mizuri0x/contentblast/app/models"
)

// Memory is a mutex-guarded in-memory store used by tests and the
// STORE_DRIVER=memory mode.
type Memory struct {
	mu       sync.RWMutex
	users    map[string]models.User
	sessions map[string]models.Session
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		users:    make(map[string]models.User),
		sessions: make(map[string]models.Session),
	}
}

// Users returns the user collection view of the store.
func (m *Memory) Users() *MemoryUsers { return &MemoryUsers{m: m} }

// Sessions returns the session collection view of the store.
func (m *Memory) Sessions() *MemorySessions { return &MemorySessions{m: m} }

type MemoryUsers struct {
	m *Memory
}

var _ UserStore = (*MemoryUsers)(nil)

func (u *MemoryUsers) Get(ctx context.Context, email string) (models.User, error) {
	u.m.mu.RLock()
	defer u.m.mu.RUnlock()

	user, ok := u.m.users[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (u *MemoryUsers) Put(ctx context.Context, user models.User) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()

	u.m.users[user.Email] = user
	return nil
}

type MemorySessions struct {
	m *Memory
}

var _ SessionStore = (*MemorySessions)(nil)

func (s *MemorySessions) Get(ctx context.Context, token string) (models.Session, error) {
	s.m.mu.RLock()
	defer s.m.mu.RUnlock()

	sess, ok := s.m.sessions[token]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	sess.Token = token
	return sess, nil
}

func (s *MemorySessions) Put(ctx context.Context, session models.Session) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	s.m.sessions[session.Token] = session
	return nil
}

func (s *MemorySessions) Delete(ctx context.Context, token string) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()

	delete(s.m.sessions, token)
	return nil
}
