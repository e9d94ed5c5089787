package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/Mizuri0x/contentblast/app/models"
)

const (
	usersFile    = "users.json"
	sessionsFile = "sessions.json"
)

// FileStore keeps each collection as a single JSON document on disk. Every
// read loads the whole document and every mutation rewrites it atomically
// (temp file + rename). The mutex serializes the load-mutate-rewrite span.
type FileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore creates the data directory if needed and returns a store
// rooted at it.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

// Users returns the user collection view of the store.
func (f *FileStore) Users() *FileUsers { return &FileUsers{fs: f} }

// Sessions returns the session collection view of the store.
func (f *FileStore) Sessions() *FileSessions { return &FileSessions{fs: f} }

func (f *FileStore) load(name string, v any) error {
	b, err := os.ReadFile(filepath.Join(f.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	return json.Unmarshal(b, v)
}

func (f *FileStore) save(name string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.dir, name+".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(f.dir, name))
}

type FileUsers struct {
	fs *FileStore
}

var _ UserStore = (*FileUsers)(nil)

func (u *FileUsers) Get(ctx context.Context, email string) (models.User, error) {
	u.fs.mu.Lock()
	defer u.fs.mu.Unlock()

	users := map[string]models.User{}
	if err := u.fs.load(usersFile, &users); err != nil {
		return models.User{}, err
	}
	user, ok := users[email]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (u *FileUsers) Put(ctx context.Context, user models.User) error {
	u.fs.mu.Lock()
	defer u.fs.mu.Unlock()

	users := map[string]models.User{}
	if err := u.fs.load(usersFile, &users); err != nil {
		return err
	}
	users[user.Email] = user
	return u.fs.save(usersFile, users)
}

type FileSessions struct {
	fs *FileStore
}

var _ SessionStore = (*FileSessions)(nil)

func (s *FileSessions) Get(ctx context.Context, token string) (models.Session, error) {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	sessions := map[string]models.Session{}
	if err := s.fs.load(sessionsFile, &sessions); err != nil {
		return models.Session{}, err
	}
	sess, ok := sessions[token]
	if !ok {
		return models.Session{}, ErrNotFound
	}
	sess.Token = token
	return sess, nil
}

func (s *FileSessions) Put(ctx context.Context, session models.Session) error {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	sessions := map[string]models.Session{}
	if err := s.fs.load(sessionsFile, &sessions); err != nil {
		return err
	}
	sessions[session.Token] = session
	return s.fs.save(sessionsFile, sessions)
}

func (s *FileSessions) Delete(ctx context.Context, token string) error {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	sessions := map[string]models.Session{}
	if err := s.fs.load(sessionsFile, &sessions); err != nil {
		return err
	}
	if _, ok := sessions[token]; !ok {
		return nil
	}
	delete(sessions, token)
	return s.fs.save(sessionsFile, sessions)
}
