// Package auth issues and resolves opaque session tokens for logged-in users.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/Mizuri0x/contentblast/app/models"
	"github.com/Mizuri0x/contentblast/store"
)

// SessionTTL is how long a login session stays valid.
const SessionTTL = 7 * 24 * time.Hour

// 32 bytes of entropy makes token collisions a non-concern.
const tokenBytes = 32

// Sessions manages server-side login sessions behind a SessionStore port.
type Sessions struct {
	store store.SessionStore

	// Now is the clock used for issuing and expiry checks. Tests override it.
	Now func() time.Time
}

// NewSessions creates a session manager over the given store.
func NewSessions(st store.SessionStore) *Sessions {
	return &Sessions{store: st, Now: time.Now}
}

// Create issues a fresh token for email and persists the session.
func (s *Sessions) Create(ctx context.Context, email string) (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := base64.RawURLEncoding.EncodeToString(b)

	now := s.Now()
	sess := models.Session{
		Token:     token,
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(SessionTTL),
	}
	if err := s.store.Put(ctx, sess); err != nil {
		return "", err
	}
	return token, nil
}

// Resolve returns the email owning the token. A missing or expired token is
// not an error: ok is false and the caller treats the request as anonymous.
// Expired sessions are purged on lookup.
func (s *Sessions) Resolve(ctx context.Context, token string) (email string, ok bool, err error) {
	if token == "" {
		return "", false, nil
	}
	sess, err := s.store.Get(ctx, token)
	if errors.Is(err, store.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if sess.Expired(s.Now()) {
		if err := s.store.Delete(ctx, token); err != nil {
			return "", false, err
		}
		return "", false, nil
	}
	return sess.Email, true, nil
}

// Destroy removes the session. Unknown tokens are a no-op.
func (s *Sessions) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.store.Delete(ctx, token)
}
