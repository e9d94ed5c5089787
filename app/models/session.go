package models

import "time"

// Session is a server-side login session addressed by an opaque token.
// The token is the storage key, never part of the persisted value.
type Session struct {
	Token     string    `json:"-"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given time.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
