// Package store provides keyed persistence ports for users and sessions,
// with file, in-memory, Postgres and Redis adapters behind them.
package store

import (
	"context"
	"errors"

	"github.com/Mizuri0x/contentblast/app/models"
)

// ErrNotFound indicates the requested key does not exist in the collection.
var ErrNotFound = errors.New("record not found")

// UserStore persists users keyed by normalized email.
type UserStore interface {
	Get(ctx context.Context, email string) (models.User, error)
	Put(ctx context.Context, user models.User) error
}

// SessionStore persists sessions keyed by opaque token. Deleting an absent
// token is not an error.
type SessionStore interface {
	Get(ctx context.Context, token string) (models.Session, error)
	Put(ctx context.Context, session models.Session) error
	Delete(ctx context.Context, token string) error
}
