// Package app implements the account ledger: credentials, plan tier and
// usage counters behind a storage port.
package app

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/Mizuri0x/contentblast/app/models"
	"github.com/Mizuri0x/contentblast/store"

	"golang.org/x/crypto/bcrypt"
)

// Accounts is the durable identity ledger. The mutex serializes every
// read-modify-write span so two concurrent credit spends for the same
// account cannot both pass the limit check.
type Accounts struct {
	mu    sync.Mutex
	users store.UserStore
	now   func() time.Time
}

// NewAccounts creates the ledger over the given user store.
func NewAccounts(users store.UserStore) *Accounts {
	return &Accounts{users: users, now: time.Now}
}

// NormalizeEmail lower-cases and trims an email for use as the ledger key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new free-tier account. The display name defaults to
// the local part of the email when blank.
func (a *Accounts) Register(ctx context.Context, email, password, name string) (models.User, error) {
	email = NormalizeEmail(email)

	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, ValidationError{Reason: "invalid email address"}
	}
	if len(password) < 6 {
		return models.User{}, ValidationError{Reason: "password must be at least 6 characters"}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	_, err := a.users.Get(ctx, email)
	if err == nil {
		return models.User{}, ErrDuplicateAccount
	}
	if !errors.Is(err, store.ErrNotFound) {
		return models.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}

	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user := models.User{
		Email:           email,
		PasswordHash:    string(hash),
		Name:            name,
		Plan:            models.PlanFree,
		RepurposesUsed:  0,
		RepurposesLimit: FreeLimit,
		CreatedAt:       a.now(),
	}
	if err := a.users.Put(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// VerifyCredentials returns the user when email and password match. Unknown
// emails and wrong passwords produce the same generic error.
func (a *Accounts) VerifyCredentials(ctx context.Context, email, password string) (models.User, error) {
	user, err := a.users.Get(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Get returns the live user record for an email.
func (a *Accounts) Get(ctx context.Context, email string) (models.User, error) {
	user, err := a.users.Get(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrAccountNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}

// RecordLogin stamps last_login for the account.
func (a *Accounts) RecordLogin(ctx context.Context, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	user, err := a.users.Get(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	now := a.now()
	user.LastLogin = &now
	return a.users.Put(ctx, user)
}

// ConsumeCredit spends one repurpose credit and returns the new remaining
// count. The limit check and the increment happen under the same lock, so a
// failed call never moves the counter.
func (a *Accounts) ConsumeCredit(ctx context.Context, email string) (remaining int, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	user, err := a.users.Get(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return 0, ErrAccountNotFound
	}
	if err != nil {
		return 0, err
	}

	if user.RepurposesLimit > 0 && user.RepurposesUsed >= user.RepurposesLimit {
		return 0, QuotaError{Limit: user.RepurposesLimit, Used: user.RepurposesUsed}
	}

	user.RepurposesUsed++
	if err := a.users.Put(ctx, user); err != nil {
		return 0, err
	}
	return user.Remaining(), nil
}

// ChangePlan moves the account onto a catalog plan, resetting the usage
// counter. Partially used allowance from the previous tier is forfeited.
func (a *Accounts) ChangePlan(ctx context.Context, email string, plan models.Plan) (models.User, error) {
	limit, ok := planLimit(plan)
	if !ok {
		return models.User{}, ErrUnknownPlan
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	user, err := a.users.Get(ctx, NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrAccountNotFound
	}
	if err != nil {
		return models.User{}, err
	}

	user.Plan = plan
	user.RepurposesLimit = limit
	user.RepurposesUsed = 0
	if err := a.users.Put(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}
