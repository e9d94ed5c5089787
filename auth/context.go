// Package auth provides request context helpers for the resolved identity.
package auth

import "context"

type ctxKey int

const emailKey ctxKey = iota

// WithEmail stores the authenticated email in a context.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// EmailFromContext returns the authenticated email from a context.
func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(emailKey).(string)
	return email, ok
}
