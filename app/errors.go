// Package app defines the error taxonomy shared by the ledger, the
// repurposing gateway and the billing bridge.
package app

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateAccount indicates the normalized email is already registered.
	ErrDuplicateAccount = errors.New("email already registered")

	// ErrInvalidCredentials is returned for unknown emails and wrong
	// passwords alike, so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountNotFound indicates the email is not in the ledger.
	ErrAccountNotFound = errors.New("account not found")

	// ErrUnknownPlan indicates a plan id outside the catalog.
	ErrUnknownPlan = errors.New("invalid plan")

	// ErrBackendTimeout indicates the generation backend did not answer
	// within the request deadline.
	ErrBackendTimeout = errors.New("generation backend timed out")

	// ErrInvalidSignature rejects a webhook whose signature does not verify.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrMalformedPayload rejects a webhook body that cannot be parsed.
	ErrMalformedPayload = errors.New("invalid payload")
)

// ValidationError reports user-correctable bad input.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string { return e.Reason }

// QuotaError reports an exhausted repurpose quota.
type QuotaError struct {
	Limit int
	Used  int
}

func (e QuotaError) Error() string { return "repurpose limit reached, please upgrade" }

// ConfigError reports a missing credential or endpoint. The message names
// the option, never its value.
type ConfigError struct {
	Option string
}

func (e ConfigError) Error() string { return e.Option + " not set" }

// MalformedResponseError carries the raw backend text that failed to parse,
// for diagnostics. Defaults are never silently substituted.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e MalformedResponseError) Error() string {
	return fmt.Sprintf("could not parse generation output: %v", e.Err)
}

func (e MalformedResponseError) Unwrap() error { return e.Err }

// ProviderError wraps a payment provider transport or API failure.
type ProviderError struct {
	Err error
}

func (e ProviderError) Error() string { return "payment provider error: " + e.Err.Error() }

func (e ProviderError) Unwrap() error { return e.Err }
