package session

import (
	"context"
	"sync"

	"github.com/cfcastillo/go-franchise-client/api"
	"github.com/pkg/errors"
)

// TokenState tracks whether a recovery token has been checked against the
// service.
type TokenState string

const (
	TokenUnvalidated TokenState = "unvalidated"
	TokenValid       TokenState = "valid"
	TokenInvalid     TokenState = "invalid"
)

// ResetFlow is the ephemeral password recovery state machine. It exists only
// while the recovery flow is open and is never persisted. ResetPassword is
// locally gated on a prior successful Validate for the same token, even
// though the service is the source of truth.
type ResetFlow struct {
	mu         sync.Mutex
	api        AuthAPI
	token      string
	tokenState TokenState
	submitting bool
}

// NewResetFlow opens a recovery flow. token may be empty; a token arriving
// pre-validated (e.g. from a recovery link) can be set with SetValidatedToken.
func NewResetFlow(authAPI AuthAPI, token string) (*ResetFlow, error) {
	if authAPI == nil {
		return nil, errors.New("[NewResetFlow] auth API is required")
	}
	return &ResetFlow{
		api:        authAPI,
		token:      token,
		tokenState: TokenUnvalidated,
	}, nil
}

// TokenState returns the current validation state.
func (f *ResetFlow) TokenState() TokenState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokenState
}

// Submitting reports whether a reset request is in flight.
func (f *ResetFlow) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// SetToken replaces the token. Any prior validation no longer applies, so
// the state drops back to Unvalidated.
func (f *ResetFlow) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.tokenState = TokenUnvalidated
}

// SetValidatedToken accepts a token that arrived through a trusted recovery
// link and marks it usable without a remote round trip.
func (f *ResetFlow) SetValidatedToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.tokenState = TokenValid
}

// Validate checks the token with the service. A rejection marks the token
// Invalid; it stays Invalid until the token changes. A transport failure
// proves nothing about the token, so the state is left alone.
func (f *ResetFlow) Validate(ctx context.Context) (string, error) {
	f.mu.Lock()
	token := f.token
	f.mu.Unlock()

	message, err := f.api.ValidateResetToken(ctx, token)

	f.mu.Lock()
	defer f.mu.Unlock()
	if err != nil {
		if _, ok := api.AsRemote(err); ok {
			f.tokenState = TokenInvalid
		}
		return "", errors.Wrap(err, "[ResetFlow.Validate]")
	}
	f.tokenState = TokenValid
	return message, nil
}

// Submit sets the new password with the validated token. Fails fast with
// NotPermittedErr, without a remote call, unless the token state is Valid.
func (f *ResetFlow) Submit(ctx context.Context, newPassword string) (string, error) {
	f.mu.Lock()
	if f.tokenState != TokenValid {
		f.mu.Unlock()
		return "", NotPermittedErr
	}
	if f.submitting {
		f.mu.Unlock()
		return "", errors.New("[ResetFlow.Submit] reset already in flight")
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		f.mu.Unlock()
		return "", err
	}
	f.submitting = true
	token := f.token
	f.mu.Unlock()

	message, err := f.api.ResetPassword(ctx, token, newPassword)

	f.mu.Lock()
	f.submitting = false
	f.mu.Unlock()

	if err != nil {
		return "", errors.Wrap(err, "[ResetFlow.Submit]")
	}
	return message, nil
}
