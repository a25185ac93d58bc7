package session

import (
	"context"
	"sync"
	"time"

	"github.com/cfcastillo/go-franchise-client/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Engine owns the single session slot and the transitions between lifecycle
// states. All reads return snapshots; the slot is only written through the
// enumerated operations. Concurrent logins are not coordinated: the last
// response to arrive wins.
type Engine struct {
	mu    sync.Mutex
	store CredentialStore
	api   AuthAPI
	log   zerolog.Logger

	state   State
	current *Session

	nowTime func() time.Time
}

// EngineOption modifies an Engine instance.
type EngineOption func(*Engine)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) EngineOption {
	return func(e *Engine) {
		e.nowTime = nowFunc
	}
}

// WithLogger attaches a structured logger.
func WithLogger(log zerolog.Logger) EngineOption {
	return func(e *Engine) {
		e.log = log
	}
}

// NewEngine initializes an Engine in the Anonymous state. Call Restore once
// at process start to re-hydrate a persisted session.
func NewEngine(store CredentialStore, authAPI AuthAPI, options ...EngineOption) (*Engine, error) {
	if store == nil {
		return nil, errors.New("[NewEngine] credential store is required")
	}
	if authAPI == nil {
		return nil, errors.New("[NewEngine] auth API is required")
	}

	engine := &Engine{
		store:   store,
		api:     authAPI,
		log:     zerolog.Nop(),
		state:   StateAnonymous,
		nowTime: time.Now,
	}

	for _, opt := range options {
		opt(engine)
	}

	return engine, nil
}

// State returns the engine's current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Current returns a snapshot of the active session, if any.
func (e *Engine) Current() (Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return Session{}, false
	}
	return *e.current, true
}

// Token returns the bearer credential for the transport layer, or "" when
// anonymous. Implements api.TokenSource.
func (e *Engine) Token() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.current == nil {
		return ""
	}
	return e.current.Token
}

// HasRole reports whether the active session carries the named role.
func (e *Engine) HasRole(role string) bool {
	current, ok := e.Current()
	return ok && current.HasRole(role)
}

// IsAdmin reports whether the active session carries the ADMIN role.
func (e *Engine) IsAdmin() bool {
	return e.HasRole("ADMIN")
}

// Roles returns the active session's role set, empty when anonymous.
func (e *Engine) Roles() []string {
	current, ok := e.Current()
	if !ok {
		return nil
	}
	return current.Roles
}

// Login authenticates against the service. On success the session is
// persisted and the engine lands in Authenticated or MustChangePassword,
// depending on the service's passwordChangeRequired flag. A rejection puts
// the engine back in Anonymous and surfaces InvalidCredentialsErr with the
// server's message.
func (e *Engine) Login(ctx context.Context, username, password string) (Session, error) {
	e.setState(StateAuthenticating)

	resp, err := e.api.Login(ctx, username, password)
	if err != nil {
		e.mu.Lock()
		e.state = StateAnonymous
		e.current = nil
		e.mu.Unlock()
		if remote, ok := api.AsRemote(err); ok {
			return Session{}, errors.Wrap(InvalidCredentialsErr, remote.Message)
		}
		return Session{}, errors.Wrap(err, "[Engine.Login]")
	}

	s := Session{
		Username:               resp.Username,
		Roles:                  resp.Roles,
		Token:                  resp.Token,
		ExpiresAt:              resp.ExpiresAt,
		PasswordChangeRequired: resp.PasswordChangeRequired,
	}

	if err := e.store.Save(s); err != nil {
		// An unwritable store does not block the in-memory session.
		e.log.Warn().Err(err).Msg("failed to persist session")
	}

	e.mu.Lock()
	e.current = &s
	if s.PasswordChangeRequired {
		e.state = StateMustChangePassword
	} else {
		e.state = StateAuthenticated
	}
	e.mu.Unlock()

	e.log.Info().Str("username", s.Username).Bool("password_change_required", s.PasswordChangeRequired).Msg("logged in")
	return s, nil
}

// Logout clears the session slot and the persisted record. Idempotent.
func (e *Engine) Logout() {
	e.mu.Lock()
	e.current = nil
	e.state = StateAnonymous
	e.mu.Unlock()

	if err := e.store.Clear(); err != nil {
		e.log.Warn().Err(err).Msg("failed to clear persisted session")
	}
}

// ChangePassword rotates the active account's password. On success the
// passwordChangeRequired flag is cleared on the persisted session without
// touching token, roles, or expiry, and the engine moves to Authenticated.
func (e *Engine) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	if _, ok := e.Current(); !ok {
		return "", NotAuthenticatedErr
	}
	if err := ValidatePasswordStrength(newPassword); err != nil {
		return "", err
	}

	message, err := e.api.ChangePassword(ctx, currentPassword, newPassword)
	if err != nil {
		if remote, ok := api.AsRemote(err); ok {
			return "", errors.Wrap(InvalidCurrentPasswordErr, remote.Message)
		}
		return "", errors.Wrap(err, "[Engine.ChangePassword]")
	}

	e.mu.Lock()
	var persisted *Session
	if e.current != nil {
		cleared := *e.current
		cleared.PasswordChangeRequired = false
		e.current = &cleared
		e.state = StateAuthenticated
		persisted = &cleared
	}
	e.mu.Unlock()

	if persisted != nil {
		if err := e.store.Save(*persisted); err != nil {
			e.log.Warn().Err(err).Msg("failed to persist password change flag")
		}
	}
	return message, nil
}

// ForgotPassword starts recovery for a username. Stateless: the engine's
// state is not consulted or changed. Non-production deployments include the
// reset token in the response.
func (e *Engine) ForgotPassword(ctx context.Context, username string) (*api.ForgotPasswordResponse, error) {
	resp, err := e.api.ForgotPassword(ctx, username)
	if err != nil {
		return nil, errors.Wrap(err, "[Engine.ForgotPassword]")
	}
	return resp, nil
}

// Restore re-hydrates the engine from the credential store. Invoked once at
// process start. Absent, malformed, or expired records leave the engine
// Anonymous and clear the store.
func (e *Engine) Restore() error {
	stored, ok, err := e.store.Load()
	if err != nil {
		e.log.Debug().Err(err).Msg("discarding malformed session record")
		if clearErr := e.store.Clear(); clearErr != nil {
			return errors.Wrap(clearErr, "[Engine.Restore] clear malformed record")
		}
		return nil
	}
	if !ok {
		return nil
	}

	if !stored.Valid(e.nowTime()) {
		if clearErr := e.store.Clear(); clearErr != nil {
			return errors.Wrap(clearErr, "[Engine.Restore] clear expired record")
		}
		return SessionExpiredErr
	}

	e.mu.Lock()
	e.current = &stored
	if stored.PasswordChangeRequired {
		e.state = StateMustChangePassword
	} else {
		e.state = StateAuthenticated
	}
	e.mu.Unlock()

	e.log.Info().Str("username", stored.Username).Msg("session restored")
	return nil
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = s
}
