package session

import (
	"context"

	"github.com/cfcastillo/go-franchise-client/api"
)

// CredentialStore durably holds at most one session record under a fixed
// key. Load returns ok=false when no record exists; a malformed record is
// reported as an error so the engine can discard it.
type CredentialStore interface {
	Save(session Session) error
	Load() (Session, bool, error)
	Clear() error
}

// AuthAPI is the slice of the remote service the engine consumes.
type AuthAPI interface {
	Login(ctx context.Context, username, password string) (*api.AuthResponse, error)
	ForgotPassword(ctx context.Context, username string) (*api.ForgotPasswordResponse, error)
	ValidateResetToken(ctx context.Context, token string) (string, error)
	ResetPassword(ctx context.Context, token, newPassword string) (string, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error)
}
