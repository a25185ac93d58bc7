package apifakes

import (
	"context"
	"sync"

	"github.com/cfcastillo/go-franchise-client/api"
)

// FakeAuthAPI is a programmable stand-in for the auth endpoints. Each
// operation returns the configured result and counts its calls.
type FakeAuthAPI struct {
	mu sync.Mutex

	LoginResponse *api.AuthResponse
	LoginErr      error
	LoginCalls    int

	ForgotResponse *api.ForgotPasswordResponse
	ForgotErr      error
	ForgotCalls    int

	ValidateMessage string
	ValidateErr     error
	ValidateCalls   int

	ResetMessage string
	ResetErr     error
	ResetCalls   int

	ChangeMessage string
	ChangeErr     error
	ChangeCalls   int
}

func NewFakeAuthAPI() *FakeAuthAPI {
	return &FakeAuthAPI{}
}

func (f *FakeAuthAPI) Login(ctx context.Context, username, password string) (*api.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginResponse, nil
}

func (f *FakeAuthAPI) ForgotPassword(ctx context.Context, username string) (*api.ForgotPasswordResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ForgotCalls++
	if f.ForgotErr != nil {
		return nil, f.ForgotErr
	}
	return f.ForgotResponse, nil
}

func (f *FakeAuthAPI) ValidateResetToken(ctx context.Context, token string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ValidateCalls++
	if f.ValidateErr != nil {
		return "", f.ValidateErr
	}
	return f.ValidateMessage, nil
}

func (f *FakeAuthAPI) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResetCalls++
	if f.ResetErr != nil {
		return "", f.ResetErr
	}
	return f.ResetMessage, nil
}

func (f *FakeAuthAPI) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ChangeCalls++
	if f.ChangeErr != nil {
		return "", f.ChangeErr
	}
	return f.ChangeMessage, nil
}
