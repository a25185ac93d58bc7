package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (*AuthResponse, error) {
	body := struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}{Username: username, Password: password}

	var resp AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, errors.Wrap(err, "[Client.Login]")
	}
	return &resp, nil
}

// ForgotPassword starts the recovery flow. Stateless: no session required.
func (c *Client) ForgotPassword(ctx context.Context, username string) (*ForgotPasswordResponse, error) {
	body := struct {
		Username string `json:"username"`
	}{Username: username}

	var resp ForgotPasswordResponse
	if err := c.do(ctx, http.MethodPost, "/auth/forgot-password", body, &resp); err != nil {
		return nil, errors.Wrap(err, "[Client.ForgotPassword]")
	}
	return &resp, nil
}

// ValidateResetToken asks the service whether a recovery token is usable.
func (c *Client) ValidateResetToken(ctx context.Context, token string) (string, error) {
	body := struct {
		Token string `json:"token"`
	}{Token: token}

	var resp MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/validate-reset-token", body, &resp); err != nil {
		return "", errors.Wrap(err, "[Client.ValidateResetToken]")
	}
	return resp.Message, nil
}

// ResetPassword consumes a recovery token to set a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	body := struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}{Token: token, NewPassword: newPassword}

	var resp MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/reset-password", body, &resp); err != nil {
		return "", errors.Wrap(err, "[Client.ResetPassword]")
	}
	return resp.Message, nil
}

// ChangePassword rotates the password of the authenticated account.
func (c *Client) ChangePassword(ctx context.Context, currentPassword, newPassword string) (string, error) {
	body := struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}{CurrentPassword: currentPassword, NewPassword: newPassword}

	var resp MessageResponse
	if err := c.do(ctx, http.MethodPost, "/auth/change-password", body, &resp); err != nil {
		return "", errors.Wrap(err, "[Client.ChangePassword]")
	}
	return resp.Message, nil
}
