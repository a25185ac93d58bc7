package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
)

// User is a portal account as the admin user-management endpoints return it.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	FullName string   `json:"fullName"`
	Email    string   `json:"email"`
	Active   bool     `json:"active"`
	Roles    []string `json:"roles"`
}

// CreateUserRequest provisions a new portal account. Roles defaults to USER
// when empty; the account starts active with a forced password change.
type CreateUserRequest struct {
	Username string   `json:"username"`
	FullName string   `json:"fullName"`
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles,omitempty"`
}

// Users lists every portal account. ADMIN only.
func (c *Client) Users(ctx context.Context) ([]User, error) {
	var list []User
	if err := c.do(ctx, http.MethodGet, "/users", nil, &list); err != nil {
		return nil, errors.Wrap(err, "[Client.Users]")
	}
	return list, nil
}

// CreateUser provisions a portal account. ADMIN only.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPost, "/users", req, &u); err != nil {
		return nil, errors.Wrap(err, "[Client.CreateUser]")
	}
	return &u, nil
}

// SetUserStatus activates or deactivates a portal account. ADMIN only.
func (c *Client) SetUserStatus(ctx context.Context, id string, active bool) (*User, error) {
	var u User
	if err := c.do(ctx, http.MethodPatch, "/users/"+id+"/status", statusPayload{Active: active}, &u); err != nil {
		return nil, errors.Wrap(err, "[Client.SetUserStatus]")
	}
	return &u, nil
}

// DeleteUser removes a portal account. ADMIN only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/users/"+id, nil, nil); err != nil {
		return errors.Wrap(err, "[Client.DeleteUser]")
	}
	return nil
}
