package api

// AuthResponse is the body of a successful POST /auth/login.
type AuthResponse struct {
	Token                  string   `json:"token"`
	Username               string   `json:"username"`
	Roles                  []string `json:"roles"`
	ExpiresAt              int64    `json:"expiresAt"` // epoch milliseconds
	PasswordChangeRequired bool     `json:"passwordChangeRequired"`
}

// ForgotPasswordResponse answers POST /auth/forgot-password. ResetToken is
// only populated by non-production deployments; production returns the
// generic message alone.
type ForgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken,omitempty"`
}

// MessageResponse is the generic {message} body used by the password
// lifecycle endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
