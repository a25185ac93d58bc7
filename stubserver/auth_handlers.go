package stubserver

import (
	"net/http"

	"github.com/cfcastillo/go-franchise-client/api"
)

// Messages match the production service's Spanish responses.
const (
	genericForgotMessage   = "Si la cuenta existe recibiras instrucciones para restablecer tu contrasena."
	tokenValidMessage      = "Token valido. Puedes definir una nueva contrasena."
	tokenInvalidMessage    = "Token de restablecimiento invalido"
	tokenExpiredMessage    = "El token de restablecimiento ha expirado"
	passwordUpdatedMessage = "Contrasena actualizada correctamente."
	badCredentialsMessage  = "Usuario o contrasena incorrectos"
	wrongCurrentMessage    = "La contrasena actual no es correcta"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, ok := s.accounts.checkPassword(body.Username, body.Password)
	if !ok {
		s.writeError(w, http.StatusUnauthorized, badCredentialsMessage)
		return
	}

	token, expiresAt, err := s.tokens.mint(account.Username, account.Roles)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to mint token")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.writeJSON(w, http.StatusOK, api.AuthResponse{
		Token:                  token,
		Username:               account.Username,
		Roles:                  account.Roles,
		ExpiresAt:              expiresAt,
		PasswordChangeRequired: account.PasswordChangeRequired,
	})
}

// handleForgotPassword always answers the same generic message, whether or
// not the account exists. Outside production the freshly minted reset token
// is included in the response so local flows can complete without email.
func (s *Server) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Username string `json:"username"`
	}](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resp := api.ForgotPasswordResponse{Message: genericForgotMessage}
	if token, ok := s.accounts.issueResetToken(body.Username); ok && s.env != "PROD" {
		resp.ResetToken = token
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleValidateResetToken(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Token string `json:"token"`
	}](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, ok := s.accounts.byResetToken(body.Token)
	if !ok {
		s.writeError(w, http.StatusBadRequest, tokenInvalidMessage)
		return
	}
	if account.ResetExpiration.Before(NowTimeFunc()) {
		s.writeError(w, http.StatusBadRequest, tokenExpiredMessage)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MessageResponse{Message: tokenValidMessage})
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.accounts.consumeResetToken(body.Token, body.NewPassword); err != nil {
		s.writeError(w, http.StatusBadRequest, tokenInvalidMessage)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MessageResponse{Message: passwordUpdatedMessage})
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		CurrentPassword string `json:"currentPassword"`
		NewPassword     string `json:"newPassword"`
	}](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := usernameFromContext(r.Context())
	if err := s.accounts.changePassword(username, body.CurrentPassword, body.NewPassword); err != nil {
		s.writeError(w, http.StatusBadRequest, wrongCurrentMessage)
		return
	}
	s.writeJSON(w, http.StatusOK, api.MessageResponse{Message: passwordUpdatedMessage})
}
