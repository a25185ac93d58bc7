package stubserver

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/cfcastillo/go-franchise-client/api"
	"github.com/cfcastillo/go-franchise-client/internal/utils"
)

const minUserPasswordLength = 8

func userResponse(account userAccount) api.User {
	return api.User{
		ID:       account.ID,
		Username: account.Username,
		FullName: account.FullName,
		Email:    account.Email,
		Active:   account.Active,
		Roles:    account.Roles,
	}
}

// resolveRoles normalizes the requested role set, defaulting to USER when
// empty. Unknown roles are rejected.
func resolveRoles(requested []string) ([]string, error) {
	roles := make([]string, 0, len(requested))
	for _, role := range requested {
		role = strings.ToUpper(strings.TrimSpace(role))
		if role == "" {
			continue
		}
		if role != "ADMIN" && role != "USER" {
			return nil, fmt.Errorf("Rol '%s' no es valido. Valores permitidos: ADMIN, USER", role)
		}
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		roles = []string{"USER"}
	}
	return roles, nil
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	accounts := s.accounts.list()
	users := make([]api.User, 0, len(accounts))
	for _, account := range accounts {
		users = append(users, userResponse(account))
	}
	s.writeJSON(w, http.StatusOK, users)
}

func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[api.CreateUserRequest](r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	username := strings.TrimSpace(body.Username)
	switch {
	case username == "":
		s.writeError(w, http.StatusBadRequest, "El nombre de usuario es obligatorio")
		return
	case strings.TrimSpace(body.FullName) == "":
		s.writeError(w, http.StatusBadRequest, "El nombre completo es obligatorio")
		return
	case strings.TrimSpace(body.Email) == "":
		s.writeError(w, http.StatusBadRequest, "El correo es obligatorio")
		return
	case len(body.Password) < minUserPasswordLength:
		s.writeError(w, http.StatusBadRequest, "La contrasena debe tener al menos 8 caracteres")
		return
	}

	roles, err := resolveRoles(body.Roles)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, exists := s.accounts.byUsername(username); exists {
		s.writeError(w, http.StatusConflict, fmt.Sprintf("Ya existe un usuario con el nombre '%s'", username))
		return
	}
	if _, exists := s.accounts.byEmail(body.Email); exists {
		s.writeError(w, http.StatusConflict, fmt.Sprintf("Ya existe un usuario con el correo '%s'", strings.ToLower(strings.TrimSpace(body.Email))))
		return
	}

	account, err := s.accounts.create(username, body.Password, body.FullName, body.Email, roles)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to create account")
		s.writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	s.writeJSON(w, http.StatusCreated, userResponse(*account))
}

func (s *Server) handleUserStatus(w http.ResponseWriter, r *http.Request) {
	body, err := decodeBody[struct {
		Active *bool `json:"active"`
	}](r)
	if err != nil || body.Active == nil {
		s.writeError(w, http.StatusBadRequest, "El estado 'active' es obligatorio")
		return
	}

	id := r.PathValue("userId")
	account, ok := s.accounts.setStatus(id, utils.Value(body.Active))
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("Usuario con id '%s' no encontrado", id))
		return
	}
	s.writeJSON(w, http.StatusOK, userResponse(*account))
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("userId")
	if !s.accounts.delete(id) {
		s.writeError(w, http.StatusNotFound, fmt.Sprintf("Usuario con id '%s' no encontrado", id))
		return
	}
	s.writeJSON(w, http.StatusNoContent, nil)
}
