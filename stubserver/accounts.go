package stubserver

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
)

const resetTokenTTL = 15 * time.Minute

// userAccount mirrors the production service's account record: bcrypt
// password hash, role set, activation flag, forced-change flag, and the
// single-use reset token with its expiry.
type userAccount struct {
	ID                     string
	Username               string
	PasswordHash           string
	FullName               string
	Email                  string
	Roles                  []string
	Active                 bool
	PasswordChangeRequired bool
	ResetToken             string
	ResetExpiration        time.Time
}

type accountRepo struct {
	mu       sync.RWMutex
	accounts map[string]*userAccount // lowercase username -> account
}

func newAccountRepo() *accountRepo {
	return &accountRepo{accounts: make(map[string]*userAccount)}
}

func (r *accountRepo) upsert(account *userAccount) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[strings.ToLower(account.Username)] = account
}

func (r *accountRepo) byUsername(username string) (*userAccount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	account, ok := r.accounts[strings.ToLower(username)]
	if !ok {
		return nil, false
	}
	copied := *account
	return &copied, true
}

func (r *accountRepo) byResetToken(token string) (*userAccount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if account.ResetToken != "" && account.ResetToken == token {
			copied := *account
			return &copied, true
		}
	}
	return nil, false
}

// seedAccounts creates the two accounts the production service ships with.
// The admin account must change its password on first login.
func (s *Server) seedAccounts() error {
	seeds := []struct {
		username               string
		password               string
		fullName               string
		email                  string
		roles                  []string
		passwordChangeRequired bool
	}{
		{"admin", "Admin123!", "Administrador Global", "cfca5@hotmail.com", []string{"ADMIN", "USER"}, true},
		{"analyst", "Analyst123!", "Analista Invitado", "analyst@example.com", []string{"USER"}, false},
	}

	for _, seed := range seeds {
		hash, err := bcrypt.GenerateFromPassword([]byte(seed.password), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrapf(err, "[seedAccounts] hash password for %s", seed.username)
		}
		s.accounts.upsert(&userAccount{
			ID:                     uuid.New().String(),
			Username:               seed.username,
			PasswordHash:           string(hash),
			FullName:               seed.fullName,
			Email:                  seed.email,
			Roles:                  seed.roles,
			Active:                 true,
			PasswordChangeRequired: seed.passwordChangeRequired,
		})
	}
	return nil
}

// checkPassword verifies credentials against the stored bcrypt hash. A
// deactivated account cannot log in.
func (r *accountRepo) checkPassword(username, password string) (*userAccount, bool) {
	account, ok := r.byUsername(username)
	if !ok || !account.Active {
		return nil, false
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, false
	}
	return account, true
}

// issueResetToken stores a fresh 15-minute reset token on the account.
func (r *accountRepo) issueResetToken(username string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[strings.ToLower(username)]
	if !ok {
		return "", false
	}
	token := uuid.New().String()
	account.ResetToken = token
	account.ResetExpiration = NowTimeFunc().Add(resetTokenTTL)
	return token, true
}

// consumeResetToken rotates the password for the account holding the token,
// clearing the token and the forced-change flag.
func (r *accountRepo) consumeResetToken(token, newPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.ResetToken == "" || account.ResetToken != token {
			continue
		}
		if account.ResetExpiration.Before(NowTimeFunc()) {
			return errors.New("reset token expired")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
		if err != nil {
			return errors.Wrap(err, "hash new password")
		}
		account.PasswordHash = string(hash)
		account.ResetToken = ""
		account.ResetExpiration = time.Time{}
		account.PasswordChangeRequired = false
		return nil
	}
	return errors.New("reset token not found")
}

func (r *accountRepo) byEmail(email string) (*userAccount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if strings.EqualFold(account.Email, email) {
			copied := *account
			return &copied, true
		}
	}
	return nil, false
}

func (r *accountRepo) byID(id string) (*userAccount, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, account := range r.accounts {
		if account.ID == id {
			copied := *account
			return &copied, true
		}
	}
	return nil, false
}

func (r *accountRepo) list() []userAccount {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]userAccount, 0, len(r.accounts))
	for _, account := range r.accounts {
		out = append(out, *account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out
}

// create registers an admin-provisioned account. New accounts start active
// and must change their password on first login.
func (r *accountRepo) create(username, password, fullName, email string, roles []string) (*userAccount, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "[accountRepo.create] hash password")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	account := &userAccount{
		ID:                     uuid.New().String(),
		Username:               strings.TrimSpace(username),
		PasswordHash:           string(hash),
		FullName:               strings.TrimSpace(fullName),
		Email:                  strings.ToLower(strings.TrimSpace(email)),
		Roles:                  roles,
		Active:                 true,
		PasswordChangeRequired: true,
	}
	r.accounts[strings.ToLower(account.Username)] = account
	copied := *account
	return &copied, nil
}

func (r *accountRepo) setStatus(id string, active bool) (*userAccount, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, account := range r.accounts {
		if account.ID == id {
			account.Active = active
			copied := *account
			return &copied, true
		}
	}
	return nil, false
}

func (r *accountRepo) delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, account := range r.accounts {
		if account.ID == id {
			delete(r.accounts, key)
			return true
		}
	}
	return false
}

// changePassword rotates the password after verifying the current one and
// clears the forced-change flag.
func (r *accountRepo) changePassword(username, currentPassword, newPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[strings.ToLower(username)]
	if !ok {
		return errors.New("account not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(currentPassword)) != nil {
		return errors.New("current password mismatch")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash new password")
	}
	account.PasswordHash = string(hash)
	account.PasswordChangeRequired = false
	return nil
}
