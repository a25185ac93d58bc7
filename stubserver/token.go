package stubserver

import (
	"crypto/rand"
	"time"

	"github.com/cfcastillo/go-franchise-client/internal/config"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// tokenService mints and verifies the HS256 bearer tokens the stub issues.
type tokenService struct {
	key    []byte
	expiry time.Duration
}

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

func newTokenService(cfg config.SecurityConfig) (*tokenService, error) {
	key := []byte(cfg.GetTokenSigningKey())
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, errors.Wrap(err, "[newTokenService] generate signing key")
		}
	}
	return &tokenService{
		key:    key,
		expiry: time.Duration(cfg.GetTokenExpiryMinutes()) * time.Minute,
	}, nil
}

type tokenClaims struct {
	username string
	roles    []string
}

// mint creates a signed token and returns it with its expiry in epoch
// milliseconds, the unit the login response carries.
func (t *tokenService) mint(username string, roles []string) (string, int64, error) {
	expiresAt := NowTimeFunc().Add(t.expiry)
	claims := jwtlib.MapClaims{
		"sub":   username,
		"roles": roles,
		"iat":   NowTimeFunc().Unix(),
		"exp":   expiresAt.Unix(),
		"jti":   uuid.New().String(),
	}

	signed, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString(t.key)
	if err != nil {
		return "", 0, errors.Wrap(err, "[tokenService.mint] sign token")
	}
	return signed, expiresAt.UnixMilli(), nil
}

func (t *tokenService) parse(raw string) (*tokenClaims, error) {
	parsed, err := jwtlib.Parse(raw, func(token *jwtlib.Token) (any, error) {
		if _, ok := token.Method.(*jwtlib.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method %s", token.Method.Alg())
		}
		return t.key, nil
	}, jwtlib.WithTimeFunc(func() time.Time { return NowTimeFunc() }))
	if err != nil {
		return nil, errors.Wrap(err, "[tokenService.parse]")
	}

	claims, ok := parsed.Claims.(jwtlib.MapClaims)
	if !ok || !parsed.Valid {
		return nil, errors.New("[tokenService.parse] invalid claims")
	}

	username, _ := claims["sub"].(string)
	if username == "" {
		return nil, errors.New("[tokenService.parse] missing subject")
	}

	var roles []string
	if rawRoles, ok := claims["roles"].([]any); ok {
		for _, r := range rawRoles {
			if role, ok := r.(string); ok {
				roles = append(roles, role)
			}
		}
	}

	return &tokenClaims{username: username, roles: roles}, nil
}
