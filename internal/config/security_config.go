package config

type Security struct{}

var _ SecurityConfig = Security{}

// GetTokenSigningKey returns the HMAC key used to sign bearer tokens.
// The stub server generates a random key when this is empty.
func (Security) GetTokenSigningKey() string {
	return GetEnv("TOKEN_SIGNING_KEY", "")
}

func (Security) GetTokenExpiryMinutes() int {
	return GetEnvInt("TOKEN_EXPIRY_MINUTES", 60)
}
