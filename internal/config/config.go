package config

type Config interface {
	EnvConfig
	SecurityConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetDataFolder() string
	GetBaseURL() string
	GetEnv() string
}

// SecurityConfig exposes the token settings used by the stub API server.
type SecurityConfig interface {
	GetTokenSigningKey() string
	GetTokenExpiryMinutes() int
}

type mainConfig struct {
	EnvVars
	Security
}

func New() Config {
	return mainConfig{}
}
