package config

type Config interface {
	EnvConfig
	OAuthConfig
	SecurityConfig
	CorsConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetDatabaseURL() string
	GetRevocationDBPath() string
}

type OAuthConfig interface {
	GetGoogleClientID() string
	GetGoogleClientSecret() string
	GetGoogleCallbackURL() string
	GetFrontendURL() string
	GetBackendURL() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	OAuth
	Security
	Cors
}

func New() Config {
	return mainConfig{}
}
