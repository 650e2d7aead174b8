package config

import (
	"fmt"
	"os"
)

const (
	portEnvVar    = "PORT"
	appNameVar    = "APP_NAME"
	databaseVar   = "DATABASE_URL"
	revocationVar = "REVOCATION_DB"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	port := GetEnv(portEnvVar, "8080")
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "FreshCart Auth")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetDatabaseURL returns the Postgres DSN for the credential store. When
// empty the server falls back to the in-memory store (development only).
func (EnvVars) GetDatabaseURL() string {
	return GetEnv(databaseVar, "")
}

// GetRevocationDBPath returns the bbolt file backing the revocation
// registry. Empty means the registry is process-memory only.
func (EnvVars) GetRevocationDBPath() string {
	return GetEnv(revocationVar, "")
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
