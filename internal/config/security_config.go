package config

import (
	"strconv"
	"time"
)

type SecurityConfig interface {
	GetJWTSecret() string
	GetTokenLifetime() time.Duration
	GetSessionMaxAge() time.Duration
	GetSessionAbsoluteCap() time.Duration
	GetBlacklistCleanupInterval() time.Duration
	IsProduction() bool
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetJWTSecret() string {
	return GetEnv("JWT_SECRET", "")
}

func (Security) GetTokenLifetime() time.Duration {
	return 24 * time.Hour
}

// GetSessionMaxAge is the idle window: activity slides the session expiry
// forward by this much.
func (Security) GetSessionMaxAge() time.Duration {
	return 24 * time.Hour
}

// GetSessionAbsoluteCap bounds the total lifetime of a session regardless
// of activity.
func (Security) GetSessionAbsoluteCap() time.Duration {
	return 7 * 24 * time.Hour
}

func (Security) GetBlacklistCleanupInterval() time.Duration {
	ms, err := strconv.Atoi(GetEnv("BLACKLIST_CLEANUP_INTERVAL_MS", "60000"))
	if err != nil || ms <= 0 {
		ms = 60000
	}
	return time.Duration(ms) * time.Millisecond
}

func (s Security) IsProduction() bool {
	return EnvVars{}.GetEnv() == "PROD"
}
