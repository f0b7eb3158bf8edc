package config

import (
	"strconv"
	"time"
)

type SessionConfig interface {
	GetCheckInterval() time.Duration
	GetRefreshBeforeExpiry() time.Duration
	GetHTTPTimeout() time.Duration
	GetUserCacheTTL() time.Duration
	GetStateTTL() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

// GetCheckInterval returns how often the session monitor polls token status.
func (Session) GetCheckInterval() time.Duration {
	return durationEnv("SESSION_CHECK_INTERVAL_SECONDS", 60*time.Second)
}

// GetRefreshBeforeExpiry returns the proactive-refresh window: an access
// token within this much of its expiry is refreshed on the next poll. Must
// exceed the check interval, otherwise a token can expire between polls
// (enforced by Validate).
func (Session) GetRefreshBeforeExpiry() time.Duration {
	return durationEnv("SESSION_REFRESH_BEFORE_EXPIRY_SECONDS", 2*time.Minute)
}

func (Session) GetHTTPTimeout() time.Duration {
	return durationEnv("SESSION_HTTP_TIMEOUT_SECONDS", 5*time.Second)
}

func (Session) GetUserCacheTTL() time.Duration {
	return durationEnv("USER_CACHE_TTL_SECONDS", 5*time.Minute)
}

// GetStateTTL bounds how long a pending OAuth state parameter stays valid
// between the login redirect and the provider callback.
func (Session) GetStateTTL() time.Duration {
	return durationEnv("AUTH_STATE_TTL_SECONDS", 10*time.Minute)
}

func durationEnv(envVar string, defaultValue time.Duration) time.Duration {
	raw := GetEnv(envVar, "")
	if raw == "" {
		return defaultValue
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds <= 0 {
		return defaultValue
	}
	return time.Duration(seconds) * time.Second
}
