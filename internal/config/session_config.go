package config

import (
	"os"
	"path/filepath"
	"time"
)

type SessionConfig interface {
	GetSessionDir() string
	GetCheckInterval() time.Duration
	GetExpiryUnit() string
	GetRecoveryMode() string
	GetLoginPath() string
	GetFallbackPath() string
}

// Session holds the Session Manager settings.
type Session struct {
	Dir           string        `yaml:"dir" env:"SESSION_DIR"`
	CheckInterval time.Duration `yaml:"check_interval" env:"SESSION_CHECK_INTERVAL" env-default:"60s"`
	ExpiryUnit    string        `yaml:"expiry_unit" env:"SESSION_EXPIRY_UNIT" env-default:"milliseconds"`
	RecoveryMode  string        `yaml:"recovery_mode" env:"SESSION_RECOVERY_MODE" env-default:"logout"`
	LoginPath     string        `yaml:"login_path" env:"SESSION_LOGIN_PATH" env-default:"/auth/login"`
	FallbackPath  string        `yaml:"fallback_path" env:"SESSION_FALLBACK_PATH" env-default:"/dashboard"`
}

var _ SessionConfig = Session{}

// GetSessionDir returns the directory holding the persisted session,
// defaulting to ~/.config/session-client.
func (s Session) GetSessionDir() string {
	if s.Dir != "" {
		return s.Dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".session")
	}
	return filepath.Join(home, ".config", "session-client")
}

func (s Session) GetCheckInterval() time.Duration {
	if s.CheckInterval <= 0 {
		return time.Minute
	}
	return s.CheckInterval
}

func (s Session) GetExpiryUnit() string {
	return s.ExpiryUnit
}

func (s Session) GetRecoveryMode() string {
	return s.RecoveryMode
}

func (s Session) GetLoginPath() string {
	return s.LoginPath
}

func (s Session) GetFallbackPath() string {
	return s.FallbackPath
}
