package sessions

import (
	"fmt"
	"time"

	"github.com/jrsteele09/go-session-client/internal/config"
	"github.com/jrsteele09/go-session-client/token"
	"github.com/jrsteele09/go-session-client/users"
)

const (
	DefaultCheckInterval = 60 * time.Second
	DefaultLoginPath     = "/auth/login"
	DefaultFallbackPath  = "/dashboard"
)

// RecoveryMode decides what a mid-session 401 does
type RecoveryMode string

const (
	// RecoveryLogout clears the session and navigates to login
	RecoveryLogout RecoveryMode = "logout"
	// RecoveryRefresh exchanges the stored refresh token first and falls
	// back to RecoveryLogout when that fails
	RecoveryRefresh RecoveryMode = "refresh"
)

func ParseRecoveryMode(s string) (RecoveryMode, error) {
	switch m := RecoveryMode(s); m {
	case "", RecoveryLogout:
		return RecoveryLogout, nil
	case RecoveryRefresh:
		return RecoveryRefresh, nil
	default:
		return "", fmt.Errorf("unknown recovery mode %q", s)
	}
}

// Destinations are the navigation targets the Manager pushes
type Destinations struct {
	Login    string
	Fallback string
	Landing  map[users.RoleType]string
}

func DefaultDestinations() Destinations {
	return Destinations{
		Login:    DefaultLoginPath,
		Fallback: DefaultFallbackPath,
		Landing: map[users.RoleType]string{
			users.RoleAdmin:  "/admin/dashboard",
			users.RoleTenant: "/tenant",
			users.RoleUser:   "/user",
		},
	}
}

// LandingFor returns the role's landing destination, Fallback for an
// unknown role
func (d Destinations) LandingFor(role users.RoleType) string {
	if path, ok := d.Landing[role]; ok {
		return path
	}
	return d.Fallback
}

type options struct {
	now           func() time.Time
	checkInterval time.Duration
	unit          token.ExpiryUnit
	mode          RecoveryMode
	destinations  Destinations
}

func defaultOptions() options {
	return options{
		now:           time.Now,
		checkInterval: DefaultCheckInterval,
		unit:          token.UnitMilliseconds,
		mode:          RecoveryLogout,
		destinations:  DefaultDestinations(),
	}
}

type Option func(*options)

// WithNowFunc replaces the clock
func WithNowFunc(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func WithCheckInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.checkInterval = d
		}
	}
}

func WithExpiryUnit(unit token.ExpiryUnit) Option {
	return func(o *options) {
		o.unit = unit
	}
}

func WithRecoveryMode(mode RecoveryMode) Option {
	return func(o *options) {
		o.mode = mode
	}
}

func WithDestinations(d Destinations) Option {
	return func(o *options) {
		o.destinations = d
	}
}

// OptionsFromConfig maps the session configuration onto Manager options
func OptionsFromConfig(cfg config.SessionConfig) ([]Option, error) {
	unit, err := token.ParseExpiryUnit(cfg.GetExpiryUnit())
	if err != nil {
		return nil, fmt.Errorf("[sessions OptionsFromConfig] %w", err)
	}
	mode, err := ParseRecoveryMode(cfg.GetRecoveryMode())
	if err != nil {
		return nil, fmt.Errorf("[sessions OptionsFromConfig] %w", err)
	}
	dest := DefaultDestinations()
	if p := cfg.GetLoginPath(); p != "" {
		dest.Login = p
	}
	if p := cfg.GetFallbackPath(); p != "" {
		dest.Fallback = p
	}
	return []Option{
		WithCheckInterval(cfg.GetCheckInterval()),
		WithExpiryUnit(unit),
		WithRecoveryMode(mode),
		WithDestinations(dest),
	}, nil
}
