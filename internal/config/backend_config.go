package config

import (
	"fmt"
	"strings"
	"time"
)

type BackendConfig interface {
	GetPort() string
	GetJWTSecret() string
	GetTokenTTL() time.Duration
	GetRefreshTTL() time.Duration
	GetAdminEmail() string
	GetAdminPassword() string
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

// Backend holds the settings of the mock REST backend.
type Backend struct {
	Port          string        `yaml:"port" env:"PORT" env-default:"5001"`
	JWTSecret     string        `yaml:"jwt_secret" env:"BACKEND_JWT_SECRET" env-default:"your-secret-key-here"`
	TokenTTL      time.Duration `yaml:"token_ttl" env:"BACKEND_TOKEN_TTL" env-default:"5m"`
	RefreshTTL    time.Duration `yaml:"refresh_ttl" env:"BACKEND_REFRESH_TTL" env-default:"24h"`
	AdminEmail    string        `yaml:"admin_email" env:"BACKEND_ADMIN_EMAIL" env-default:"admin@localhost"`
	AdminPassword string        `yaml:"admin_password" env:"BACKEND_ADMIN_PASSWORD"` // generated when empty
	Origins       []string      `yaml:"allowed_origins" env:"BACKEND_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

var _ BackendConfig = Backend{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func (b Backend) GetPort() string {
	port := b.Port
	if port == "" {
		port = "5001"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (b Backend) GetJWTSecret() string {
	return b.JWTSecret
}

func (b Backend) GetTokenTTL() time.Duration {
	if b.TokenTTL <= 0 {
		return 5 * time.Minute
	}
	return b.TokenTTL
}

func (b Backend) GetRefreshTTL() time.Duration {
	if b.RefreshTTL <= 0 {
		return 24 * time.Hour
	}
	return b.RefreshTTL
}

func (b Backend) GetAdminEmail() string {
	return b.AdminEmail
}

func (b Backend) GetAdminPassword() string {
	return b.AdminPassword
}

func (b Backend) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	for _, o := range b.Origins {
		if o = strings.TrimSpace(o); o != "" {
			origins[o] = nullValue{}
		}
	}
	return origins
}

func (Backend) GetAllowedMethods() string {
	return "GET, POST, PUT, PATCH, DELETE"
}

func (Backend) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}
