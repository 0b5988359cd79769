package config

import (
	"strings"
	"time"
)

type ClientConfig interface {
	GetBaseURL() string
	GetRequestTimeout() time.Duration
}

// Client holds the settings of the shared HTTP client.
type Client struct {
	BaseURL string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:5001"`
	Timeout time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"10s"`
}

var _ ClientConfig = Client{}

// GetBaseURL returns the backend base URL without a trailing slash
func (c Client) GetBaseURL() string {
	return strings.TrimRight(c.BaseURL, "/")
}

func (c Client) GetRequestTimeout() time.Duration {
	if c.Timeout <= 0 {
		return 10 * time.Second
	}
	return c.Timeout
}
