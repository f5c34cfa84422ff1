// Package config provides configuration management for the example
// resource server. Configuration is loaded from environment variables
// with sensible defaults.
package config

import (
	"fmt"
	"time"

	"github.com/joeshaw/envdecode"
)

// Config holds the complete example-server configuration in a flat structure.
type Config struct {
	// Server settings
	// Addr is the address to bind the HTTP server (e.g., ":8080").
	Addr string `env:"SERVER_ADDR,default=:8080"`

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT,default=30s"`

	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT,default=30s"`

	// IdleTimeout is the maximum duration to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT,default=120s"`

	// One Account settings
	// ClientID identifies this application to the provider.
	ClientID string `env:"ONEACCOUNT_CLIENT_ID,required"`

	// ClientSecret authenticates this application on the token endpoint.
	ClientSecret string `env:"ONEACCOUNT_CLIENT_SECRET"`

	// APIBaseURL is the One Account API base URL.
	APIBaseURL string `env:"ONEACCOUNT_API_URL,default=https://api.one-account.io/v1"`

	// DefaultRequiredScopes is applied to every protected route
	// (semicolon-separated in the environment).
	DefaultRequiredScopes []string `env:"ONEACCOUNT_REQUIRED_SCOPES"`

	// DisableErrorResponses stops the middleware from writing error
	// responses itself.
	DisableErrorResponses bool `env:"ONEACCOUNT_DISABLE_ERROR_RESPONSES,default=false"`
}

// Load reads configuration from environment variables and returns a Config.
// It sets default values for optional fields and validates the configuration.
func Load() (*Config, error) {
	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
