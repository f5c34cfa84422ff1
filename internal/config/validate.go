package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"
)

// Validate checks that the configuration is valid and complete.
// It returns an error if required fields are missing or values are invalid.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config cannot be nil")
	}

	if cfg.Addr == "" {
		return fmt.Errorf("SERVER_ADDR is required")
	}

	if cfg.ClientID == "" {
		return fmt.Errorf("ONEACCOUNT_CLIENT_ID is required")
	}

	if err := validateAPIBaseURL(cfg.APIBaseURL); err != nil {
		return err
	}

	for _, scope := range cfg.DefaultRequiredScopes {
		if strings.ContainsAny(scope, " .") {
			return fmt.Errorf("invalid scope %q: scopes are raw names without namespace or spaces", scope)
		}
	}

	return nil
}

// validateAPIBaseURL checks the provider URL is well-formed and uses HTTPS
// (plain HTTP is allowed for localhost only, for local testing).
func validateAPIBaseURL(baseURL string) error {
	if baseURL == "" {
		return fmt.Errorf("ONEACCOUNT_API_URL is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid ONEACCOUNT_API_URL: %w", err)
	}

	switch parsed.Scheme {
	case "https":
		return nil
	case "http":
		if isLocalhost(parsed.Host) {
			return nil
		}
		return fmt.Errorf("ONEACCOUNT_API_URL must use HTTPS (http allowed for localhost only): %s", baseURL)
	default:
		return fmt.Errorf("ONEACCOUNT_API_URL must be an http(s) URL: %s", baseURL)
	}
}

// isLocalhost returns true if the host is localhost or a loopback address,
// with or without a port.
func isLocalhost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host == "localhost" || host == "127.0.0.1" || host == "::1"
}
