package oneaccount

import (
	"fmt"
	"log/slog"
	"net/http"
)

// Doer executes a single HTTP request against the One Account API.
// *http.Client satisfies it. The client never retries and never throws
// status-based errors itself; status handling is per operation.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// LinkUserFunc is invoked after a successful authorization to let the host
// application link the external identity to an internal user record. The
// hook returns true to continue the middleware pipeline; when it returns
// false it must have ended the exchange itself (written a response or
// hijacked the connection).
type LinkUserFunc func(w http.ResponseWriter, r *http.Request, info *AuthContext) bool

// ErrorHandlerFunc receives failures the middleware does not answer itself:
// authorization failures when DisableErrorResponses is set, and any
// non-AuthError failure (e.g. the provider being unreachable) always.
type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Config identifies this application to the One Account provider and
// controls middleware behavior. It is immutable after New.
type Config struct {
	// ClientID is the id of this client as registered with the provider.
	// Required.
	ClientID string

	// ClientSecret authenticates this client on the token endpoint.
	// Only needed when GetToken is used.
	ClientSecret string

	// APIBaseURL is the base URL of the One Account API.
	// Defaults to DefaultAPIBaseURL.
	APIBaseURL string

	// DefaultRequiredScopes is applied to every protected route, ahead of
	// the route's own required scopes.
	DefaultRequiredScopes []string

	// DisableErrorResponses stops the middleware from writing the JSON
	// failure body itself. Failures are then passed to ErrorHandler.
	DisableErrorResponses bool

	// OnLinkUser, when set, runs after each successful authorization.
	OnLinkUser LinkUserFunc

	// ErrorHandler, when set, receives failures the middleware does not
	// answer. When nil, authorization failures with responses disabled get
	// a bare status code and other failures a bare 502.
	ErrorHandler ErrorHandlerFunc
}

// Option customizes a Client beyond what Config carries.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used to reach the provider.
// The default is an http.Client with a 30 second timeout.
func WithHTTPClient(doer Doer) Option {
	return func(c *Client) {
		c.doer = doer
	}
}

// WithLogger sets the logger used for authorization failures.
// The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.log = logger
		}
	}
}

// validate checks the configuration before any defaults are applied.
func (cfg *Config) validate() error {
	if cfg.ClientID == "" {
		return fmt.Errorf("oneaccount: ClientID is required")
	}
	return nil
}
