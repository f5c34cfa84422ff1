package oneaccount

import (
	"context"
)

// ErrorInfo records why authorization failed on a context attached after a
// failed authorization.
type ErrorInfo struct {
	// Code is the stable machine identifier of the failure.
	Code string `json:"code"`

	// Message is the internal diagnostic message.
	Message string `json:"message"`
}

// AuthContext is the normalized authorization result attached to every
// request that passed through the middleware. On success Active is true and
// the identity fields are populated from the introspection result; on a
// failed authorization Active is false, the identity fields are empty and
// Error records the failure.
type AuthContext struct {
	// Active reports whether the token is valid and all checks passed.
	Active bool `json:"active"`

	// Scope lists every scope granted in this token. The user may have
	// granted more scopes than the token carries; those count as not
	// granted.
	Scope []string `json:"scope"`

	// ClientID identifies who requested the token.
	ClientID string `json:"clientId"`

	// Sub is the opaque user identifier assigned by the provider.
	Sub string `json:"sub"`

	// Aud identifies the client the token was delegated to. For accepted
	// third-party tokens it equals this client's id.
	Aud string `json:"aud"`

	// Token is the raw bearer token value with the scheme prefix stripped.
	Token string `json:"token"`

	// Options is the effective middleware options evaluated for this
	// request: the union of the configured defaults and the route's own
	// required scopes, in that order.
	Options Options `json:"options"`

	// Error is set when authorization failed but the context was still
	// attached for downstream inspection.
	Error *ErrorInfo `json:"error,omitempty"`
}

// HasScope reports whether the token carries the given granted scope,
// exactly as it appears on the wire (namespaced for third-party tokens).
func (c *AuthContext) HasScope(scope string) bool {
	if c == nil {
		return false
	}
	for _, s := range c.Scope {
		if s == scope {
			return true
		}
	}
	return false
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// authContextKey is the context key for the attached AuthContext.
const authContextKey contextKey = "oneaccount_auth"

// ContextWithAuth returns a context carrying the authorization result.
// The middleware uses it to attach its outcome; tests of downstream
// handlers can use it to fabricate authenticated requests.
func ContextWithAuth(ctx context.Context, info *AuthContext) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, authContextKey, info)
}

// FromContext extracts the authorization result attached by the middleware.
// Returns nil and false if the request did not pass through Auth.
func FromContext(ctx context.Context) (*AuthContext, bool) {
	if ctx == nil {
		return nil, false
	}
	info, ok := ctx.Value(authContextKey).(*AuthContext)
	return info, ok
}
