package oneaccount

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Options is the per-route middleware configuration.
type Options struct {
	// RequiredScopes lists the scopes this route requires on top of the
	// configured defaults.
	RequiredScopes []string `json:"requiredScopes"`
}

// failureResponse is the JSON body written for failed authorizations.
type failureResponse struct {
	Code   int           `json:"code"`
	Status string        `json:"status"`
	Error  failureDetail `json:"error"`
}

// failureDetail carries the safe-for-client failure message.
type failureDetail struct {
	Message string `json:"message"`
}

// Auth returns middleware enforcing that each request carries a bearer
// token the provider accepts for this client with all required scopes
// granted. The effective required scopes are the configured defaults
// followed by opts.RequiredScopes.
//
// On success an AuthContext is attached to the request context (see
// FromContext) and, if configured, the OnLinkUser hook runs before the
// pipeline continues. On a failed authorization the context is attached
// with Active=false and Error populated; the failure response is written
// by the middleware unless DisableErrorResponses routes it to the
// ErrorHandler instead.
//
// Tokens issued directly to this client (first-party tokens) skip the
// audience and scope checks entirely. This is a deliberate trust decision:
// the issuing client implicitly trusts its own tokens, so no scope
// enforcement applies to first-party callers.
func (c *Client) Auth(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			effective := Options{
				RequiredScopes: effectiveScopes(c.cfg.DefaultRequiredScopes, opts.RequiredScopes),
			}

			info, err := c.authorize(r, effective)
			if err != nil {
				c.failAuth(w, r, err)
				return
			}

			r = r.WithContext(ContextWithAuth(r.Context(), info))

			if c.cfg.OnLinkUser != nil {
				if !c.cfg.OnLinkUser(w, r, info) {
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// authorize runs the authorization gates in order: token extraction,
// introspection, audience check, scope sufficiency. The first failing gate
// aborts the rest. The returned AuthContext reflects the effective options
// actually evaluated.
func (c *Client) authorize(r *http.Request, effective Options) (*AuthContext, error) {
	authHeader := r.Header.Get(HeaderAuthorization)
	if authHeader == "" {
		return nil, newTokenNotProvidedError(effective)
	}

	result, err := c.api.Introspect(r.Context(), authHeader)
	if err != nil {
		// Transport failure, not a provider verdict. Propagated as-is so
		// it never turns into a failure body.
		return nil, err
	}

	if !result.Active {
		return nil, newTokenInvalidError(effective)
	}

	if result.ClientID != c.cfg.ClientID {
		// Token was issued to another client; it must have been delegated
		// to this one.
		if result.Aud != c.cfg.ClientID {
			return nil, newAudienceInvalidError(effective)
		}

		granted := parseScopes(result.Scope)
		missing := notGrantedScopes(c.cfg.ClientID, effective.RequiredScopes, granted)
		if len(missing) > 0 {
			return nil, newScopesInsufficientError(effective, missing)
		}
	}

	return &AuthContext{
		Active:   true,
		Scope:    parseScopes(result.Scope),
		ClientID: result.ClientID,
		Sub:      result.Sub,
		Aud:      result.Aud,
		Token:    bearerValue(authHeader),
		Options:  effective,
	}, nil
}

// failAuth records a failed authorization on the request context and
// answers it. AuthError failures become the JSON failure body (or go to
// the ErrorHandler when responses are disabled); anything else is a
// transport-level failure that never produces the failure body.
func (c *Client) failAuth(w http.ResponseWriter, r *http.Request, err error) {
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		c.log.Error("introspection failed",
			"error", err,
			"path", r.URL.Path,
		)
		if c.cfg.ErrorHandler != nil {
			c.cfg.ErrorHandler(w, r, err)
			return
		}
		w.WriteHeader(http.StatusBadGateway)
		return
	}

	// Attach the partial context so downstream code can inspect why auth
	// failed even when the pipeline is halted.
	info := authErr.Info
	if info == nil {
		info = &AuthContext{}
	}
	info.Error = &ErrorInfo{Code: authErr.Code, Message: authErr.Message}
	r = r.WithContext(ContextWithAuth(r.Context(), info))

	c.log.Warn("authorization failed",
		"code", authErr.Code,
		"status", authErr.StatusCode,
		"required_scopes", info.Options.RequiredScopes,
		"path", r.URL.Path,
	)

	if c.cfg.DisableErrorResponses {
		if c.cfg.ErrorHandler != nil {
			c.cfg.ErrorHandler(w, r, authErr)
			return
		}
		w.WriteHeader(authErr.StatusCode)
		return
	}

	writeAuthError(w, authErr)
}

// writeAuthError writes the JSON failure body together with a
// WWW-Authenticate challenge per RFC 6750.
func writeAuthError(w http.ResponseWriter, authErr *AuthError) {
	w.Header().Set(HeaderWWWAuthenticate, buildWWWAuthenticate(authErr))
	w.Header().Set(HeaderContentType, ContentTypeJSON)
	w.WriteHeader(authErr.StatusCode)

	resp := failureResponse{
		Code:   authErr.StatusCode,
		Status: "failed",
		Error:  failureDetail{Message: authErr.ResponseMessage},
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// buildWWWAuthenticate renders the challenge for a failed authorization.
// A request with no credentials at all gets a bare challenge; invalid
// tokens and insufficient scopes get the corresponding RFC 6750 error
// codes.
func buildWWWAuthenticate(authErr *AuthError) string {
	var errorCode string
	switch authErr.Code {
	case CodeTokenNotProvided:
		errorCode = ""
	case CodeScopesInsufficient:
		errorCode = "insufficient_scope"
	default:
		errorCode = "invalid_token"
	}

	parts := []string{BearerToken}
	if errorCode != "" {
		parts = append(parts, fmt.Sprintf(`error="%s"`, errorCode))
	}
	if authErr.Info != nil && len(authErr.Info.Options.RequiredScopes) > 0 {
		scope := strings.Join(authErr.Info.Options.RequiredScopes, " ")
		parts = append(parts, fmt.Sprintf(`scope="%s"`, scope))
	}
	return strings.Join(parts, " ")
}

// bearerValue strips the Bearer scheme from an Authorization header value.
// Headers without a scheme are returned unchanged.
func bearerValue(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], BearerToken) {
		return strings.TrimSpace(parts[1])
	}
	return authHeader
}
