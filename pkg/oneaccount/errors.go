package oneaccount

import (
	"errors"
	"fmt"
	"net/http"
)

// Stable machine-readable codes carried by AuthError.
const (
	// CodeTokenNotProvided indicates the request had no Authorization header.
	CodeTokenNotProvided = "TOKEN_NOT_PROVIDED"

	// CodeTokenInvalid indicates the provider reported the token inactive.
	CodeTokenInvalid = "TOKEN_INVALID"

	// CodeAudienceInvalid indicates a third-party token was not delegated
	// to this client.
	CodeAudienceInvalid = "AUDIENCE_INVALID"

	// CodeScopesInsufficient indicates one or more required scopes were
	// not granted.
	CodeScopesInsufficient = "SCOPES_INSUFFICIENT"

	// CodeCouldntGetToken indicates the authorization-code exchange failed.
	CodeCouldntGetToken = "COULDNT_GET_TOKEN"

	// CodeCouldntGetUserInfo indicates the profile fetch failed.
	CodeCouldntGetUserInfo = "COULDNT_GET_USERINFO"

	// CodeCouldntGetExternalToken indicates delegated token issuance failed.
	CodeCouldntGetExternalToken = "COULDNT_GET_EXTERNAL_TOKEN"
)

// defaultResponseMessage is the safe-for-client text used when an error
// does not set a more specific one.
const defaultResponseMessage = "Something went wrong."

// AuthError is the structured failure type of this package. It carries a
// stable code, an internal diagnostic message, the text and status code of
// the HTTP response the middleware writes, optional structured metadata,
// and the partial authorization context to attach to the request even on
// failure.
type AuthError struct {
	// Code is the stable machine identifier, e.g. TOKEN_NOT_PROVIDED.
	Code string

	// Message is the internal diagnostic message. It is attached to the
	// request context but never sent to the remote client.
	Message string

	// ResponseMessage is the safe-for-client text of the failure response.
	ResponseMessage string

	// ResponseMetadata carries structured extra detail, e.g. which scopes
	// were missing.
	ResponseMetadata map[string]any

	// StatusCode is the HTTP status of the failure response.
	StatusCode int

	// Info is the partial authorization context merged into the request
	// attachment on failure. Every field defaults to its unauthenticated
	// value.
	Info *AuthContext

	// cause is the underlying error, if any. The coarse Code is the
	// external contract; the chain keeps the diagnostics.
	cause error
}

// Error implements the error interface.
func (e *AuthError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *AuthError) Unwrap() error {
	return e.cause
}

// IsCode reports whether err is (or wraps) an AuthError with the given code.
func IsCode(err error, code string) bool {
	var authErr *AuthError
	return errors.As(err, &authErr) && authErr.Code == code
}

// newAuthError creates an AuthError with the documented defaults:
// ResponseMessage "Something went wrong.", status 401, and an
// unauthenticated context snapshot.
func newAuthError(code, message string) *AuthError {
	return &AuthError{
		Code:             code,
		Message:          message,
		ResponseMessage:  defaultResponseMessage,
		ResponseMetadata: map[string]any{},
		StatusCode:       http.StatusUnauthorized,
		Info:             &AuthContext{},
	}
}

// newTokenNotProvidedError creates the failure raised when the request
// carries no Authorization header.
func newTokenNotProvidedError(opts Options) *AuthError {
	e := newAuthError(CodeTokenNotProvided, "Token not provided.")
	e.ResponseMessage = "Not authenticated."
	e.Info.Options = opts
	return e
}

// newTokenInvalidError creates the failure raised when the provider reports
// the token inactive.
func newTokenInvalidError(opts Options) *AuthError {
	e := newAuthError(CodeTokenInvalid, "Invalid token.")
	e.ResponseMessage = "Not authenticated."
	e.Info.Options = opts
	return e
}

// newAudienceInvalidError creates the failure raised when a third-party
// token was not delegated to this client.
func newAudienceInvalidError(opts Options) *AuthError {
	e := newAuthError(CodeAudienceInvalid, "Invalid audience.")
	e.ResponseMessage = "Invalid audience."
	e.Info.Options = opts
	return e
}

// newScopesInsufficientError creates the 403 failure raised when required
// scopes are missing. notGranted lists the raw (un-namespaced) scope names.
func newScopesInsufficientError(opts Options, notGranted []string) *AuthError {
	e := newAuthError(CodeScopesInsufficient, "One or more of required scopes haven't been granted.")
	e.ResponseMessage = "One or more of required scopes haven't been granted."
	e.StatusCode = http.StatusForbidden
	e.ResponseMetadata = map[string]any{
		"requiredScopes":   opts.RequiredScopes,
		"notGrantedScopes": notGranted,
	}
	e.Info.Options = opts
	return e
}

// newAPIError wraps a provider-client failure into the coarse code the
// companion methods expose, retaining the cause in the error chain.
func newAPIError(code, message string, cause error) *AuthError {
	e := newAuthError(code, message)
	e.cause = cause
	return e
}
