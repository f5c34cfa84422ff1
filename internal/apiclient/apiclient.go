// Package apiclient implements the HTTP calls to the One Account API.
// Each operation is a single remote call with no retry and no caching;
// results are returned in their wire shape and normalization is left to
// the caller.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/one-account-io/oneaccount-go/internal/errors"
)

const domainAPI = "api"

// maxResponseBodySize caps how much of a provider response is read (1 MiB).
const maxResponseBodySize = 1 << 20

// Content types used on the wire.
const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// Doer executes a single HTTP request. *http.Client satisfies it; tests and
// hosts with custom transports can substitute their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// defaultDoer is used when the caller does not supply a Doer.
var defaultDoer = &http.Client{
	Timeout: 30 * time.Second,
}

// Client performs requests against the One Account API on behalf of a
// single registered client. It is stateless and safe for concurrent use.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	doer         Doer
}

// New creates an API client for the given base URL and client credentials.
// If doer is nil a default client with a 30s timeout is used.
func New(baseURL, clientID, clientSecret string, doer Doer) *Client {
	if doer == nil {
		doer = defaultDoer
	}
	return &Client{
		baseURL:      normalizeBaseURL(baseURL),
		clientID:     clientID,
		clientSecret: clientSecret,
		doer:         doer,
	}
}

// Introspect asks the provider whether the token carried by authHeader is
// valid and what it grants. The original Authorization header value is
// forwarded verbatim. The response body is decoded regardless of the HTTP
// status: provider-side rejections carry active=false and are data, not
// transport failure.
func (c *Client) Introspect(ctx context.Context, authHeader string) (*IntrospectionResponse, error) {
	body := encodeForm([]formField{{"client_id", c.clientID}})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.introspectURL(), strings.NewReader(body))
	if err != nil {
		return nil, errors.New(domainAPI, "Introspect", errors.ErrInternal, err)
	}
	req.Header.Set("Content-Type", contentTypeForm)
	req.Header.Set("Authorization", authHeader)

	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, errors.New(domainAPI, "Introspect", errors.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return nil, errors.New(domainAPI, "Introspect", errors.ErrUnavailable, err)
	}

	var result IntrospectionResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, errors.New(domainAPI, "Introspect", errors.ErrUnavailable,
			fmt.Errorf("malformed introspection response: %w", err)).
			WithContext("status_code", resp.StatusCode)
	}

	return &result, nil
}

// Token exchanges an authorization code for an access token.
// The form body preserves field order: grant_type, code, redirect_uri,
// client_id, client_secret, then code_verifier when present.
func (c *Client) Token(ctx context.Context, tokenReq *TokenRequest) (*TokenResponse, error) {
	body := encodeForm(tokenReq.formFields(c.clientID, c.clientSecret))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL(), strings.NewReader(body))
	if err != nil {
		return nil, errors.New(domainAPI, "Token", errors.ErrInternal, err)
	}
	req.Header.Set("Content-Type", contentTypeForm)

	var result TokenResponse
	if err := c.do(req, "Token", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// UserInfo fetches the end-user profile for the given access token.
// The token may be passed with or without the "Bearer " prefix.
func (c *Client) UserInfo(ctx context.Context, token string) (*UserInfoResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL(), nil)
	if err != nil {
		return nil, errors.New(domainAPI, "UserInfo", errors.ErrInternal, err)
	}
	req.Header.Set("Authorization", NormalizeBearer(token))

	var result UserInfoResponse
	if err := c.do(req, "UserInfo", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExternalToken asks the provider to mint a delegated token for the target
// client. The request body is empty; the caller's token authenticates it.
func (c *Client) ExternalToken(ctx context.Context, token, targetClientID string) (*ExternalTokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.externalTokenURL(targetClientID), nil)
	if err != nil {
		return nil, errors.New(domainAPI, "ExternalToken", errors.ErrInternal, err)
	}
	req.Header.Set("Content-Type", contentTypeForm)
	req.Header.Set("Authorization", NormalizeBearer(token))

	var result ExternalTokenResponse
	if err := c.do(req, "ExternalToken", &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// do executes a request that requires a 2xx status and decodes the JSON
// response body into out.
func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.doer.Do(req)
	if err != nil {
		return errors.New(domainAPI, op, errors.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return errors.New(domainAPI, op, errors.ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(domainAPI, op, errors.KindFromStatus(resp.StatusCode),
			fmt.Errorf("provider returned status %d", resp.StatusCode)).
			WithContext("status_code", resp.StatusCode).
			WithContext("body", truncate(string(raw), 512))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.New(domainAPI, op, errors.ErrUnavailable,
			fmt.Errorf("malformed response body: %w", err))
	}
	return nil
}

// NormalizeBearer ensures the value is a full Authorization header value
// with the Bearer scheme, accepting tokens given with or without it.
func NormalizeBearer(token string) string {
	if strings.HasPrefix(token, "Bearer ") {
		return token
	}
	return "Bearer " + token
}

// truncate shortens s for inclusion in error context.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
