package apiclient

import (
	"net/url"
	"strings"
)

// Endpoint paths on the One Account API, relative to the base URL.
const (
	pathIntrospect    = "/oauth/introspect"
	pathToken         = "/oauth/token"
	pathUserInfo      = "/oauth/userinfo"
	pathExternalToken = "/oauth/issue-external-token"
)

// normalizeBaseURL strips trailing slashes so that joining endpoint paths
// never produces a double slash.
func normalizeBaseURL(baseURL string) string {
	return strings.TrimRight(baseURL, "/")
}

// introspectURL returns the token introspection endpoint.
func (c *Client) introspectURL() string {
	return c.baseURL + pathIntrospect
}

// tokenURL returns the authorization-code exchange endpoint.
func (c *Client) tokenURL() string {
	return c.baseURL + pathToken
}

// userInfoURL returns the end-user profile endpoint.
func (c *Client) userInfoURL() string {
	return c.baseURL + pathUserInfo
}

// externalTokenURL returns the per-client delegated token issuance endpoint.
// The target client id is a path segment and is escaped accordingly.
func (c *Client) externalTokenURL(targetClientID string) string {
	return c.baseURL + pathExternalToken + "/" + url.PathEscape(targetClientID)
}
