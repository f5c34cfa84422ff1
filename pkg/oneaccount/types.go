package oneaccount

// DefaultAPIBaseURL is the One Account API base URL used when Config does
// not override it.
const DefaultAPIBaseURL = "https://api.one-account.io/v1"

// Grant types accepted by the token endpoint.
const (
	// GrantTypeAuthorizationCode is the authorization code grant type.
	// It is the default when GetTokenOptions leaves GrantType empty.
	GrantTypeAuthorizationCode = "authorization_code"

	// GrantTypeRefreshToken is the refresh token grant type.
	GrantTypeRefreshToken = "refresh_token"
)

// Token type constants as defined in RFC 6750.
const (
	// BearerToken is the Bearer token type.
	BearerToken = "Bearer"
)

// HTTP header names.
const (
	// HeaderAuthorization is the Authorization HTTP header name.
	HeaderAuthorization = "Authorization"

	// HeaderWWWAuthenticate is the WWW-Authenticate HTTP header name.
	HeaderWWWAuthenticate = "WWW-Authenticate"

	// HeaderContentType is the Content-Type HTTP header name.
	HeaderContentType = "Content-Type"
)

// Content type constants.
const (
	// ContentTypeJSON is the application/json content type.
	ContentTypeJSON = "application/json"
)
