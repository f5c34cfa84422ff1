package apiclient

import (
	"net/url"
	"strings"
)

// IntrospectionResponse is the wire shape of the introspection endpoint.
// Only active is guaranteed; the remaining fields are absent for inactive
// tokens and for provider-side error bodies.
type IntrospectionResponse struct {
	Active   bool   `json:"active"`
	Scope    string `json:"scope"`
	ClientID string `json:"client_id"`
	Sub      string `json:"sub"`
	Aud      string `json:"aud"`
}

// TokenRequest carries the parameters for the authorization-code exchange.
// Client credentials are supplied by the Client itself.
type TokenRequest struct {
	GrantType    string
	Code         string
	RedirectURI  string
	CodeVerifier string
}

// TokenResponse is the wire shape of the token endpoint.
// Older provider versions return the user identifier as user_secret,
// newer ones as sub.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	UserSecret  string `json:"user_secret"`
	Sub         string `json:"sub"`
}

// UserInfoResponse is the wire shape of the userinfo endpoint.
// All fields are optional; pointers distinguish absent from empty.
// phone_numer is the provider's spelling.
type UserInfoResponse struct {
	BirthDate      *string `json:"birth_date"`
	CountryCode    *string `json:"country_code"`
	Email          *string `json:"email"`
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	FullName       *string `json:"full_name"`
	Gender         *string `json:"gender"`
	PhoneNumber    *string `json:"phone_numer"`
	ProfilePicture *string `json:"profile_picture"`
	Username       *string `json:"username"`
}

// ExternalTokenResponse is the wire shape of the issue-external-token
// endpoint. expires_in may be omitted by the provider.
type ExternalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   *int   `json:"expires_in"`
}

// formField is a single key/value pair of a form-encoded request body.
type formField struct {
	key   string
	value string
}

// encodeForm encodes fields as application/x-www-form-urlencoded, preserving
// field order. url.Values is not used because its Encode sorts keys and the
// token endpoint expects grant_type first.
func encodeForm(fields []formField) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(f.key))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(f.value))
	}
	return b.String()
}

// formFields builds the ordered field list for the token endpoint.
// code_verifier is appended only when set.
func (r *TokenRequest) formFields(clientID, clientSecret string) []formField {
	fields := []formField{
		{"grant_type", r.GrantType},
		{"code", r.Code},
		{"redirect_uri", r.RedirectURI},
		{"client_id", clientID},
		{"client_secret", clientSecret},
	}
	if r.CodeVerifier != "" {
		fields = append(fields, formField{"code_verifier", r.CodeVerifier})
	}
	return fields
}
