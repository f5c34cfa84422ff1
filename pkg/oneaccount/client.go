package oneaccount

import (
	"context"
	"log/slog"

	"github.com/one-account-io/oneaccount-go/internal/apiclient"
)

// Client is a One Account API client bound to a single registered
// application. It provides the Auth middleware and the companion methods
// for the authorization-code exchange, profile fetching, and delegated
// token issuance. A Client is stateless apart from its immutable
// configuration and is safe for concurrent use.
type Client struct {
	cfg  Config
	api  *apiclient.Client
	doer Doer
	log  *slog.Logger
}

// New creates a Client from the given configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}

	c := &Client{
		cfg: cfg,
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.api = apiclient.New(cfg.APIBaseURL, cfg.ClientID, cfg.ClientSecret, c.doer)
	return c, nil
}

// GetTokenOptions carries the parameters of the authorization-code
// exchange. GrantType defaults to authorization_code.
type GetTokenOptions struct {
	GrantType    string
	Code         string
	RedirectURI  string
	CodeVerifier string
}

// TokenResult is the normalized result of GetToken.
type TokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int

	// Sub is the user identifier the provider assigned to this client for
	// the authenticated user.
	Sub string
}

// GetToken exchanges an authorization code for an access token.
// On any failure it returns an AuthError coded COULDNT_GET_TOKEN wrapping
// the underlying cause.
func (c *Client) GetToken(ctx context.Context, opts GetTokenOptions) (*TokenResult, error) {
	grantType := opts.GrantType
	if grantType == "" {
		grantType = GrantTypeAuthorizationCode
	}

	resp, err := c.api.Token(ctx, &apiclient.TokenRequest{
		GrantType:    grantType,
		Code:         opts.Code,
		RedirectURI:  opts.RedirectURI,
		CodeVerifier: opts.CodeVerifier,
	})
	if err != nil {
		return nil, newAPIError(CodeCouldntGetToken, "Couldn't get token.", err)
	}

	// Older provider versions return user_secret, newer ones sub.
	sub := resp.UserSecret
	if sub == "" {
		sub = resp.Sub
	}

	return &TokenResult{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresIn:   resp.ExpiresIn,
		Sub:         sub,
	}, nil
}

// UserInfo is the normalized end-user profile. Fields the provider did not
// return stay nil rather than defaulting to empty values.
type UserInfo struct {
	BirthDate      *string
	CountryCode    *string
	Email          *string
	FirstName      *string
	LastName       *string
	FullName       *string
	Gender         *string
	PhoneNumber    *string
	ProfilePicture *string
	Username       *string
}

// GetUserInfo fetches the profile of the user the token belongs to.
// The token is accepted with or without the "Bearer " prefix. On any
// failure it returns an AuthError coded COULDNT_GET_USERINFO wrapping the
// underlying cause.
func (c *Client) GetUserInfo(ctx context.Context, token string) (*UserInfo, error) {
	resp, err := c.api.UserInfo(ctx, token)
	if err != nil {
		return nil, newAPIError(CodeCouldntGetUserInfo, "Couldn't get user info.", err)
	}

	return &UserInfo{
		BirthDate:      resp.BirthDate,
		CountryCode:    resp.CountryCode,
		Email:          resp.Email,
		FirstName:      resp.FirstName,
		LastName:       resp.LastName,
		FullName:       resp.FullName,
		Gender:         resp.Gender,
		PhoneNumber:    resp.PhoneNumber,
		ProfilePicture: resp.ProfilePicture,
		Username:       resp.Username,
	}, nil
}

// ExternalTokenResult is the normalized result of GetExternalToken.
// ExpiresIn is nil when the provider omits it.
type ExternalTokenResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   *int
}

// GetExternalToken asks the provider to mint a delegated token for the
// target client, authenticated by this caller's token. On any failure it
// returns an AuthError coded COULDNT_GET_EXTERNAL_TOKEN wrapping the
// underlying cause.
func (c *Client) GetExternalToken(ctx context.Context, token, targetClientID string) (*ExternalTokenResult, error) {
	resp, err := c.api.ExternalToken(ctx, token, targetClientID)
	if err != nil {
		return nil, newAPIError(CodeCouldntGetExternalToken, "Couldn't get external token.", err)
	}

	return &ExternalTokenResult{
		AccessToken: resp.AccessToken,
		TokenType:   resp.TokenType,
		ExpiresIn:   resp.ExpiresIn,
	}, nil
}
