package oneaccount

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/one-account-io/oneaccount-go/internal/errors"
)

// providerRecorder captures the single request a companion method sends.
type providerRecorder struct {
	status int
	body   string

	gotMethod string
	gotPath   string
	gotAuth   string
	gotBody   string
}

func (p *providerRecorder) start(t *testing.T) *Client {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		p.gotMethod = r.Method
		p.gotPath = r.URL.Path
		p.gotAuth = r.Header.Get("Authorization")
		p.gotBody = string(raw)

		w.Header().Set("Content-Type", "application/json")
		if p.status != 0 {
			w.WriteHeader(p.status)
		}
		_, _ = w.Write([]byte(p.body))
	}))
	t.Cleanup(srv.Close)

	client, err := New(Config{
		ClientID:     "acme",
		ClientSecret: "s3cret",
		APIBaseURL:   srv.URL,
	})
	require.NoError(t, err)
	return client
}

func TestGetToken(t *testing.T) {
	t.Parallel()

	t.Run("sends the ordered form body", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{body: `{"access_token":"at","token_type":"Bearer","expires_in":3600,"sub":"user-1"}`}
		client := provider.start(t)

		result, err := client.GetToken(context.Background(), GetTokenOptions{
			Code:        "abc",
			RedirectURI: "https://app.example/cb",
		})
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, provider.gotMethod)
		assert.Equal(t, "/oauth/token", provider.gotPath)
		assert.Equal(t,
			"grant_type=authorization_code&code=abc&redirect_uri=https%3A%2F%2Fapp.example%2Fcb&client_id=acme&client_secret=s3cret",
			provider.gotBody)

		assert.Equal(t, "at", result.AccessToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, 3600, result.ExpiresIn)
		assert.Equal(t, "user-1", result.Sub)
	})

	t.Run("appends code_verifier when set", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{body: `{"access_token":"at"}`}
		client := provider.start(t)

		_, err := client.GetToken(context.Background(), GetTokenOptions{
			GrantType:    GrantTypeRefreshToken,
			Code:         "abc",
			CodeVerifier: "ver1fier",
		})
		require.NoError(t, err)

		assert.Equal(t,
			"grant_type=refresh_token&code=abc&redirect_uri=&client_id=acme&client_secret=s3cret&code_verifier=ver1fier",
			provider.gotBody)
	})

	t.Run("prefers user_secret over sub", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{body: `{"access_token":"at","user_secret":"legacy-id","sub":"new-id"}`}
		client := provider.start(t)

		result, err := client.GetToken(context.Background(), GetTokenOptions{Code: "abc"})
		require.NoError(t, err)
		assert.Equal(t, "legacy-id", result.Sub)
	})

	t.Run("falls back to sub", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{body: `{"access_token":"at","sub":"new-id"}`}
		client := provider.start(t)

		result, err := client.GetToken(context.Background(), GetTokenOptions{Code: "abc"})
		require.NoError(t, err)
		assert.Equal(t, "new-id", result.Sub)
	})

	t.Run("wraps provider rejections", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{status: http.StatusBadRequest, body: `{"error":"invalid_grant"}`}
		client := provider.start(t)

		result, err := client.GetToken(context.Background(), GetTokenOptions{Code: "bad"})
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, IsCode(err, CodeCouldntGetToken))
		// The transport-level cause stays reachable through the chain.
		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
	})
}

func TestGetUserInfo(t *testing.T) {
	t.Parallel()

	t.Run("fetches and maps the profile", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{
			body: `{"email":"a@example.com","first_name":"Ada","phone_numer":"+123"}`,
		}
		client := provider.start(t)

		info, err := client.GetUserInfo(context.Background(), "tok-1")
		require.NoError(t, err)

		assert.Equal(t, http.MethodGet, provider.gotMethod)
		assert.Equal(t, "/oauth/userinfo", provider.gotPath)
		assert.Equal(t, "Bearer tok-1", provider.gotAuth)

		require.NotNil(t, info.Email)
		assert.Equal(t, "a@example.com", *info.Email)
		require.NotNil(t, info.FirstName)
		assert.Equal(t, "Ada", *info.FirstName)
		// Mapped from the provider's phone_numer field.
		require.NotNil(t, info.PhoneNumber)
		assert.Equal(t, "+123", *info.PhoneNumber)

		// Absent fields stay nil rather than becoming empty strings.
		assert.Nil(t, info.LastName)
		assert.Nil(t, info.BirthDate)
		assert.Nil(t, info.Username)
	})

	t.Run("accepts a token already carrying the scheme", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{body: `{}`}
		client := provider.start(t)

		_, err := client.GetUserInfo(context.Background(), "Bearer tok-1")
		require.NoError(t, err)
		assert.Equal(t, "Bearer tok-1", provider.gotAuth)
	})

	t.Run("wraps failures", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{status: http.StatusUnauthorized, body: `{}`}
		client := provider.start(t)

		info, err := client.GetUserInfo(context.Background(), "tok-1")
		require.Error(t, err)
		assert.Nil(t, info)
		assert.True(t, IsCode(err, CodeCouldntGetUserInfo))
		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})
}

func TestGetExternalToken(t *testing.T) {
	t.Parallel()

	t.Run("mints a delegated token", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{body: `{"access_token":"ext-at","token_type":"Bearer","expires_in":600}`}
		client := provider.start(t)

		result, err := client.GetExternalToken(context.Background(), "tok-1", "partner")
		require.NoError(t, err)

		assert.Equal(t, http.MethodPost, provider.gotMethod)
		assert.Equal(t, "/oauth/issue-external-token/partner", provider.gotPath)
		assert.Equal(t, "Bearer tok-1", provider.gotAuth)
		assert.Empty(t, provider.gotBody)

		assert.Equal(t, "ext-at", result.AccessToken)
		require.NotNil(t, result.ExpiresIn)
		assert.Equal(t, 600, *result.ExpiresIn)
	})

	t.Run("expires_in stays nil when omitted", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{body: `{"access_token":"ext-at","token_type":"Bearer"}`}
		client := provider.start(t)

		result, err := client.GetExternalToken(context.Background(), "tok-1", "partner")
		require.NoError(t, err)
		assert.Nil(t, result.ExpiresIn)
	})

	t.Run("wraps failures", func(t *testing.T) {
		t.Parallel()

		provider := &providerRecorder{status: http.StatusForbidden, body: `{}`}
		client := provider.start(t)

		result, err := client.GetExternalToken(context.Background(), "tok-1", "partner")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.True(t, IsCode(err, CodeCouldntGetExternalToken))
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestNewValidatesConfig(t *testing.T) {
	t.Parallel()

	_, err := New(Config{})
	require.Error(t, err)

	client, err := New(Config{ClientID: "acme"})
	require.NoError(t, err)
	assert.NotNil(t, client)
}
