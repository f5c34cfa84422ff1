package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/one-account-io/oneaccount-go/internal/errors"
)

// newTestServer starts a provider stub and a Client pointed at it.
func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "acme", "s3cret", nil)
}

func TestIntrospect(t *testing.T) {
	t.Parallel()

	t.Run("forwards the authorization header verbatim", func(t *testing.T) {
		t.Parallel()

		var gotAuth, gotBody string
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			raw, _ := io.ReadAll(r.Body)
			gotAuth = r.Header.Get("Authorization")
			gotBody = string(raw)
			_, _ = w.Write([]byte(`{"active":true,"client_id":"acme","sub":"user-1"}`))
		})

		result, err := c.Introspect(context.Background(), "Bearer tok-1")
		require.NoError(t, err)

		assert.Equal(t, "Bearer tok-1", gotAuth)
		assert.Equal(t, "client_id=acme", gotBody)
		assert.True(t, result.Active)
		assert.Equal(t, "acme", result.ClientID)
		assert.Equal(t, "user-1", result.Sub)
	})

	t.Run("decodes the body regardless of status", func(t *testing.T) {
		t.Parallel()

		// Provider-side rejections answer 401 with active=false; that is a
		// verdict, not a transport failure.
		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"active":false}`))
		})

		result, err := c.Introspect(context.Background(), "Bearer bad")
		require.NoError(t, err)
		assert.False(t, result.Active)
	})

	t.Run("malformed body is a transport failure", func(t *testing.T) {
		t.Parallel()

		c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>gateway error</html>`))
		})

		result, err := c.Introspect(context.Background(), "Bearer tok")
		require.Error(t, err)
		assert.Nil(t, result)
		assert.ErrorIs(t, err, errors.ErrUnavailable)
	})

	t.Run("unreachable provider", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		c := New(srv.URL, "acme", "", nil)
		srv.Close()

		_, err := c.Introspect(context.Background(), "Bearer tok")
		require.Error(t, err)
		assert.ErrorIs(t, err, errors.ErrUnavailable)
	})
}

func TestTokenStatusHandling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		status   int
		wantKind error
	}{
		{name: "bad request", status: http.StatusBadRequest, wantKind: errors.ErrBadRequest},
		{name: "unauthorized", status: http.StatusUnauthorized, wantKind: errors.ErrUnauthorized},
		{name: "forbidden", status: http.StatusForbidden, wantKind: errors.ErrForbidden},
		{name: "server error", status: http.StatusInternalServerError, wantKind: errors.ErrUnavailable},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":"rejected"}`))
			})

			_, err := c.Token(context.Background(), &TokenRequest{GrantType: "authorization_code", Code: "x"})
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)

			var domainErr *errors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, tt.status, domainErr.Context["status_code"])
		})
	}
}

func TestTokenSendsCredentials(t *testing.T) {
	t.Parallel()

	var gotBody, gotContentType string
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		gotBody = string(raw)
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600}`))
	})

	result, err := c.Token(context.Background(), &TokenRequest{
		GrantType:   "authorization_code",
		Code:        "abc",
		RedirectURI: "https://app.example/cb",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/x-www-form-urlencoded", gotContentType)
	assert.Equal(t,
		"grant_type=authorization_code&code=abc&redirect_uri=https%3A%2F%2Fapp.example%2Fcb&client_id=acme&client_secret=s3cret",
		gotBody)
	assert.Equal(t, "at", result.AccessToken)
	assert.Equal(t, 3600, result.ExpiresIn)
}

func TestUserInfoDistinguishesAbsentFields(t *testing.T) {
	t.Parallel()

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"email":"a@example.com","phone_numer":"+123"}`))
	})

	result, err := c.UserInfo(context.Background(), "tok")
	require.NoError(t, err)

	require.NotNil(t, result.Email)
	assert.Equal(t, "a@example.com", *result.Email)
	require.NotNil(t, result.PhoneNumber)
	assert.Equal(t, "+123", *result.PhoneNumber)
	assert.Nil(t, result.FirstName)
	assert.Nil(t, result.Gender)
}

func TestExternalTokenRequest(t *testing.T) {
	t.Parallel()

	var gotPath, gotAuth string
	var gotLen int64
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotLen = r.ContentLength
		_, _ = w.Write([]byte(`{"access_token":"ext"}`))
	})

	result, err := c.ExternalToken(context.Background(), "tok", "partner")
	require.NoError(t, err)

	assert.Equal(t, "/oauth/issue-external-token/partner", gotPath)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Zero(t, gotLen)
	assert.Equal(t, "ext", result.AccessToken)
	assert.Nil(t, result.ExpiresIn)
}
