package zoom

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoomcal/internal/config"
)

func TestAuthorizationURL(t *testing.T) {
	a := NewAuthenticator(testLogger(), testConfig(t, "", config.DefaultOAuthURL))

	first := a.AuthorizationURL()
	u, err := url.Parse(first)
	require.NoError(t, err)

	assert.Equal(t, "zoom.us", u.Host)
	assert.Equal(t, "/oauth/authorize", u.Path)
	q := u.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, "http://localhost:3000/oauth/callback", q.Get("redirect_uri"))
	assert.False(t, q.Has("state"))

	assert.Equal(t, first, a.AuthorizationURL())
}

func newTokenServer(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		assert.NoError(t, r.ParseForm())
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestExchangeCode(t *testing.T) {
	srv := newTokenServer(t, http.StatusOK,
		`{"access_token":"new-access","refresh_token":"new-refresh","token_type":"bearer","expires_in":3600}`,
		func(r *http.Request) {
			assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
			assert.Equal(t, "the-code", r.PostForm.Get("code"))
			assert.Equal(t, config.DefaultRedirectURI, r.PostForm.Get("redirect_uri"))
		})
	defer srv.Close()

	a := NewAuthenticator(testLogger(), testConfig(t, "", srv.URL))
	tok, err := a.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "new-access", tok.AccessToken)
	assert.Equal(t, "new-refresh", tok.RefreshToken)
}

func TestExchangeCodeRejected(t *testing.T) {
	srv := newTokenServer(t, http.StatusBadRequest, `{"reason":"Invalid authorization code","error":"invalid_request"}`, nil)
	defer srv.Close()

	a := NewAuthenticator(testLogger(), testConfig(t, "", srv.URL))
	tok, err := a.ExchangeCode(context.Background(), "stale")
	assert.Nil(t, tok)

	var aee *AuthExchangeError
	require.True(t, errors.As(err, &aee), "unexpected error %v", err)
	assert.Equal(t, http.StatusBadRequest, aee.StatusCode)
	assert.Contains(t, aee.Body, "Invalid authorization code")
}

func TestRefreshAccessToken(t *testing.T) {
	srv := newTokenServer(t, http.StatusOK,
		`{"access_token":"fresh","refresh_token":"rotated","token_type":"bearer","expires_in":3600}`,
		func(r *http.Request) {
			assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
			assert.Equal(t, "old-refresh", r.PostForm.Get("refresh_token"))
		})
	defer srv.Close()

	a := NewAuthenticator(testLogger(), testConfig(t, "", srv.URL))
	tok, err := a.RefreshAccessToken(context.Background(), "old-refresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)
	assert.Equal(t, "rotated", tok.RefreshToken)
}

func TestRefreshAccessTokenMissing(t *testing.T) {
	a := NewAuthenticator(testLogger(), testConfig(t, "", config.DefaultOAuthURL))
	_, err := a.RefreshAccessToken(context.Background(), "")
	assert.Error(t, err)
}
