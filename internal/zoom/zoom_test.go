package zoom

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"zoomcal/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T, apiURL, oauthURL string) *config.Config {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return &config.Config{
		Credentials: config.Credentials{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			AccessToken:  "access-token",
		},
		RedirectURI: config.DefaultRedirectURI,
		APIURL:      apiURL,
		OAuthURL:    oauthURL,
		Location:    loc,
		HTTPTimeout: 5 * time.Second,
	}
}
