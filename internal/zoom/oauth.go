package zoom

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"zoomcal/internal/config"
)

// Authenticator runs the OAuth authorization-code flow against Zoom.
type Authenticator struct {
	config     *oauth2.Config
	httpClient *http.Client
	logger     *slog.Logger
}

// NewAuthenticator builds an Authenticator from the app credentials.
// Client credentials are sent with HTTP basic auth, as Zoom requires.
func NewAuthenticator(logger *slog.Logger, cfg *config.Config) *Authenticator {
	base := strings.TrimSuffix(cfg.OAuthURL, "/")
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     cfg.Credentials.ClientID,
			ClientSecret: cfg.Credentials.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:   base + "/authorize",
				TokenURL:  base + "/token",
				AuthStyle: oauth2.AuthStyleInHeader,
			},
		},
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		logger:     logger,
	}
}

// AuthorizationURL returns the URL the operator opens to grant access.
func (a *Authenticator) AuthorizationURL() string {
	return a.config.AuthCodeURL("")
}

// ExchangeCode trades an authorization code for an access/refresh token pair.
func (a *Authenticator) ExchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	a.logger.Debug("Exchanging authorization code for token")
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	token, err := a.config.Exchange(ctx, code)
	if err != nil {
		return nil, exchangeError(err)
	}

	a.logger.Info("Obtained Zoom access token")
	return token, nil
}

// RefreshAccessToken trades a refresh token for a new access/refresh token pair.
func (a *Authenticator) RefreshAccessToken(ctx context.Context, refreshToken string) (*oauth2.Token, error) {
	if refreshToken == "" {
		return nil, errors.New("zoom refresh token is not configured")
	}
	a.logger.Debug("Refreshing access token")
	ctx = context.WithValue(ctx, oauth2.HTTPClient, a.httpClient)

	token, err := a.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken}).Token()
	if err != nil {
		return nil, exchangeError(err)
	}

	a.logger.Info("Refreshed Zoom access token")
	return token, nil
}

func exchangeError(err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) && re.Response != nil {
		return &AuthExchangeError{StatusCode: re.Response.StatusCode, Body: string(re.Body)}
	}
	return fmt.Errorf("failed to exchange token: %w", err)
}
