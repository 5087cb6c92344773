package config

import (
	"fmt"
	"os"
	"time"
)

const (
	DefaultRedirectURI = "http://localhost:3000/oauth/callback"
	DefaultAPIURL      = "https://api.zoom.us/v2"
	DefaultOAuthURL    = "https://zoom.us/oauth"
	DefaultTimezone    = "Asia/Tokyo"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultListenAddr  = ":5000"
	DefaultLogLevel    = "info"
	DefaultCalDAVURL   = "https://caldav.icloud.com/"
)

// Credentials are the Zoom OAuth app credentials and the tokens obtained for it.
type Credentials struct {
	ClientID     string
	ClientSecret string
	AccessToken  string
	RefreshToken string
}

// CalDAV holds the optional settings for publishing events to a CalDAV calendar.
type CalDAV struct {
	URL      string
	Username string
	Password string
	Calendar string
}

// Enabled reports whether publishing is configured.
func (c CalDAV) Enabled() bool {
	return c.Username != "" && c.Password != "" && c.Calendar != ""
}

// Config is built once at startup and passed to every component.
type Config struct {
	Credentials Credentials
	RedirectURI string
	APIURL      string
	OAuthURL    string
	Location    *time.Location
	HTTPTimeout time.Duration
	ListenAddr  string
	LogLevel    string
	CalDAV      CalDAV
}

// Load reads the configuration from the environment.
// Call godotenv.Load beforehand if a .env file should be honored.
func Load() (*Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (*Config, error) {
	tz := valueOr(getenv("ZOOM_TIMEZONE"), DefaultTimezone)
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone '%s': %w", tz, err)
	}

	timeout := DefaultHTTPTimeout
	if v := getenv("ZOOM_HTTP_TIMEOUT"); v != "" {
		timeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid ZOOM_HTTP_TIMEOUT '%s': %w", v, err)
		}
		if timeout <= 0 {
			return nil, fmt.Errorf("ZOOM_HTTP_TIMEOUT must be positive, got %s", v)
		}
	}

	return &Config{
		Credentials: Credentials{
			ClientID:     getenv("ZOOM_CLIENT_ID"),
			ClientSecret: getenv("ZOOM_CLIENT_SECRET"),
			AccessToken:  getenv("ZOOM_ACCESS_TOKEN"),
			RefreshToken: getenv("ZOOM_REFRESH_TOKEN"),
		},
		RedirectURI: valueOr(getenv("ZOOM_REDIRECT_URI"), DefaultRedirectURI),
		APIURL:      valueOr(getenv("ZOOM_API_URL"), DefaultAPIURL),
		OAuthURL:    valueOr(getenv("ZOOM_OAUTH_URL"), DefaultOAuthURL),
		Location:    loc,
		HTTPTimeout: timeout,
		ListenAddr:  valueOr(getenv("LISTEN_ADDR"), DefaultListenAddr),
		LogLevel:    valueOr(getenv("LOG_LEVEL"), DefaultLogLevel),
		CalDAV: CalDAV{
			URL:      valueOr(getenv("CALDAV_URL"), DefaultCalDAVURL),
			Username: getenv("CALDAV_USERNAME"),
			Password: getenv("CALDAV_PASSWORD"),
			Calendar: getenv("CALDAV_CALENDAR"),
		},
	}, nil
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
