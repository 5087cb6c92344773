package zoom

import (
	"errors"
	"fmt"
)

// ErrMissingCredentials is returned when no access token is configured.
// No request is sent to the provider in that case.
var ErrMissingCredentials = errors.New("zoom access token is not configured, run the 'auth' command first")

// AuthExchangeError is returned when the token endpoint rejects a code or refresh token.
type AuthExchangeError struct {
	StatusCode int
	Body       string
}

func (e *AuthExchangeError) Error() string {
	return fmt.Sprintf("zoom token exchange failed with status %d: %s", e.StatusCode, e.Body)
}

// MeetingCreationError is returned when the meetings endpoint does not answer 201.
type MeetingCreationError struct {
	StatusCode int
	Body       string
}

func (e *MeetingCreationError) Error() string {
	return fmt.Sprintf("zoom meeting creation failed with status %d: %s", e.StatusCode, e.Body)
}
