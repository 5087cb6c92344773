package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"zoomcal/internal/config"
	"zoomcal/internal/models"
)

const (
	// meetingTypeScheduled is Zoom's type code for a scheduled meeting.
	meetingTypeScheduled = 2

	startTimeLayout = "2006-01-02T15:04:05"
)

type meetingSettings struct {
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
	JoinBeforeHost   bool   `json:"join_before_host"`
	MuteUponEntry    bool   `json:"mute_upon_entry"`
	AutoRecording    string `json:"auto_recording"`
}

var defaultSettings = meetingSettings{
	HostVideo:        true,
	ParticipantVideo: true,
	JoinBeforeHost:   false,
	MuteUponEntry:    true,
	AutoRecording:    "cloud",
}

type createMeetingRequest struct {
	Topic     string          `json:"topic"`
	Type      int             `json:"type"`
	StartTime string          `json:"start_time"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone"`
	Settings  meetingSettings `json:"settings"`
}

// Client creates meetings through the Zoom REST API.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	timezone    string
	accessToken string
	logger      *slog.Logger
}

// NewClient creates a new Zoom client authenticated with the configured access token.
// Construction succeeds without a token; CreateMeeting reports it instead.
func NewClient(ctx context.Context, logger *slog.Logger, cfg *config.Config) *Client {
	src := oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken:  cfg.Credentials.AccessToken,
		RefreshToken: cfg.Credentials.RefreshToken,
		TokenType:    "Bearer",
	})
	httpClient := oauth2.NewClient(ctx, src)
	httpClient.Timeout = cfg.HTTPTimeout

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimSuffix(cfg.APIURL, "/"),
		timezone:    cfg.Location.String(),
		accessToken: cfg.Credentials.AccessToken,
		logger:      logger,
	}
}

// CreateMeeting schedules a meeting for the authenticated user.
// start is sent as wall-clock time together with the configured timezone.
func (c *Client) CreateMeeting(ctx context.Context, topic string, start time.Time, duration int) (*models.Meeting, error) {
	if c.accessToken == "" {
		return nil, ErrMissingCredentials
	}
	if duration <= 0 {
		duration = models.DefaultDuration
	}

	body, err := json.Marshal(createMeetingRequest{
		Topic:     topic,
		Type:      meetingTypeScheduled,
		StartTime: start.Format(startTimeLayout),
		Duration:  duration,
		Timezone:  c.timezone,
		Settings:  defaultSettings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal meeting request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/me/meetings", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Creating Zoom meeting", "topic", topic, "start", start.Format(startTimeLayout), "duration", duration)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("zoom request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusCreated {
		return nil, &MeetingCreationError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var meeting models.Meeting
	if err := json.Unmarshal(respBody, &meeting); err != nil {
		return nil, fmt.Errorf("failed to parse meeting response: %w", err)
	}

	c.logger.Info("Created Zoom meeting", "id", meeting.ID, "topic", meeting.Topic)
	return &meeting, nil
}
