package zoom

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zoomcal/internal/models"
)

func TestCreateMeeting(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users/me/meetings", r.URL.Path)
		assert.Equal(t, "Bearer access-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":85746065432,"topic":"Demo","join_url":"https://zoom.example/j/85746065432","start_time":"2024-06-01T05:00:00Z","duration":45,"uuid":"ignored"}`))
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL, "")
	c := NewClient(context.Background(), testLogger(), cfg)

	start := time.Date(2024, 6, 1, 14, 0, 0, 0, cfg.Location)
	m, err := c.CreateMeeting(context.Background(), "Demo", start, 45)
	require.NoError(t, err)

	assert.Equal(t, &models.Meeting{
		ID:        85746065432,
		Topic:     "Demo",
		JoinURL:   "https://zoom.example/j/85746065432",
		StartTime: "2024-06-01T05:00:00Z",
		Duration:  45,
	}, m)

	assert.Equal(t, "Demo", got["topic"])
	assert.EqualValues(t, 2, got["type"])
	assert.Equal(t, "2024-06-01T14:00:00", got["start_time"])
	assert.EqualValues(t, 45, got["duration"])
	assert.Equal(t, "Asia/Tokyo", got["timezone"])
	assert.Equal(t, map[string]any{
		"host_video":        true,
		"participant_video": true,
		"join_before_host":  false,
		"mute_upon_entry":   true,
		"auto_recording":    "cloud",
	}, got["settings"])
}

func TestCreateMeetingDefaultDuration(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1,"topic":"t","join_url":"u","start_time":"2024-06-01T05:00:00Z","duration":30}`))
	}))
	defer srv.Close()

	c := NewClient(context.Background(), testLogger(), testConfig(t, srv.URL, ""))
	_, err := c.CreateMeeting(context.Background(), "t", time.Now(), 0)
	require.NoError(t, err)
	assert.EqualValues(t, 30, got["duration"])
}

func TestCreateMeetingProviderErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"ok is not created", http.StatusOK, `{"id":1}`},
		{"unauthorized", http.StatusUnauthorized, `{"code":124,"message":"Invalid access token."}`},
		{"rate limited", http.StatusTooManyRequests, `{"code":429,"message":"Too many requests"}`},
		{"server error", http.StatusInternalServerError, `oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(context.Background(), testLogger(), testConfig(t, srv.URL, ""))
			m, err := c.CreateMeeting(context.Background(), "Demo", time.Now(), 30)
			assert.Nil(t, m)

			var mce *MeetingCreationError
			require.True(t, errors.As(err, &mce), "unexpected error %v", err)
			assert.Equal(t, tt.status, mce.StatusCode)
			assert.Equal(t, tt.body, mce.Body)
		})
	}
}

func TestCreateMeetingMissingToken(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	cfg := testConfig(t, srv.URL, "")
	cfg.Credentials.AccessToken = ""
	c := NewClient(context.Background(), testLogger(), cfg)

	m, err := c.CreateMeeting(context.Background(), "Demo", time.Now(), 30)
	assert.Nil(t, m)
	assert.ErrorIs(t, err, ErrMissingCredentials)
	assert.Zero(t, hits.Load())
}

func TestCreateMeetingTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	cfg := testConfig(t, srv.URL, "")
	cfg.HTTPTimeout = 50 * time.Millisecond
	c := NewClient(context.Background(), testLogger(), cfg)

	_, err := c.CreateMeeting(context.Background(), "Demo", time.Now(), 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "zoom request failed")
}
