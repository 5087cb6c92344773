package server

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"zoomcal/internal/models"
)

// minutes accepts a JSON number or a numeric string. Fractions are truncated.
type minutes int

func (m *minutes) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(string(b), `"`))
	if s == "" || s == "null" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("invalid duration %s", string(b))
	}
	*m = minutes(int(f))
	return nil
}

type createMeetingRequest struct {
	MeetingName   string  `json:"meeting_name"`
	AttendeeEmail string  `json:"attendee_email"`
	MeetingDate   string  `json:"meeting_date"`
	MeetingTime   string  `json:"meeting_time"`
	Duration      minutes `json:"duration"`
}

type meetingResponse struct {
	Topic     string `json:"topic"`
	JoinURL   string `json:"join_url"`
	MeetingID int64  `json:"meeting_id"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
}

type createMeetingResponse struct {
	Success     bool            `json:"success"`
	Meeting     meetingResponse `json:"meeting"`
	CalendarURL string          `json:"calendar_url"`
}

func (s *Server) createMeeting(c *gin.Context) {
	var body createMeetingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.fail(c, fmt.Errorf("invalid request body: %w", err))
		return
	}

	start, err := parseStart(body.MeetingDate, body.MeetingTime, s.location)
	if err != nil {
		s.fail(c, err)
		return
	}

	res, err := s.scheduler.Schedule(c.Request.Context(), models.MeetingRequest{
		Topic:         body.MeetingName,
		StartTime:     start,
		Duration:      int(body.Duration),
		AttendeeEmail: body.AttendeeEmail,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, createMeetingResponse{
		Success: true,
		Meeting: meetingResponse{
			Topic:     res.Meeting.Topic,
			JoinURL:   res.Meeting.JoinURL,
			MeetingID: res.Meeting.ID,
			StartTime: res.Meeting.StartTime,
			Duration:  res.Meeting.Duration,
		},
		CalendarURL: res.CalendarURL,
	})
}

// fail reports every error as a 500 with its message.
func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("Failed to create meeting", "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

// parseStart combines a date (2006-01-02) and a time (15:04 or 15:04:05)
// into a wall-clock start in loc.
func parseStart(date, clock string, loc *time.Location) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("meeting_date and meeting_time are required")
	}
	for _, layout := range []string{"2006-01-02T15:04", "2006-01-02T15:04:05"} {
		if t, err := time.ParseInLocation(layout, date+"T"+clock, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid meeting date/time '%s %s'", date, clock)
}
