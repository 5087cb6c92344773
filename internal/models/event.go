package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventLocation is the location literal written into every derived event.
const EventLocation = "Online (Zoom)"

const descriptionTemplate = `Zoom online meeting

Join URL: %s
Meeting ID: %d

Please join from the URL above.
`

// Event represents a standard calendar event.
// This is an internal representation, independent of any specific calendar provider.
type Event struct {
	UID         string    // The iCalendar UID, stable for a given meeting
	Title       string    // Summary or title of the event
	Description string    // Detailed description of the event
	StartTime   time.Time // Start time of the event, in UTC
	EndTime     time.Time // End time of the event, in UTC
	Location    string    // Location of the event
	Attendees   []string  // List of attendee emails
}

// NewEvent derives a calendar event from a created meeting.
// The end time is always the start time plus the meeting duration.
func NewEvent(m *Meeting, attendeeEmail string) (*Event, error) {
	start, err := ParseStartTime(m.StartTime)
	if err != nil {
		return nil, err
	}

	var attendees []string
	if attendeeEmail != "" {
		attendees = []string{attendeeEmail}
	}

	return &Event{
		UID:         uuid.NewSHA1(uuid.NameSpaceURL, []byte(m.JoinURL)).String(),
		Title:       m.Topic,
		Description: fmt.Sprintf(descriptionTemplate, m.JoinURL, m.ID),
		StartTime:   start,
		EndTime:     start.Add(time.Duration(m.Duration) * time.Minute),
		Location:    EventLocation,
		Attendees:   attendees,
	}, nil
}

// ParseStartTime parses a provider start time into UTC.
// RFC 3339 values (trailing Z or an offset) are accepted, and a value
// without any zone designator is read as UTC.
func ParseStartTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid meeting start time '%s': %w", s, err)
	}
	return t, nil
}
