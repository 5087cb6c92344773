package google

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"zoomcal/internal/models"
)

const (
	templateURL = "https://calendar.google.com/calendar/render?action=TEMPLATE"
	datesLayout = "20060102T150405Z"
)

// BuildCalendarURL returns a Google Calendar link that pre-fills an event
// for the meeting. attendeeEmail is optional.
func BuildCalendarURL(m *models.Meeting, attendeeEmail string) (string, error) {
	event, err := models.NewEvent(m, attendeeEmail)
	if err != nil {
		return "", err
	}
	return TemplateURL(event), nil
}

// TemplateURL renders an event as a calendar TEMPLATE deep link.
// Opening the link only pre-fills the form; nothing is created server-side.
func TemplateURL(event *models.Event) string {
	var b strings.Builder
	b.WriteString(templateURL)
	b.WriteString("&text=" + escape(event.Title))
	// The slash between the two instants must stay literal.
	b.WriteString("&dates=" + event.StartTime.UTC().Format(datesLayout) + "/" + event.EndTime.UTC().Format(datesLayout))
	b.WriteString("&details=" + escape(event.Description))
	b.WriteString("&location=" + escape(event.Location))
	for _, a := range event.Attendees {
		b.WriteString("&add=" + escape(a))
	}
	return b.String()
}

// ToAPIEvent converts an internal Event model to the resource accepted by
// the Calendar API events.insert call.
func ToAPIEvent(event *models.Event) *calendar.Event {
	var attendees []*calendar.EventAttendee
	for _, a := range event.Attendees {
		attendees = append(attendees, &calendar.EventAttendee{Email: a})
	}
	return &calendar.Event{
		ICalUID:     event.UID,
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
		Start:       &calendar.EventDateTime{DateTime: event.StartTime.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		End:         &calendar.EventDateTime{DateTime: event.EndTime.UTC().Format(time.RFC3339), TimeZone: "UTC"},
		Attendees:   attendees,
	}
}

// EncodeAPIEvent writes the event as Calendar API JSON.
func EncodeAPIEvent(w io.Writer, event *models.Event) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToAPIEvent(event)); err != nil {
		return fmt.Errorf("failed to encode calendar event: %w", err)
	}
	return nil
}

// escape percent-encodes s for a query value. Spaces become %20 and
// slashes stay literal.
func escape(s string) string {
	s = strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	return strings.ReplaceAll(s, "%2F", "/")
}
