package icloud

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"sync"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav/caldav"

	"zoomcal/internal/config"
	"zoomcal/internal/models"
)

const productID = "-//zoomcal//EN"

// customTransport handles adding Basic Auth and custom headers to requests.
type customTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *customTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "zoomcal/1.0")
	return t.Transport.RoundTrip(req)
}

// CalDAVClient publishes events to one calendar on a CalDAV server.
// iCloud is the default server. The calendar is looked up on first use.
type CalDAVClient struct {
	caldavClient *caldav.Client
	logger       *slog.Logger
	calendarName string

	mu           sync.Mutex
	calendarPath string
}

// NewClient creates a CalDAVClient. It does not contact the server.
func NewClient(logger *slog.Logger, cfg config.CalDAV, timeout time.Duration) (*CalDAVClient, error) {
	httpClient := &http.Client{
		Transport: &customTransport{
			Username:  cfg.Username,
			Password:  cfg.Password,
			Transport: http.DefaultTransport,
		},
		Timeout: timeout,
	}

	caldavClient, err := caldav.NewClient(httpClient, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}

	return &CalDAVClient{
		caldavClient: caldavClient,
		logger:       logger,
		calendarName: cfg.Calendar,
	}, nil
}

// Publish creates or replaces the event in the calendar.
func (c *CalDAVClient) Publish(ctx context.Context, event *models.Event) error {
	c.logger.Debug("Publishing event to CalDAV", "eventTitle", event.Title, "uid", event.UID)

	calendarPath, err := c.calendar(ctx)
	if err != nil {
		return err
	}

	eventPath := path.Join(calendarPath, event.UID+".ics")
	if _, err := c.caldavClient.PutCalendarObject(ctx, eventPath, NewCalendar(event)); err != nil {
		return fmt.Errorf("failed to put event on CalDAV server: %w", err)
	}

	c.logger.Info("Published event to CalDAV", "eventTitle", event.Title, "path", eventPath)
	return nil
}

// calendar returns the path of the configured calendar, looking it up once it succeeds.
func (c *CalDAVClient) calendar(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.calendarPath != "" {
		return c.calendarPath, nil
	}

	c.logger.Info("Finding CalDAV calendar", "calendarName", c.calendarName)
	calendarPath, err := c.findCalendar(ctx, c.calendarName)
	if err != nil {
		return "", fmt.Errorf("could not find calendar '%s': %w", c.calendarName, err)
	}
	c.calendarPath = calendarPath
	c.logger.Info("Found CalDAV calendar", "path", calendarPath)
	return calendarPath, nil
}

// NewCalendar wraps the event in a VCALENDAR object.
func NewCalendar(event *models.Event) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, toICal(event))
	return cal
}

// EncodeEvent writes the event as an iCalendar document.
func EncodeEvent(w io.Writer, event *models.Event) error {
	if err := ical.NewEncoder(w).Encode(NewCalendar(event)); err != nil {
		return fmt.Errorf("failed to encode event to iCal format: %w", err)
	}
	return nil
}

// toICal converts an internal Event model to an ical.Component (VEvent).
func toICal(event *models.Event) *ical.Component {
	ve := ical.NewComponent(ical.CompEvent)
	ve.Props.SetText(ical.PropUID, event.UID)
	ve.Props.SetText(ical.PropSummary, event.Title)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.StartTime.UTC())
	ve.Props.SetDateTime(ical.PropDateTimeEnd, event.EndTime.UTC())

	if event.Description != "" {
		ve.Props.SetText(ical.PropDescription, event.Description)
	}
	if event.Location != "" {
		ve.Props.SetText(ical.PropLocation, event.Location)
	}
	for _, attendee := range event.Attendees {
		p := ical.NewProp(ical.PropAttendee)
		p.Value = "mailto:" + attendee
		ve.Props.Add(p)
	}
	return ve
}

// findCalendar discovers the user's calendars and returns the path of the one with the matching name.
func (c *CalDAVClient) findCalendar(ctx context.Context, name string) (string, error) {
	principalPath, err := c.caldavClient.FindCurrentUserPrincipal(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to find principal path: %w", err)
	}

	homeSetPath, err := c.caldavClient.FindCalendarHomeSet(ctx, principalPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendar home set: %w", err)
	}

	calendars, err := c.caldavClient.FindCalendars(ctx, homeSetPath)
	if err != nil {
		return "", fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if cal.Name == name {
			return cal.Path, nil
		}
	}

	return "", fmt.Errorf("no calendar found with name '%s'", name)
}
