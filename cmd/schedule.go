package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"zoomcal/internal/config"
	"zoomcal/internal/google"
	"zoomcal/internal/icloud"
	"zoomcal/internal/models"
	"zoomcal/internal/scheduler"
	"zoomcal/internal/zoom"
)

const (
	exampleTopic = "[Test] Sales meeting"
	exampleTime  = "14:00"
)

func scheduleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "topic", Value: exampleTopic, Usage: "Meeting topic."},
		&cli.StringFlag{Name: "date", Usage: "Meeting date as YYYY-MM-DD. Defaults to tomorrow."},
		&cli.StringFlag{Name: "time", Value: exampleTime, Usage: "Meeting start as HH:MM in ZOOM_TIMEZONE."},
		&cli.IntFlag{Name: "duration", Value: models.DefaultDuration, Usage: "Duration in minutes."},
		&cli.StringFlag{Name: "attendee", Usage: "Email address to invite through the calendar link."},
		&cli.StringFlag{Name: "ics", Usage: "Also write the event as an iCalendar file to this path."},
		&cli.StringFlag{Name: "event-json", Usage: "Also write the event as a Google Calendar API events resource to this path."},
	}
}

func scheduleCommand() *cli.Command {
	return &cli.Command{
		Name:   "schedule",
		Usage:  "Create a Zoom meeting and print its Google Calendar link.",
		Flags:  scheduleFlags(),
		Action: scheduleAction,
	}
}

func scheduleAction(c *cli.Context) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	out := c.App.Writer
	if cfg.Credentials.AccessToken == "" {
		return runSetup(c, logger, cfg)
	}

	start, err := startFromFlags(c, cfg.Location, time.Now())
	if err != nil {
		return err
	}

	s := newScheduler(c.Context, logger, cfg)
	res, err := s.Schedule(c.Context, models.MeetingRequest{
		Topic:         c.String("topic"),
		StartTime:     start,
		Duration:      c.Int("duration"),
		AttendeeEmail: c.String("attendee"),
	})
	if errors.Is(err, zoom.ErrMissingCredentials) {
		return runSetup(c, logger, cfg)
	}
	if err != nil {
		var mce *zoom.MeetingCreationError
		if errors.As(err, &mce) {
			fmt.Fprintf(out, "\nMeeting creation failed: %d\n%s\n", mce.StatusCode, mce.Body)
		}
		return err
	}

	printResult(out, res, cfg.Location)

	if path := c.String("ics"); path != "" {
		if err := writeEventFile(path, "ics", res.Event, icloud.EncodeEvent); err != nil {
			return err
		}
		fmt.Fprintf(out, "\niCalendar file written to %s\n", path)
	}
	if path := c.String("event-json"); path != "" {
		if err := writeEventFile(path, "event json", res.Event, google.EncodeAPIEvent); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nCalendar API event written to %s\n", path)
	}
	return nil
}

func runSetup(c *cli.Context, logger *slog.Logger, cfg *config.Config) error {
	fmt.Fprintln(c.App.Writer, "No Zoom access token configured. Starting first-time setup.")
	return bootstrap(c, logger, cfg)
}

// startFromFlags resolves --date and --time in loc. An empty date means the day after now.
func startFromFlags(c *cli.Context, loc *time.Location, now time.Time) (time.Time, error) {
	date := c.String("date")
	if date == "" {
		date = now.In(loc).AddDate(0, 0, 1).Format("2006-01-02")
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+c.String("time"), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date/--time: %w", err)
	}
	return start, nil
}

func printResult(out io.Writer, res *scheduler.Result, loc *time.Location) {
	m := res.Meeting
	fmt.Fprintln(out, "\nMeeting created.")
	fmt.Fprintf(out, "  Topic:      %s\n", m.Topic)
	fmt.Fprintf(out, "  Join URL:   %s\n", m.JoinURL)
	fmt.Fprintf(out, "  Meeting ID: %d\n", m.ID)
	fmt.Fprintf(out, "  Start:      %s\n", m.StartTime)
	fmt.Fprintf(out, "  Duration:   %d min\n", m.Duration)

	fmt.Fprintln(out, "\nAdd it to Google Calendar:")
	fmt.Fprintf(out, "  When:   %s (%d min)\n", res.Event.StartTime.In(loc).Format("2006/01/02 15:04"), m.Duration)
	for _, a := range res.Event.Attendees {
		fmt.Fprintf(out, "  Invite: %s\n", a)
	}
	fmt.Fprintf(out, "\n  %s\n", res.CalendarURL)
}

func writeEventFile(path, kind string, event *models.Event, encode func(io.Writer, *models.Event) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s file: %w", kind, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("unable to close %s file: %w", kind, cerr)
		}
	}()
	return encode(f, event)
}

