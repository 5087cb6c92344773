package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"zoomcal/internal/google"
	"zoomcal/internal/models"
)

// MeetingCreator creates meetings with the video-conferencing provider.
type MeetingCreator interface {
	CreateMeeting(ctx context.Context, topic string, start time.Time, duration int) (*models.Meeting, error)
}

// Publisher stores a derived calendar event somewhere the attendee can see it.
type Publisher interface {
	Publish(ctx context.Context, event *models.Event) error
}

// Result is everything produced by scheduling one meeting.
type Result struct {
	Meeting     *models.Meeting
	Event       *models.Event
	CalendarURL string
}

// Scheduler orchestrates meeting creation and calendar link generation.
type Scheduler struct {
	logger    *slog.Logger
	meetings  MeetingCreator
	publisher Publisher
	onResult  func(err error)
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithPublisher also publishes each derived event.
func WithPublisher(p Publisher) Option {
	return func(s *Scheduler) { s.publisher = p }
}

// WithResultHook registers a function called once per Schedule with its outcome.
func WithResultHook(fn func(err error)) Option {
	return func(s *Scheduler) { s.onResult = fn }
}

// NewScheduler creates a new Scheduler.
func NewScheduler(logger *slog.Logger, meetings MeetingCreator, opts ...Option) *Scheduler {
	s := &Scheduler{
		logger:   logger,
		meetings: meetings,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule creates the meeting and derives its calendar link.
// Nothing is retried; the first failure is returned to the caller.
func (s *Scheduler) Schedule(ctx context.Context, req models.MeetingRequest) (*Result, error) {
	res, err := s.schedule(ctx, req)
	if s.onResult != nil {
		s.onResult(err)
	}
	return res, err
}

func (s *Scheduler) schedule(ctx context.Context, req models.MeetingRequest) (*Result, error) {
	duration := req.Duration
	if duration <= 0 {
		duration = models.DefaultDuration
	}

	s.logger.Info("Scheduling meeting.", "topic", req.Topic, "start", req.StartTime, "duration", duration)
	meeting, err := s.meetings.CreateMeeting(ctx, req.Topic, req.StartTime, duration)
	if err != nil {
		return nil, fmt.Errorf("failed to create meeting: %w", err)
	}

	event, err := models.NewEvent(meeting, req.AttendeeEmail)
	if err != nil {
		return nil, fmt.Errorf("failed to derive calendar event: %w", err)
	}

	calendarURL := google.TemplateURL(event)

	if s.publisher != nil {
		// Best effort: the meeting already exists.
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("Failed to publish calendar event", "title", event.Title, "error", err)
		}
	}

	s.logger.Info("Meeting scheduled.", "id", meeting.ID, "joinURL", meeting.JoinURL)
	return &Result{
		Meeting:     meeting,
		Event:       event,
		CalendarURL: calendarURL,
	}, nil
}
