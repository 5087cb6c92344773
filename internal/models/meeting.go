package models

import "time"

// DefaultDuration is used when a request does not carry a positive duration.
const DefaultDuration = 30

// MeetingRequest describes a meeting to schedule.
type MeetingRequest struct {
	Topic         string    // Meeting topic, also used as the calendar event title
	StartTime     time.Time // Wall-clock start in the configured timezone
	Duration      int       // Duration in minutes
	AttendeeEmail string    // Optional invitee for the calendar link
}

// Meeting is a meeting as returned by the provider after creation.
type Meeting struct {
	ID        int64  `json:"id"`
	Topic     string `json:"topic"`
	JoinURL   string `json:"join_url"`
	StartTime string `json:"start_time"` // ISO 8601, usually with a trailing Z
	Duration  int    `json:"duration"`   // Minutes
}
