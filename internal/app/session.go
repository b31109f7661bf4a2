package app

import "time"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Session records one CLI invocation. Its ID tags every log line written while the
// command runs, and its outcome is logged when the app is closed.
type Session struct {
	ID      string
	Command string
	Started time.Time
	Status  string
}

// NewSession starts a session for command at now. The ID is the UTC start time.
func NewSession(command string, now time.Time) *Session {
	return &Session{
		ID:      now.UTC().Format("20060102T150405Z"),
		Command: command,
		Started: now,
		Status:  StatusSuccess,
	}
}

// Finish marks the session failed when err is non-nil.
func (s *Session) Finish(err error) {
	if err != nil {
		s.Status = StatusError
	}
}

// Elapsed returns the time since the session started, truncated to milliseconds.
func (s *Session) Elapsed(now time.Time) time.Duration {
	return now.Sub(s.Started).Truncate(time.Millisecond)
}
