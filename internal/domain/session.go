package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const TimerDoneText = "done"

// Session is one active reservation. Only SessionRegistry creates and closes
// sessions; a closed session is never reopened.
type Session struct {
	ID        uuid.UUID
	Request   Request
	StartedAt time.Time
	EndsAt    time.Time
	active    bool
}

func NewSession(request Request, startedAt time.Time, duration time.Duration) *Session {
	return &Session{
		ID:        uuid.New(),
		Request:   request,
		StartedAt: startedAt,
		EndsAt:    startedAt.Add(duration),
		active:    true,
	}
}

func (s *Session) Active() bool {
	return s.active
}

func (s *Session) Close() error {
	if !s.active {
		return ErrSessionClosed
	}
	s.active = false
	return nil
}

func (s *Session) Extend(by time.Duration) error {
	if !s.active {
		return ErrSessionClosed
	}
	s.EndsAt = s.EndsAt.Add(by)
	return nil
}

func (s *Session) Banner() BannerID {
	return s.Request.Banner()
}

func (s *Session) Station() string {
	return s.Request.Station()
}

func (s *Session) Remaining(now time.Time) time.Duration {
	if !now.Before(s.EndsAt) {
		return 0
	}
	return s.EndsAt.Sub(now)
}

// Overdue is advisory only; overdue sessions keep their resources until
// checked in.
func (s *Session) Overdue(now time.Time) bool {
	return !now.Before(s.EndsAt)
}

func (s *Session) TimerText(now time.Time) string {
	if s.Overdue(now) {
		return TimerDoneText
	}
	return fmt.Sprintf("%dm", int(s.Remaining(now).Minutes()))
}
