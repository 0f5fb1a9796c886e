package domain

import (
	"fmt"
	"time"
)

const (
	WaitReadyText = "ready"
	// WaitDueText marks an entry whose estimate has passed while what it
	// waits on is still held, typically by an overdue session.
	WaitDueText = "due"
)

// WaitlistEntry holds a request that could not be admitted on arrival.
// EstimatedReadyAt and Admissible are owned by the waitlist and recomputed
// on every structural change.
type WaitlistEntry struct {
	Request          Request
	EnqueuedAt       time.Time
	EstimatedReadyAt time.Time
	Admissible       bool
}

func NewWaitlistEntry(request Request, enqueuedAt time.Time) *WaitlistEntry {
	return &WaitlistEntry{Request: request, EnqueuedAt: enqueuedAt}
}

func (e *WaitlistEntry) Banner() BannerID {
	return e.Request.Banner()
}

func (e *WaitlistEntry) Station() string {
	return e.Request.Station()
}

// References reports whether the entry needs the named resource of the
// given kind.
func (e *WaitlistEntry) References(kind ResourceKind, name string) bool {
	if kind == KindStation {
		return e.Request.Station() == name
	}
	return e.Request.UsesEquipment(name)
}

// Overlaps reports whether the entry needs anything in f.
func (e *WaitlistEntry) Overlaps(f Footprint) bool {
	if f.Station != "" && e.References(KindStation, f.Station) {
		return true
	}
	for _, name := range f.Equipment {
		if e.References(KindEquipment, name) {
			return true
		}
	}
	return false
}

func (e *WaitlistEntry) Wait(now time.Time) time.Duration {
	if !now.Before(e.EstimatedReadyAt) {
		return 0
	}
	return e.EstimatedReadyAt.Sub(now)
}

// WaitText is "ready" only for an admissible entry. Otherwise it is the
// remaining wait in minutes, or "due" once the estimate has passed.
func (e *WaitlistEntry) WaitText(now time.Time) string {
	if e.Admissible {
		return WaitReadyText
	}
	wait := e.Wait(now)
	if wait == 0 {
		return WaitDueText
	}
	return fmt.Sprintf("%dm", int(wait.Minutes()))
}
