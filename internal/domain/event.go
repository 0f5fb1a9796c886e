package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventSessionAdded     EventKind = "session.added"
	EventSessionRemoved   EventKind = "session.removed"
	EventSessionRefreshed EventKind = "session.refreshed"
	EventWaitlistAdded    EventKind = "waitlist.added"
	EventWaitlistRemoved  EventKind = "waitlist.removed"
	EventWaitlistUpdated  EventKind = "waitlist.updated"
	EventEntryReady       EventKind = "waitlist.ready"
	EventPoolChanged      EventKind = "pool.changed"
)

// Event is a structural change notification. Payload fields are copies taken
// after the change committed; subscribers must not hold on to engine state.
type Event struct {
	ID         uuid.UUID
	Kind       EventKind
	At         time.Time
	Banner     BannerID
	ClientName string
	Station    string
	Equipment  []string
	EndsAt     time.Time
	ReadyAt    time.Time
	Pool       *PoolStatus
}

func NewEvent(kind EventKind, at time.Time) Event {
	return Event{ID: uuid.New(), Kind: kind, At: at}
}

func (e Event) WithRequest(r Request) Event {
	e.Banner = r.Banner()
	e.ClientName = r.ClientName()
	e.Station = r.Station()
	e.Equipment = r.Equipment()
	return e
}
