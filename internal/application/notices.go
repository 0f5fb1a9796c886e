package application

import (
	"fmt"
	"sync"
	"time"

	"github.com/bnema/frontdesk/internal/domain"
	"github.com/bnema/frontdesk/internal/ports"
)

// NoticeBoard keeps the user-facing notices raised from desk events. The same
// message is never posted twice while it is still on the board.
type NoticeBoard struct {
	mu      sync.Mutex
	notices []domain.Notice
	nextID  domain.NoticeID
	clock   ports.Clock
}

var _ Subscriber = (*NoticeBoard)(nil)

func NewNoticeBoard(clock ports.Clock) *NoticeBoard {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	return &NoticeBoard{clock: clock}
}

func (b *NoticeBoard) HandleEvent(event domain.Event) {
	if event.Kind != domain.EventEntryReady {
		return
	}
	b.Post(fmt.Sprintf("%s is up next at the %s", displayClient(event.ClientName, event.Banner), event.Station))
}

// Post adds message unless an identical notice is already on the board.
func (b *NoticeBoard) Post(message string) (domain.Notice, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, n := range b.notices {
		if n.Message == message {
			return n, false
		}
	}

	b.nextID++
	notice := domain.Notice{ID: b.nextID, Message: message, At: b.clock.Now()}
	b.notices = append(b.notices, notice)
	return notice, true
}

func (b *NoticeBoard) Notices() []domain.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]domain.Notice, len(b.notices))
	copy(out, b.notices)
	return out
}

// Dismiss removes the given notices, or every notice when ids is empty. It
// returns how many were removed.
func (b *NoticeBoard) Dismiss(ids ...domain.NoticeID) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(ids) == 0 {
		n := len(b.notices)
		b.notices = nil
		return n
	}

	drop := make(map[domain.NoticeID]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	kept := b.notices[:0]
	removed := 0
	for _, n := range b.notices {
		if _, ok := drop[n.ID]; ok {
			removed++
			continue
		}
		kept = append(kept, n)
	}
	b.notices = kept
	return removed
}

// SweepOverdue posts a notice for every overdue session and returns how many
// new notices were added.
func (b *NoticeBoard) SweepOverdue(sessions []SessionStatus) int {
	added := 0
	for _, s := range sessions {
		if !s.Overdue {
			continue
		}
		if _, ok := b.Post(fmt.Sprintf("%s's time is up at the %s", displayClient(s.ClientName, s.Banner), s.Station)); ok {
			added++
		}
	}
	return added
}

// CatchUpHourlyCount posts the count reminder for the latest full hour in
// (since, now], if there is one.
func (b *NoticeBoard) CatchUpHourlyCount(since, now time.Time) bool {
	boundary := now.Truncate(time.Hour)
	if !since.Before(boundary) {
		return false
	}
	_, added := b.Post(HourlyCountMessage(boundary.Add(-time.Minute)))
	return added
}

// HourlyCountMessage is the reminder for the first full hour after now.
func HourlyCountMessage(now time.Time) string {
	next := now.Truncate(time.Hour).Add(time.Hour)
	return "Do the hourly count for " + next.Format("3PM")
}

func displayClient(name string, banner domain.BannerID) string {
	if name != "" {
		return name
	}
	return banner.String()
}
