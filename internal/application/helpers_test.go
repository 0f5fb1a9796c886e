package application

import (
	"sync"
	"testing"
	"time"

	"github.com/bnema/frontdesk/internal/domain"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

var t0 = time.Date(2026, 2, 14, 14, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: t0}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *eventRecorder) HandleEvent(event domain.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) Kinds() []domain.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]domain.EventKind, 0, len(r.events))
	for _, e := range r.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func (r *eventRecorder) Count(kind domain.EventKind) int {
	n := 0
	for _, k := range r.Kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

func (r *eventRecorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = nil
}

func testInventory() domain.Inventory {
	return domain.Inventory{
		Stations: []domain.StationSpec{
			{Name: "Pool", Total: 2, Accepts: []string{"Pool Stick"}},
			{Name: "Tennis Table", Total: 1, Accepts: []string{"Paddle"}},
			{Name: "TV", Total: 2, Accepts: []string{"Smash"}},
		},
		Equipment: []domain.EquipmentSpec{
			{Name: "Pool Stick", Total: 2},
			{Name: "Paddle", Total: 2},
			{Name: "Smash", Total: 1},
		},
	}
}

func newTestDesk(t *testing.T) (*Desk, *fakeClock, *eventRecorder) {
	t.Helper()

	clock := newFakeClock()
	desk, err := NewDesk(testInventory(), DefaultTiming(), clock, zaptest.NewLogger(t))
	require.NoError(t, err)

	rec := &eventRecorder{}
	desk.Subscribe(rec)

	return desk, clock, rec
}

func newTestRegistries(t *testing.T) (stations, equipment *domain.PoolRegistry) {
	t.Helper()

	inv := testInventory()
	stations, err := domain.NewPoolRegistry(domain.KindStation, inv.StationPools())
	require.NoError(t, err)
	equipment, err = domain.NewPoolRegistry(domain.KindEquipment, inv.EquipmentPools())
	require.NoError(t, err)
	return stations, equipment
}

func mustRequest(t *testing.T, banner, station string, equipment ...string) domain.Request {
	t.Helper()

	req, err := domain.NewRequest(domain.BannerID(banner), "client "+banner, station, equipment, t0)
	require.NoError(t, err)
	return req
}

func poolAvailable(pools []domain.PoolStatus, name string) int {
	for _, p := range pools {
		if p.Name == name {
			return p.Available
		}
	}
	return -1
}

func nopLogger() *zap.Logger {
	return zap.NewNop()
}
