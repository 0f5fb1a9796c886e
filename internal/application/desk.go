package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/frontdesk/internal/domain"
	"github.com/bnema/frontdesk/internal/ports"
	"go.uber.org/zap"
)

// Desk is the single entry point for checkouts and the mediator between the
// pools, the session registry and the waitlist. Each operation runs the
// mutation and its full cascade under one lock, releases it, then delivers
// the resulting events in commit order. Subscribers run without the lock, so
// a handler may read views, unsubscribe or call any Desk method. Events of an
// operation started from a handler are delivered after the current batch.
type Desk struct {
	mu sync.Mutex
	// publishMu is held by the one caller currently draining the outbox.
	publishMu sync.Mutex

	stations  *domain.PoolRegistry
	equipment *domain.PoolRegistry
	accepts   map[string]map[string]struct{}
	sessions  *SessionRegistry
	waitlist  *Waitlist
	bus       *Bus
	// outbox holds committed events not yet delivered. Guarded by mu.
	outbox []domain.Event

	clock  ports.Clock
	logger *zap.Logger
}

func NewDesk(inventory domain.Inventory, timing Timing, clock ports.Clock, logger *zap.Logger) (*Desk, error) {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := inventory.Validate(); err != nil {
		return nil, err
	}

	stations, err := domain.NewPoolRegistry(domain.KindStation, inventory.StationPools())
	if err != nil {
		return nil, fmt.Errorf("build station registry: %w", err)
	}
	equipment, err := domain.NewPoolRegistry(domain.KindEquipment, inventory.EquipmentPools())
	if err != nil {
		return nil, fmt.Errorf("build equipment registry: %w", err)
	}

	d := &Desk{
		stations:  stations,
		equipment: equipment,
		accepts:   inventory.AcceptedEquipment(),
		bus:       NewBus(),
		clock:     clock,
		logger:    logger,
	}

	d.sessions = NewSessionRegistry(stations, equipment, timing, clock, logger.Named("sessions"))
	d.waitlist = NewWaitlist(stations, equipment, d.sessions, timing, clock, logger.Named("waitlist"))
	d.sessions.AttachDemand(d.waitlist)
	d.sessions.emit = d.record
	d.waitlist.emit = d.record

	return d, nil
}

// OpenDesk seeds a desk from source.
func OpenDesk(ctx context.Context, source ports.InventorySource, timing Timing, clock ports.Clock, logger *zap.Logger) (*Desk, error) {
	inventory, err := source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load inventory: %w", err)
	}

	desk, err := NewDesk(inventory, timing, clock, logger)
	if err != nil {
		return nil, fmt.Errorf("open desk: %w", err)
	}
	return desk, nil
}

func (d *Desk) Subscribe(s Subscriber) func() {
	return d.bus.Subscribe(s)
}

// Checkout starts a session when the station and every piece of equipment
// are free, and waitlists the request otherwise. A banner that is already
// waitlisted keeps a single entry: the earlier one is dropped.
func (d *Desk) Checkout(ctx context.Context, cmd CheckoutCommand) (CheckoutResult, error) {
	if err := ctx.Err(); err != nil {
		return CheckoutResult{}, err
	}

	d.mu.Lock()
	defer d.unlockAndPublish()

	now := d.clock.Now()
	req, err := domain.NewRequest(cmd.Banner, cmd.ClientName, cmd.Station, cmd.Equipment, now)
	if err != nil {
		return CheckoutResult{}, err
	}
	if err := d.validate(req); err != nil {
		return CheckoutResult{}, err
	}
	if _, ok := d.sessions.Find(req.Banner()); ok {
		return CheckoutResult{}, fmt.Errorf("%w: %s", domain.ErrBannerActive, req.Banner())
	}

	prior, hadPrior := d.waitlist.Find(req.Banner())

	if d.stations.IsAvailable(req.Station()) && d.equipment.IsAvailableAll(req.Equipment()) {
		session, err := d.sessions.StartSession(req)
		if err != nil {
			return CheckoutResult{}, fmt.Errorf("start session: %w", err)
		}
		if hadPrior {
			if err := d.waitlist.Leave(prior); err != nil {
				return CheckoutResult{}, fmt.Errorf("drop earlier waitlist entry: %w", err)
			}
		}
		d.waitlist.Reconcile(req.Footprint())

		status := sessionStatus(session, d.sessions.Renewable(session), now)
		return CheckoutResult{Outcome: CheckoutStarted, Session: &status, Replaced: hadPrior}, nil
	}

	if hadPrior {
		if err := d.waitlist.Leave(prior); err != nil {
			return CheckoutResult{}, fmt.Errorf("drop earlier waitlist entry: %w", err)
		}
	}
	entry := d.waitlist.Enqueue(req)

	status := entryStatus(entry, d.waitlist.Len(), now)
	return CheckoutResult{Outcome: CheckoutWaitlisted, Entry: &status, Replaced: hadPrior}, nil
}

func (d *Desk) CheckIn(ctx context.Context, banner domain.BannerID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.unlockAndPublish()

	session, ok := d.sessions.Find(banner)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, banner)
	}

	// Reconcile even on a release error: the session is gone either way.
	err := d.sessions.CheckIn(session)
	d.waitlist.Reconcile(session.Request.Footprint())
	return err
}

func (d *Desk) Refresh(ctx context.Context, banner domain.BannerID) (SessionStatus, error) {
	if err := ctx.Err(); err != nil {
		return SessionStatus{}, err
	}

	d.mu.Lock()
	defer d.unlockAndPublish()

	session, ok := d.sessions.Find(banner)
	if !ok {
		return SessionStatus{}, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, banner)
	}
	if err := d.sessions.Refresh(session); err != nil {
		return SessionStatus{}, err
	}

	return sessionStatus(session, d.sessions.Renewable(session), d.clock.Now()), nil
}

func (d *Desk) TryAdmit(ctx context.Context, banner domain.BannerID) (SessionStatus, error) {
	if err := ctx.Err(); err != nil {
		return SessionStatus{}, err
	}

	d.mu.Lock()
	defer d.unlockAndPublish()

	entry, ok := d.waitlist.Find(banner)
	if !ok {
		return SessionStatus{}, fmt.Errorf("%w: %s", domain.ErrEntryNotFound, banner)
	}

	session, err := d.waitlist.TryAdmit(entry)
	if err != nil {
		return SessionStatus{}, err
	}

	return sessionStatus(session, d.sessions.Renewable(session), d.clock.Now()), nil
}

func (d *Desk) Leave(ctx context.Context, banner domain.BannerID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.unlockAndPublish()

	entry, ok := d.waitlist.Find(banner)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrEntryNotFound, banner)
	}

	return d.waitlist.Leave(entry)
}

func (d *Desk) Pools() (stations, equipment []domain.PoolStatus) {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.stations.Snapshot(), d.equipment.Snapshot()
}

func (d *Desk) Sessions() []SessionStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.sessionStatuses(d.clock.Now())
}

func (d *Desk) Waitlist() []EntryStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.entryStatuses(d.clock.Now())
}

func (d *Desk) FindSession(banner domain.BannerID) (SessionStatus, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	session, ok := d.sessions.Find(banner)
	if !ok {
		return SessionStatus{}, false
	}
	return sessionStatus(session, d.sessions.Renewable(session), d.clock.Now()), true
}

func (d *Desk) FindEntry(banner domain.BannerID) (EntryStatus, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i, entry := range d.waitlist.Entries() {
		if entry.Banner() == banner {
			return entryStatus(entry, i+1, d.clock.Now()), true
		}
	}
	return EntryStatus{}, false
}

// Board is a consistent snapshot of everything the presentation layer shows.
func (d *Desk) Board() Board {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	return Board{
		Now:       now,
		Stations:  d.stations.Snapshot(),
		Equipment: d.equipment.Snapshot(),
		Sessions:  d.sessionStatuses(now),
		Waitlist:  d.entryStatuses(now),
	}
}

// Overdue lists sessions past their deadline. Deadlines are advisory; the
// sessions keep their resources.
func (d *Desk) Overdue() []SessionStatus {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []SessionStatus
	for _, s := range d.sessionStatuses(d.clock.Now()) {
		if s.Overdue {
			out = append(out, s)
		}
	}
	return out
}

func (d *Desk) validate(req domain.Request) error {
	if !d.stations.Has(req.Station()) {
		return fmt.Errorf("%w: %s %q", domain.ErrUnknownResource, domain.KindStation, req.Station())
	}

	accepted := d.accepts[req.Station()]
	for _, name := range req.Equipment() {
		if !d.equipment.Has(name) {
			return fmt.Errorf("%w: %s %q", domain.ErrUnknownResource, domain.KindEquipment, name)
		}
		if len(accepted) == 0 {
			continue
		}
		if _, ok := accepted[name]; !ok {
			return fmt.Errorf("%w: %q at %q", domain.ErrEquipmentNotAccepted, name, req.Station())
		}
	}

	return nil
}

func (d *Desk) sessionStatuses(now time.Time) []SessionStatus {
	sessions := d.sessions.Sessions()
	out := make([]SessionStatus, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionStatus(s, d.sessions.Renewable(s), now))
	}
	return out
}

func (d *Desk) entryStatuses(now time.Time) []EntryStatus {
	entries := d.waitlist.Entries()
	out := make([]EntryStatus, 0, len(entries))
	for i, e := range entries {
		out = append(out, entryStatus(e, i+1, now))
	}
	return out
}

func (d *Desk) record(event domain.Event) {
	d.outbox = append(d.outbox, event)
}

// unlockAndPublish releases the desk and delivers whatever is queued. It
// runs after the whole cascade so subscribers only ever see settled state.
func (d *Desk) unlockAndPublish() {
	d.mu.Unlock()

	d.drain()
}

// drain delivers queued events in commit order. Only one caller drains at a
// time; the others return at once and leave their events to it. The desk
// lock is never held while subscribers run.
func (d *Desk) drain() {
	for {
		if !d.publishMu.TryLock() {
			return
		}
		for {
			d.mu.Lock()
			events := d.outbox
			d.outbox = nil
			d.mu.Unlock()

			if len(events) == 0 {
				break
			}
			d.bus.Publish(events...)
		}
		d.publishMu.Unlock()

		// Events queued between the last empty check and Unlock belong to a
		// caller that already gave up on TryLock.
		d.mu.Lock()
		more := len(d.outbox) > 0
		d.mu.Unlock()
		if !more {
			return
		}
	}
}
