package application

import (
	"fmt"
	"sort"
	"time"

	"github.com/bnema/frontdesk/internal/domain"
	"github.com/bnema/frontdesk/internal/ports"
	"go.uber.org/zap"
)

// Waitlist holds requests that could not be admitted on arrival, in arrival
// order, together with their estimated ready time and admissibility.
type Waitlist struct {
	entries   []*domain.WaitlistEntry
	stations  *domain.PoolRegistry
	equipment *domain.PoolRegistry
	sessions  *SessionRegistry
	timing    Timing
	clock     ports.Clock
	logger    *zap.Logger
	emit      func(domain.Event)
}

func NewWaitlist(stations, equipment *domain.PoolRegistry, sessions *SessionRegistry, timing Timing, clock ports.Clock, logger *zap.Logger) *Waitlist {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Waitlist{
		stations:  stations,
		equipment: equipment,
		sessions:  sessions,
		timing:    timing.withDefaults(),
		clock:     clock,
		logger:    logger,
		emit:      func(domain.Event) {},
	}
}

func (w *Waitlist) Enqueue(req domain.Request) *domain.WaitlistEntry {
	now := w.clock.Now()
	entry := domain.NewWaitlistEntry(req, now)
	w.entries = append(w.entries, entry)

	w.emit(domain.NewEvent(domain.EventWaitlistAdded, now).WithRequest(req))
	w.logger.Info("request waitlisted",
		zap.String("banner", req.Banner().String()),
		zap.String("station", req.Station()),
		zap.Int("position", len(w.entries)),
	)

	w.RecomputeEstimates()
	w.RecomputeAdmissibility(req.Footprint())

	return entry
}

// Leave drops the entry on the client's behalf.
func (w *Waitlist) Leave(entry *domain.WaitlistEntry) error {
	if err := w.remove(entry); err != nil {
		return err
	}
	w.RecomputeEstimates()
	return nil
}

// TryAdmit turns an admissible entry into a session. An entry that is not
// flagged admissible is refused with ErrAdmissionNotReady and nothing
// changes.
func (w *Waitlist) TryAdmit(entry *domain.WaitlistEntry) (*domain.Session, error) {
	if w.indexOf(entry) < 0 {
		return nil, domain.ErrEntryNotFound
	}
	if !entry.Admissible {
		return nil, fmt.Errorf("%w: %s", domain.ErrAdmissionNotReady, entry.Banner())
	}

	session, err := w.sessions.StartSession(entry.Request)
	if err != nil {
		return nil, fmt.Errorf("admit waitlisted request: %w", err)
	}

	if err := w.remove(entry); err != nil {
		return nil, err
	}
	w.Reconcile(entry.Request.Footprint())

	return session, nil
}

// Reconcile refreshes estimates and admissibility after a session started or
// ended on the affected resources.
func (w *Waitlist) Reconcile(affected domain.Footprint) {
	w.RecomputeEstimates()
	w.RecomputeAdmissibility(affected)
}

func (w *Waitlist) Find(banner domain.BannerID) (*domain.WaitlistEntry, bool) {
	for _, entry := range w.entries {
		if entry.Banner() == banner {
			return entry, true
		}
	}
	return nil, false
}

func (w *Waitlist) Entries() []*domain.WaitlistEntry {
	out := make([]*domain.WaitlistEntry, len(w.entries))
	copy(out, w.entries)
	return out
}

func (w *Waitlist) Len() int {
	return len(w.entries)
}

func (w *Waitlist) HasStation(name string) bool {
	for _, entry := range w.entries {
		if entry.Station() == name {
			return true
		}
	}
	return false
}

// RecomputeEstimates assigns every entry an estimated ready time in two
// passes. The first pass walks the queue in arrival order and hands out free
// equipment units, projecting the rest onto the end times of the sessions
// holding them; entries are then ranked by that equipment estimate. The
// second pass repeats the projection for stations over the ranked order. An
// entry is ready when both its station and all its equipment are, so the
// later of the two estimates wins.
func (w *Waitlist) RecomputeEstimates() {
	if len(w.entries) == 0 {
		return
	}
	now := w.clock.Now()

	type ranked struct {
		entry       *domain.WaitlistEntry
		equipmentAt time.Time
	}

	equipment := newProjection(w.equipment, w.sessions, w.timing.SessionDuration, now)
	order := make([]ranked, 0, len(w.entries))
	for _, entry := range w.entries {
		at := now
		for _, name := range entry.Request.Equipment() {
			if t := equipment.next(name); t.After(at) {
				at = t
			}
		}
		order = append(order, ranked{entry: entry, equipmentAt: at})
	}

	sort.SliceStable(order, func(i, j int) bool {
		return order[i].equipmentAt.Before(order[j].equipmentAt)
	})

	stations := newProjection(w.stations, w.sessions, w.timing.SessionDuration, now)
	changed := false
	for _, r := range order {
		at := stations.next(r.entry.Station())
		if r.equipmentAt.After(at) {
			at = r.equipmentAt
		}
		if !r.entry.EstimatedReadyAt.Equal(at) {
			r.entry.EstimatedReadyAt = at
			changed = true
		}
	}

	if changed {
		w.emit(domain.NewEvent(domain.EventWaitlistUpdated, now))
	}
}

// RecomputeAdmissibility re-evaluates entries that need any affected
// resource, matching stations against stations and equipment against
// equipment. Availability is looked up at most once per name per call.
func (w *Waitlist) RecomputeAdmissibility(affected domain.Footprint) {
	if len(w.entries) == 0 {
		return
	}

	stationFree := make(map[string]bool)
	equipmentFree := make(map[string]bool)
	free := func(memo map[string]bool, registry *domain.PoolRegistry, name string) bool {
		v, ok := memo[name]
		if !ok {
			v = registry.IsAvailable(name)
			memo[name] = v
		}
		return v
	}

	now := w.clock.Now()
	for _, entry := range w.entries {
		if !entry.Overlaps(affected) {
			continue
		}

		admissible := free(stationFree, w.stations, entry.Station())
		for _, name := range entry.Request.Equipment() {
			if !admissible {
				break
			}
			admissible = free(equipmentFree, w.equipment, name)
		}

		was := entry.Admissible
		entry.Admissible = admissible
		if admissible && !was {
			event := domain.NewEvent(domain.EventEntryReady, now).WithRequest(entry.Request)
			event.ReadyAt = entry.EstimatedReadyAt
			w.emit(event)
		}
	}
}

func (w *Waitlist) remove(entry *domain.WaitlistEntry) error {
	idx := w.indexOf(entry)
	if idx < 0 {
		return domain.ErrEntryNotFound
	}

	w.entries = append(w.entries[:idx], w.entries[idx+1:]...)
	w.emit(domain.NewEvent(domain.EventWaitlistRemoved, w.clock.Now()).WithRequest(entry.Request))

	return nil
}

func (w *Waitlist) indexOf(entry *domain.WaitlistEntry) int {
	for i, e := range w.entries {
		if e == entry {
			return i
		}
	}
	return -1
}

// projection hands out virtual units of one resource kind. Free units are
// ready now; the n-th unit past the free ones becomes ready when the n-th
// soonest-ending session holding it ends, or a whole session length after
// the last known end once those run out.
type projection struct {
	registry *domain.PoolRegistry
	sessions *SessionRegistry
	duration time.Duration
	now      time.Time
	counts   map[string]int
	ends     map[string][]time.Time
}

func newProjection(registry *domain.PoolRegistry, sessions *SessionRegistry, duration time.Duration, now time.Time) *projection {
	return &projection{
		registry: registry,
		sessions: sessions,
		duration: duration,
		now:      now,
		counts:   make(map[string]int),
		ends:     make(map[string][]time.Time),
	}
}

func (p *projection) next(name string) time.Time {
	count, ok := p.counts[name]
	if !ok {
		count = p.registry.Available(name)
	}
	p.counts[name] = count - 1
	if count > 0 {
		return p.now
	}

	ends, ok := p.ends[name]
	if !ok {
		ends = p.sessions.EndTimes(p.registry.Kind(), name)
		p.ends[name] = ends
	}

	n := 1 - count
	if n <= len(ends) {
		return latest(ends[n-1], p.now)
	}

	last := p.now
	if len(ends) > 0 {
		last = latest(ends[len(ends)-1], p.now)
	}
	return last.Add(time.Duration(n-len(ends)) * p.duration)
}

func latest(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}
