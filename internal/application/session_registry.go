package application

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/bnema/frontdesk/internal/domain"
	"github.com/bnema/frontdesk/internal/ports"
	"github.com/elliotchance/orderedmap/v2"
	"go.uber.org/zap"
)

const (
	DefaultSessionDuration = 30 * time.Minute
	DefaultRefreshDuration = 30 * time.Minute
)

type Timing struct {
	SessionDuration time.Duration
	RefreshDuration time.Duration
}

func DefaultTiming() Timing {
	return Timing{
		SessionDuration: DefaultSessionDuration,
		RefreshDuration: DefaultRefreshDuration,
	}
}

func (t Timing) withDefaults() Timing {
	if t.SessionDuration <= 0 {
		t.SessionDuration = DefaultSessionDuration
	}
	if t.RefreshDuration <= 0 {
		t.RefreshDuration = DefaultRefreshDuration
	}
	return t
}

// StationDemand reports whether anyone is queued for a station.
type StationDemand interface {
	HasStation(name string) bool
}

type SessionRegistry struct {
	stations  *domain.PoolRegistry
	equipment *domain.PoolRegistry
	sessions  *orderedmap.OrderedMap[domain.BannerID, *domain.Session]
	demand    StationDemand
	timing    Timing
	clock     ports.Clock
	logger    *zap.Logger
	emit      func(domain.Event)
}

func NewSessionRegistry(stations, equipment *domain.PoolRegistry, timing Timing, clock ports.Clock, logger *zap.Logger) *SessionRegistry {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SessionRegistry{
		stations:  stations,
		equipment: equipment,
		sessions:  orderedmap.NewOrderedMap[domain.BannerID, *domain.Session](),
		timing:    timing.withDefaults(),
		clock:     clock,
		logger:    logger,
		emit:      func(domain.Event) {},
	}
}

// AttachDemand wires the waitlist in after construction; the waitlist itself
// depends on the registry.
func (r *SessionRegistry) AttachDemand(demand StationDemand) {
	r.demand = demand
}

type reservation struct {
	registry *domain.PoolRegistry
	name     string
}

// StartSession reserves the request's station and equipment and opens a
// session. Reservation is all-or-nothing: if any unit cannot be taken, the
// units already taken are released before the failure is returned.
func (r *SessionRegistry) StartSession(req domain.Request) (*domain.Session, error) {
	if _, ok := r.sessions.Get(req.Banner()); ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBannerActive, req.Banner())
	}

	wanted := make([]reservation, 0, len(req.Equipment())+1)
	wanted = append(wanted, reservation{registry: r.stations, name: req.Station()})
	for _, name := range req.Equipment() {
		wanted = append(wanted, reservation{registry: r.equipment, name: name})
	}

	for _, w := range wanted {
		if err := precheck(w.registry, w.name); err != nil {
			return nil, err
		}
	}

	taken, err := r.reserve(req.Banner(), wanted)
	if err != nil {
		return nil, err
	}

	now := r.clock.Now()
	session := domain.NewSession(req, now, r.timing.SessionDuration)
	r.sessions.Set(req.Banner(), session)

	r.emitPools(taken, now)
	event := domain.NewEvent(domain.EventSessionAdded, now).WithRequest(req)
	event.EndsAt = session.EndsAt
	r.emit(event)

	r.logger.Info("session started",
		zap.String("banner", req.Banner().String()),
		zap.String("station", req.Station()),
		zap.Strings("equipment", req.Equipment()),
		zap.Time("ends_at", session.EndsAt),
	)

	return session, nil
}

// CheckIn closes the session and returns its units. Every release is
// attempted even if an earlier one fails.
func (r *SessionRegistry) CheckIn(session *domain.Session) error {
	if err := r.owned(session); err != nil {
		return err
	}
	if err := session.Close(); err != nil {
		return err
	}

	held := make([]reservation, 0, len(session.Request.Equipment())+1)
	held = append(held, reservation{registry: r.stations, name: session.Station()})
	for _, name := range session.Request.Equipment() {
		held = append(held, reservation{registry: r.equipment, name: name})
	}

	releaseErr := r.release(held)
	if releaseErr != nil {
		r.logAccountingError("release failed", session.Banner(), releaseErr)
	}

	r.sessions.Delete(session.Banner())

	now := r.clock.Now()
	r.emitPools(held, now)
	r.emit(domain.NewEvent(domain.EventSessionRemoved, now).WithRequest(session.Request))

	r.logger.Info("session checked in",
		zap.String("banner", session.Banner().String()),
		zap.String("station", session.Station()),
	)

	if releaseErr != nil {
		return fmt.Errorf("check in session: %w", releaseErr)
	}
	return nil
}

// Refresh pushes the session deadline back, unless someone is queued for the
// same station.
func (r *SessionRegistry) Refresh(session *domain.Session) error {
	if err := r.owned(session); err != nil {
		return err
	}
	if !session.Active() {
		return domain.ErrSessionClosed
	}
	if r.demand != nil && r.demand.HasStation(session.Station()) {
		return fmt.Errorf("%w: %s", domain.ErrRefreshDenied, session.Station())
	}

	if err := session.Extend(r.timing.RefreshDuration); err != nil {
		return err
	}

	event := domain.NewEvent(domain.EventSessionRefreshed, r.clock.Now()).WithRequest(session.Request)
	event.EndsAt = session.EndsAt
	r.emit(event)

	return nil
}

func (r *SessionRegistry) Renewable(session *domain.Session) bool {
	if !session.Active() {
		return false
	}
	return r.demand == nil || !r.demand.HasStation(session.Station())
}

func (r *SessionRegistry) Find(banner domain.BannerID) (*domain.Session, bool) {
	return r.sessions.Get(banner)
}

func (r *SessionRegistry) Sessions() []*domain.Session {
	out := make([]*domain.Session, 0, r.sessions.Len())
	for el := r.sessions.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

func (r *SessionRegistry) Len() int {
	return r.sessions.Len()
}

// EndTimes lists, soonest first, the deadlines of active sessions holding a
// unit of the named resource.
func (r *SessionRegistry) EndTimes(kind domain.ResourceKind, name string) []time.Time {
	var ends []time.Time
	for el := r.sessions.Front(); el != nil; el = el.Next() {
		s := el.Value
		switch kind {
		case domain.KindStation:
			if s.Station() != name {
				continue
			}
		case domain.KindEquipment:
			if !s.Request.UsesEquipment(name) {
				continue
			}
		default:
			continue
		}
		ends = append(ends, s.EndsAt)
	}

	sort.Slice(ends, func(i, j int) bool { return ends[i].Before(ends[j]) })
	return ends
}

func (r *SessionRegistry) owned(session *domain.Session) error {
	if session == nil {
		return domain.ErrSessionNotFound
	}
	current, ok := r.sessions.Get(session.Banner())
	if !ok || current != session {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, session.Banner())
	}
	return nil
}

// reserve takes one unit per entry in order. On failure the units already
// taken are handed back before returning.
func (r *SessionRegistry) reserve(banner domain.BannerID, wanted []reservation) ([]reservation, error) {
	taken := make([]reservation, 0, len(wanted))
	for _, w := range wanted {
		if err := w.registry.SetAvailability(w.name, false); err != nil {
			r.logAccountingError("reserve failed", banner, err)
			if rollbackErr := r.release(taken); rollbackErr != nil {
				return nil, fmt.Errorf("reserve resources and roll back: %w", errors.Join(err, rollbackErr))
			}
			return nil, err
		}
		taken = append(taken, w)
	}
	return taken, nil
}

// release frees units in reverse order and joins every failure.
func (r *SessionRegistry) release(held []reservation) error {
	var errs []error
	for i := len(held) - 1; i >= 0; i-- {
		if err := held[i].registry.SetAvailability(held[i].name, true); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (r *SessionRegistry) emitPools(touched []reservation, at time.Time) {
	seen := make(map[reservation]struct{}, len(touched))
	for _, t := range touched {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}

		pool, err := t.registry.Lookup(t.name)
		if err != nil {
			continue
		}
		event := domain.NewEvent(domain.EventPoolChanged, at)
		event.Pool = &domain.PoolStatus{
			Name:      pool.Name(),
			Kind:      t.registry.Kind(),
			Available: pool.CurrentAvailable(),
			Total:     pool.TotalCount(),
		}
		r.emit(event)
	}
}

func (r *SessionRegistry) logAccountingError(msg string, banner domain.BannerID, err error) {
	if errors.Is(err, domain.ErrNoMatchingUnit) {
		r.logger.Error(msg+": pool bookkeeping out of step with sessions",
			zap.String("banner", banner.String()),
			zap.Error(err),
		)
		return
	}
	r.logger.Warn(msg, zap.String("banner", banner.String()), zap.Error(err))
}

// precheck reports why name cannot be reserved right now.
func precheck(registry *domain.PoolRegistry, name string) error {
	pool, err := registry.Lookup(name)
	if err != nil {
		return domain.NewRequestFailure("reserve", registry.Kind(), name, err)
	}
	if pool.CurrentAvailable() == 0 {
		return domain.NewRequestFailure("reserve", registry.Kind(), name, domain.ErrNoMatchingUnit)
	}
	return nil
}
