package domain

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

type PoolSpec struct {
	Name  string
	Total int
}

// PoolRegistry resolves pools of a single kind by name. Occupancy must only
// be changed through SetAvailability so that session bookkeeping and pool
// counts stay in step.
type PoolRegistry struct {
	kind  ResourceKind
	pools *orderedmap.OrderedMap[string, *ResourcePool]
}

func NewPoolRegistry(kind ResourceKind, specs []PoolSpec) (*PoolRegistry, error) {
	r := &PoolRegistry{
		kind:  kind,
		pools: orderedmap.NewOrderedMap[string, *ResourcePool](),
	}

	for _, ps := range specs {
		pool, err := NewResourcePool(ps.Name, ps.Total)
		if err != nil {
			return nil, err
		}
		if _, exists := r.pools.Get(pool.Name()); exists {
			return nil, fmt.Errorf("%w: duplicate %s %q", ErrInvalidInventory, kind, pool.Name())
		}
		r.pools.Set(pool.Name(), pool)
	}

	return r, nil
}

func (r *PoolRegistry) Kind() ResourceKind {
	return r.kind
}

func (r *PoolRegistry) Lookup(name string) (*ResourcePool, error) {
	pool, ok := r.pools.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s %q", ErrUnknownResource, r.kind, name)
	}
	return pool, nil
}

func (r *PoolRegistry) Has(name string) bool {
	_, ok := r.pools.Get(name)
	return ok
}

// IsAvailable reports whether at least one unit of name is free. Unknown
// names are never available.
func (r *PoolRegistry) IsAvailable(name string) bool {
	pool, ok := r.pools.Get(name)
	if !ok {
		return false
	}
	return pool.CurrentAvailable() > 0
}

func (r *PoolRegistry) IsAvailableAll(names []string) bool {
	for _, name := range names {
		if !r.IsAvailable(name) {
			return false
		}
	}
	return true
}

func (r *PoolRegistry) SetAvailability(name string, available bool) error {
	pool, err := r.Lookup(name)
	if err != nil {
		return NewRequestFailure(setAvailabilityOp(available), r.kind, name, err)
	}

	if err := pool.SetOccupancy(!available); err != nil {
		return NewRequestFailure(setAvailabilityOp(available), r.kind, name, err)
	}

	return nil
}

// SetAvailabilityAll applies SetAvailability in order and stops at the first
// failure. Names applied before the failure stay applied.
func (r *PoolRegistry) SetAvailabilityAll(names []string, available bool) error {
	for _, name := range names {
		if err := r.SetAvailability(name, available); err != nil {
			return err
		}
	}
	return nil
}

func (r *PoolRegistry) Available(name string) int {
	pool, ok := r.pools.Get(name)
	if !ok {
		return 0
	}
	return pool.CurrentAvailable()
}

func (r *PoolRegistry) Names() []string {
	names := make([]string, 0, r.pools.Len())
	for el := r.pools.Front(); el != nil; el = el.Next() {
		names = append(names, el.Key)
	}
	return names
}

func (r *PoolRegistry) Snapshot() []PoolStatus {
	statuses := make([]PoolStatus, 0, r.pools.Len())
	for el := r.pools.Front(); el != nil; el = el.Next() {
		statuses = append(statuses, PoolStatus{
			Name:      el.Key,
			Kind:      r.kind,
			Available: el.Value.CurrentAvailable(),
			Total:     el.Value.TotalCount(),
		})
	}
	return statuses
}

func setAvailabilityOp(available bool) string {
	if available {
		return "release"
	}
	return "reserve"
}
