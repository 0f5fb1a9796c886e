package domain

import (
	"fmt"
	"strings"
)

type ResourceKind string

const (
	KindStation   ResourceKind = "station"
	KindEquipment ResourceKind = "equipment"
)

// ResourcePool is a fixed set of interchangeable units sharing one name.
// Callers only see the aggregate count; which unit is flipped stays inside
// the pool.
type ResourcePool struct {
	name  string
	units []bool
}

func NewResourcePool(name string, total int) (*ResourcePool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: pool name is required", ErrInvalidInventory)
	}
	if total < 0 {
		return nil, fmt.Errorf("%w: pool %q has negative total %d", ErrInvalidInventory, name, total)
	}

	return &ResourcePool{name: name, units: make([]bool, total)}, nil
}

func (p *ResourcePool) Name() string {
	return p.name
}

func (p *ResourcePool) TotalCount() int {
	return len(p.units)
}

func (p *ResourcePool) CurrentAvailable() int {
	free := 0
	for _, occupied := range p.units {
		if !occupied {
			free++
		}
	}
	return free
}

// SetOccupancy flips the first unit whose state differs from occupied.
func (p *ResourcePool) SetOccupancy(occupied bool) error {
	for i := range p.units {
		if p.units[i] != occupied {
			p.units[i] = occupied
			return nil
		}
	}

	return ErrNoMatchingUnit
}

type PoolStatus struct {
	Name      string
	Kind      ResourceKind
	Available int
	Total     int
}

func (s PoolStatus) Occupied() int {
	return s.Total - s.Available
}
