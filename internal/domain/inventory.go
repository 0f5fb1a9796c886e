package domain

import (
	"fmt"
	"strings"
)

// PrefixDelim separates a console prefix from the equipment title, as in
// "PS4_Fifa".
const PrefixDelim = "_"

type StationSpec struct {
	Name     string
	Total    int
	Accepts  []string
	Consoles []string
}

type EquipmentSpec struct {
	Name  string
	Total int
}

// Inventory is the one-time seed for both registries.
type Inventory struct {
	Stations  []StationSpec
	Equipment []EquipmentSpec
	Consoles  []string
}

func (inv Inventory) Validate() error {
	equipment := make(map[string]struct{}, len(inv.Equipment))
	for _, e := range inv.Equipment {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return fmt.Errorf("%w: equipment name is required", ErrInvalidInventory)
		}
		if e.Total < 0 {
			return fmt.Errorf("%w: equipment %q has negative total", ErrInvalidInventory, name)
		}
		if _, ok := equipment[name]; ok {
			return fmt.Errorf("%w: duplicate equipment %q", ErrInvalidInventory, name)
		}
		equipment[name] = struct{}{}
	}

	consoles := make(map[string]struct{}, len(inv.Consoles))
	for _, prefix := range inv.Consoles {
		prefix = strings.TrimSpace(prefix)
		if prefix == "" || strings.Contains(prefix, PrefixDelim) {
			return fmt.Errorf("%w: invalid console prefix %q", ErrInvalidInventory, prefix)
		}
		consoles[prefix] = struct{}{}
	}

	stations := make(map[string]struct{}, len(inv.Stations))
	for _, s := range inv.Stations {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("%w: station name is required", ErrInvalidInventory)
		}
		if s.Total < 0 {
			return fmt.Errorf("%w: station %q has negative total", ErrInvalidInventory, name)
		}
		if _, ok := stations[name]; ok {
			return fmt.Errorf("%w: duplicate station %q", ErrInvalidInventory, name)
		}
		stations[name] = struct{}{}

		for _, accepted := range s.Accepts {
			if _, ok := equipment[strings.TrimSpace(accepted)]; !ok {
				return fmt.Errorf("%w: station %q accepts unknown equipment %q", ErrInvalidInventory, name, accepted)
			}
		}
		for _, prefix := range s.Consoles {
			if _, ok := consoles[strings.TrimSpace(prefix)]; !ok {
				return fmt.Errorf("%w: station %q uses unknown console %q", ErrInvalidInventory, name, prefix)
			}
		}
	}

	return nil
}

func (inv Inventory) StationPools() []PoolSpec {
	specs := make([]PoolSpec, 0, len(inv.Stations))
	for _, s := range inv.Stations {
		specs = append(specs, PoolSpec{Name: strings.TrimSpace(s.Name), Total: s.Total})
	}
	return specs
}

func (inv Inventory) EquipmentPools() []PoolSpec {
	specs := make([]PoolSpec, 0, len(inv.Equipment))
	for _, e := range inv.Equipment {
		specs = append(specs, PoolSpec{Name: strings.TrimSpace(e.Name), Total: e.Total})
	}
	return specs
}

// AcceptedEquipment maps each station to the equipment it can be checked
// out with: its explicit accepts plus every equipment carrying one of its
// console prefixes.
func (inv Inventory) AcceptedEquipment() map[string]map[string]struct{} {
	byConsole := make(map[string][]string)
	for _, e := range inv.Equipment {
		name := strings.TrimSpace(e.Name)
		if prefix, ok := ConsolePrefix(name); ok {
			byConsole[prefix] = append(byConsole[prefix], name)
		}
	}

	accepted := make(map[string]map[string]struct{}, len(inv.Stations))
	for _, s := range inv.Stations {
		set := make(map[string]struct{})
		for _, name := range s.Accepts {
			set[strings.TrimSpace(name)] = struct{}{}
		}
		for _, prefix := range s.Consoles {
			for _, name := range byConsole[strings.TrimSpace(prefix)] {
				set[name] = struct{}{}
			}
		}
		accepted[strings.TrimSpace(s.Name)] = set
	}

	return accepted
}

func ConsolePrefix(name string) (string, bool) {
	prefix, _, found := strings.Cut(name, PrefixDelim)
	if !found || prefix == "" {
		return "", false
	}
	return prefix, true
}

// DisplayName renders "PS4_Fifa" as "(PS4) Fifa"; other names are returned
// unchanged.
func DisplayName(name string) string {
	prefix, title, found := strings.Cut(name, PrefixDelim)
	if !found || prefix == "" {
		return name
	}
	return fmt.Sprintf("(%s) %s", prefix, title)
}

// DefaultInventory is the seed written by "inventory init".
func DefaultInventory() Inventory {
	return Inventory{
		Stations: []StationSpec{
			{Name: "Tennis Table", Total: 1, Accepts: []string{"Paddle"}},
			{Name: "TV", Total: 4, Accepts: []string{"Smash"}},
			{Name: "Pool", Total: 2, Accepts: []string{"Pool Stick"}},
		},
		Equipment: []EquipmentSpec{
			{Name: "Paddle", Total: 2},
			{Name: "Smash", Total: 4},
			{Name: "Pool Stick", Total: 4},
		},
	}
}
