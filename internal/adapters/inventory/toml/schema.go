package toml

import (
	"fmt"

	"github.com/bnema/frontdesk/internal/domain"
)

const currentSchemaVersion = 1

type fileSchema struct {
	Version   int               `toml:"version"`
	Consoles  []string          `toml:"consoles,omitempty"`
	Stations  []stationSchema   `toml:"stations"`
	Equipment []equipmentSchema `toml:"equipment"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
	for i := range s.Stations {
		if s.Stations[i].Total == nil {
			one := 1
			s.Stations[i].Total = &one
		}
	}
	for i := range s.Equipment {
		if s.Equipment[i].Total == nil {
			one := 1
			s.Equipment[i].Total = &one
		}
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported inventory schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

// Total is a pointer so an omitted count defaults to one unit while an
// explicit zero keeps the pool empty.
type stationSchema struct {
	Name     string   `toml:"name"`
	Total    *int     `toml:"total,omitempty"`
	Accepts  []string `toml:"accepts,omitempty"`
	Consoles []string `toml:"consoles,omitempty"`
}

type equipmentSchema struct {
	Name  string `toml:"name"`
	Total *int   `toml:"total,omitempty"`
}

func toSchema(inv domain.Inventory) fileSchema {
	file := fileSchema{Version: currentSchemaVersion, Consoles: inv.Consoles}
	for _, s := range inv.Stations {
		total := s.Total
		file.Stations = append(file.Stations, stationSchema{
			Name:     s.Name,
			Total:    &total,
			Accepts:  s.Accepts,
			Consoles: s.Consoles,
		})
	}
	for _, e := range inv.Equipment {
		total := e.Total
		file.Equipment = append(file.Equipment, equipmentSchema{Name: e.Name, Total: &total})
	}
	return file
}

func fromSchema(file fileSchema) domain.Inventory {
	inv := domain.Inventory{Consoles: file.Consoles}
	for _, s := range file.Stations {
		inv.Stations = append(inv.Stations, domain.StationSpec{
			Name:     s.Name,
			Total:    *s.Total,
			Accepts:  s.Accepts,
			Consoles: s.Consoles,
		})
	}
	for _, e := range file.Equipment {
		inv.Equipment = append(inv.Equipment, domain.EquipmentSpec{Name: e.Name, Total: *e.Total})
	}
	return inv
}
