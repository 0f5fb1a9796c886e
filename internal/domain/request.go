package domain

import (
	"fmt"
	"strings"
	"time"
)

type BannerID string

func (b BannerID) String() string {
	return string(b)
}

// Footprint names resources per kind. Station and equipment names live in
// separate namespaces, so one name under each kind is two resources.
type Footprint struct {
	Station   string
	Equipment []string
}

// Request is the client's intent to reserve a station and a set of
// equipment. It is immutable once built; Equipment returns a copy.
type Request struct {
	banner     BannerID
	clientName string
	station    string
	equipment  []string
	createdAt  time.Time
}

func NewRequest(banner BannerID, clientName, station string, equipment []string, createdAt time.Time) (Request, error) {
	banner = BannerID(strings.TrimSpace(string(banner)))
	if banner == "" {
		return Request{}, fmt.Errorf("%w: banner is required", ErrInvalidRequest)
	}
	station = strings.TrimSpace(station)
	if station == "" {
		return Request{}, fmt.Errorf("%w: station is required", ErrInvalidRequest)
	}

	return Request{
		banner:     banner,
		clientName: strings.TrimSpace(clientName),
		station:    station,
		equipment:  normalizeNames(equipment),
		createdAt:  createdAt,
	}, nil
}

func (r Request) Banner() BannerID {
	return r.banner
}

func (r Request) ClientName() string {
	return r.clientName
}

func (r Request) Station() string {
	return r.station
}

func (r Request) Equipment() []string {
	out := make([]string, len(r.equipment))
	copy(out, r.equipment)
	return out
}

func (r Request) CreatedAt() time.Time {
	return r.createdAt
}

// Footprint is what the request holds once admitted: its station and a
// copy of its equipment.
func (r Request) Footprint() Footprint {
	return Footprint{Station: r.station, Equipment: r.Equipment()}
}

func (r Request) UsesEquipment(name string) bool {
	for _, e := range r.equipment {
		if e == name {
			return true
		}
	}
	return false
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}
