package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

func TestNewRequestNormalizes(t *testing.T) {
	t.Parallel()

	req, err := NewRequest(" b1 ", " Ada ", " TV ", []string{"Smash", "", " Smash ", "Controller"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, BannerID("b1"), req.Banner())
	assert.Equal(t, "Ada", req.ClientName())
	assert.Equal(t, "TV", req.Station())
	assert.Equal(t, []string{"Smash", "Controller"}, req.Equipment())
	assert.Equal(t, Footprint{Station: "TV", Equipment: []string{"Smash", "Controller"}}, req.Footprint())
	assert.True(t, req.UsesEquipment("Controller"))
	assert.False(t, req.UsesEquipment("TV"))
	assert.Equal(t, testNow, req.CreatedAt())
}

func TestNewRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		banner  BannerID
		station string
		wantErr string
	}{
		{name: "missing banner", banner: "", station: "TV", wantErr: "banner is required"},
		{name: "missing station", banner: "b1", station: " ", wantErr: "station is required"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewRequest(tc.banner, "", tc.station, nil, testNow)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestRequestEquipmentIsACopy(t *testing.T) {
	t.Parallel()

	req, err := NewRequest("b1", "", "TV", []string{"Smash"}, testNow)
	require.NoError(t, err)

	eq := req.Equipment()
	eq[0] = "Changed"
	assert.Equal(t, []string{"Smash"}, req.Equipment())
}

func TestSessionLifecycle(t *testing.T) {
	t.Parallel()

	req, err := NewRequest("b1", "Ada", "TV", nil, testNow)
	require.NoError(t, err)

	s := NewSession(req, testNow, 30*time.Minute)
	assert.True(t, s.Active())
	assert.Equal(t, testNow.Add(30*time.Minute), s.EndsAt)
	assert.Equal(t, "30m", s.TimerText(testNow))
	assert.Equal(t, "12m", s.TimerText(testNow.Add(17*time.Minute+30*time.Second)))
	assert.False(t, s.Overdue(testNow.Add(29*time.Minute)))

	require.NoError(t, s.Extend(30*time.Minute))
	assert.Equal(t, testNow.Add(time.Hour), s.EndsAt)

	assert.True(t, s.Overdue(testNow.Add(time.Hour)))
	assert.Equal(t, TimerDoneText, s.TimerText(testNow.Add(2*time.Hour)))
	assert.Equal(t, time.Duration(0), s.Remaining(testNow.Add(2*time.Hour)))

	require.NoError(t, s.Close())
	assert.False(t, s.Active())
	assert.ErrorIs(t, s.Close(), ErrSessionClosed)
	assert.ErrorIs(t, s.Extend(time.Minute), ErrSessionClosed)
}

func TestWaitlistEntryWaitText(t *testing.T) {
	t.Parallel()

	req, err := NewRequest("b2", "", "Pool", []string{"Pool Stick"}, testNow)
	require.NoError(t, err)

	e := NewWaitlistEntry(req, testNow)
	e.EstimatedReadyAt = testNow

	tests := []struct {
		name       string
		admissible bool
		at         time.Time
		want       string
	}{
		{name: "estimate reached but still held", at: testNow, want: WaitDueText},
		{name: "admissible", admissible: true, at: testNow, want: WaitReadyText},
		{name: "admissible before estimate", admissible: true, at: testNow.Add(-time.Minute), want: WaitReadyText},
		{name: "waiting", at: testNow.Add(-45 * time.Minute), want: "45m"},
		{name: "estimate passed long ago", at: testNow.Add(time.Hour), want: WaitDueText},
	}

	for _, tc := range tests {
		entry := *e
		entry.Admissible = tc.admissible
		assert.Equal(t, tc.want, entry.WaitText(tc.at), tc.name)
	}

}

func TestWaitlistEntryReferencesResourcesPerKind(t *testing.T) {
	t.Parallel()

	req, err := NewRequest("b2", "", "Darts", []string{"Pool Stick"}, testNow)
	require.NoError(t, err)
	e := NewWaitlistEntry(req, testNow)

	tests := []struct {
		name string
		f    Footprint
		want bool
	}{
		{name: "same station", f: Footprint{Station: "Darts"}, want: true},
		{name: "same equipment", f: Footprint{Station: "TV", Equipment: []string{"Pool Stick"}}, want: true},
		{name: "station name as equipment", f: Footprint{Station: "TV", Equipment: []string{"Darts"}}, want: false},
		{name: "equipment name as station", f: Footprint{Station: "Pool Stick"}, want: false},
		{name: "unrelated", f: Footprint{Station: "TV", Equipment: []string{"Smash"}}, want: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, e.Overlaps(tc.f))
		})
	}

	assert.True(t, e.References(KindStation, "Darts"))
	assert.False(t, e.References(KindEquipment, "Darts"))
	assert.True(t, e.References(KindEquipment, "Pool Stick"))
}

func TestEventWithRequestCopiesPayload(t *testing.T) {
	t.Parallel()

	req, err := NewRequest("b3", "Grace", "Tennis Table", []string{"Paddle"}, testNow)
	require.NoError(t, err)

	ev := NewEvent(EventWaitlistAdded, testNow).WithRequest(req)
	assert.Equal(t, EventWaitlistAdded, ev.Kind)
	assert.Equal(t, BannerID("b3"), ev.Banner)
	assert.Equal(t, "Grace", ev.ClientName)
	assert.Equal(t, "Tennis Table", ev.Station)
	assert.Equal(t, []string{"Paddle"}, ev.Equipment)
	assert.NotEqual(t, NewEvent(EventWaitlistAdded, testNow).ID, ev.ID)
}

func TestInventoryValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		inv     Inventory
		wantErr string
	}{
		{name: "default", inv: DefaultInventory()},
		{
			name:    "duplicate equipment",
			inv:     Inventory{Equipment: []EquipmentSpec{{Name: "Paddle", Total: 1}, {Name: "Paddle", Total: 1}}},
			wantErr: `duplicate equipment "Paddle"`,
		},
		{
			name:    "unknown accepted equipment",
			inv:     Inventory{Stations: []StationSpec{{Name: "TV", Total: 1, Accepts: []string{"Smash"}}}},
			wantErr: `accepts unknown equipment "Smash"`,
		},
		{
			name:    "unknown console",
			inv:     Inventory{Stations: []StationSpec{{Name: "TV", Total: 1, Consoles: []string{"PS4"}}}},
			wantErr: `uses unknown console "PS4"`,
		},
		{
			name:    "console prefix with delimiter",
			inv:     Inventory{Consoles: []string{"PS_4"}},
			wantErr: "invalid console prefix",
		},
		{
			name:    "negative station total",
			inv:     Inventory{Stations: []StationSpec{{Name: "TV", Total: -2}}},
			wantErr: "negative total",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := tc.inv.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidInventory)
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestInventoryAcceptedEquipmentIncludesConsoleTitles(t *testing.T) {
	t.Parallel()

	inv := Inventory{
		Consoles: []string{"PS4", "XB1"},
		Stations: []StationSpec{
			{Name: "TV", Total: 2, Accepts: []string{"Controller"}, Consoles: []string{"PS4"}},
		},
		Equipment: []EquipmentSpec{
			{Name: "Controller", Total: 4},
			{Name: "PS4_Fifa", Total: 1},
			{Name: "XB1_Halo", Total: 1},
		},
	}
	require.NoError(t, inv.Validate())

	accepted := inv.AcceptedEquipment()["TV"]
	assert.Contains(t, accepted, "Controller")
	assert.Contains(t, accepted, "PS4_Fifa")
	assert.NotContains(t, accepted, "XB1_Halo")
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "PS4_Fifa", want: "(PS4) Fifa"},
		{in: "Paddle", want: "Paddle"},
		{in: "_Odd", want: "_Odd"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, DisplayName(tc.in))
		})
	}

	prefix, ok := ConsolePrefix("XB1_Halo")
	assert.True(t, ok)
	assert.Equal(t, "XB1", prefix)
}

func TestNoticeString(t *testing.T) {
	t.Parallel()

	n := Notice{ID: 1, Message: "Ada is up next at the TV", At: time.Date(2026, 2, 14, 15, 4, 0, 0, time.UTC)}
	assert.Equal(t, "03:04 - Ada is up next at the TV", n.String())
}
