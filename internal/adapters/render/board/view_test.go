package board

import (
	"testing"
	"time"

	"github.com/bnema/frontdesk/internal/application"
	"github.com/bnema/frontdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 2, 14, 14, 5, 0, 0, time.UTC)

func TestRenderBoardWithActivity(t *testing.T) {
	output, err := Render(application.Board{
		Now: now,
		Stations: []domain.PoolStatus{
			{Name: "Pool", Kind: domain.KindStation, Available: 0, Total: 2},
			{Name: "TV", Kind: domain.KindStation, Available: 3, Total: 4},
		},
		Equipment: []domain.PoolStatus{
			{Name: "PS4_Fifa", Kind: domain.KindEquipment, Available: 1, Total: 1},
		},
		Sessions: []application.SessionStatus{
			{Banner: "1", ClientName: "Ada", Station: "Pool", EndsAt: now.Add(12 * time.Minute), TimerText: "12m", Renewable: false},
			{Banner: "2", Station: "TV", Equipment: []string{"PS4_Fifa"}, EndsAt: now.Add(-time.Minute), TimerText: domain.TimerDoneText, Overdue: true, Renewable: true},
		},
		Waitlist: []application.EntryStatus{
			{Position: 1, Banner: "3", ClientName: "Grace", Station: "Pool", EstimatedReadyAt: now.Add(12 * time.Minute), WaitText: "12m"},
		},
		Notices: []domain.Notice{{ID: 4, Message: "Grace is up next at the Pool", At: now}},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "Front Desk")
	assert.Contains(t, output, "14:05  sessions: 2  waiting: 1")
	assert.Contains(t, output, "0/2 free")
	assert.Contains(t, output, "3/4 free")
	assert.Contains(t, output, "(PS4) Fifa")
	assert.Contains(t, output, "Ada #1")
	assert.Contains(t, output, "[no refresh]")
	assert.Contains(t, output, "#2")
	assert.Contains(t, output, "TV + (PS4) Fifa")
	assert.Contains(t, output, "done")
	assert.Contains(t, output, "1.")
	assert.Contains(t, output, "12m (~14:17)")
	assert.Contains(t, output, "[4] 02:05 - Grace is up next at the Pool")
}

func TestRenderBoardEmptySections(t *testing.T) {
	output, err := Render(application.Board{Now: now}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "none configured")
	assert.Contains(t, output, "No active sessions.")
	assert.Contains(t, output, "Nobody is waiting.")
	assert.NotContains(t, output, "Notices")

	compact, err := Render(application.Board{Now: now}, RenderOptions{HideEmpty: true})
	require.NoError(t, err)
	assert.NotContains(t, compact, "No active sessions.")
	assert.NotContains(t, compact, "Nobody is waiting.")
}

func TestRenderWaitlistShowsReadyEntries(t *testing.T) {
	output, err := Render(application.Board{
		Now: now,
		Waitlist: []application.EntryStatus{
			{Position: 1, Banner: "9", Station: "Tennis Table", Admissible: true, WaitText: domain.WaitReadyText},
		},
	}, RenderOptions{})

	require.NoError(t, err)
	assert.Contains(t, output, "#9")
	assert.Contains(t, output, "ready to check out")
}

func TestRenderAvailabilityBar(t *testing.T) {
	s := newStyles()

	tests := []struct {
		name      string
		available int
		total     int
		want      string
	}{
		{name: "all free", available: 4, total: 4, want: "[====]"},
		{name: "half free", available: 1, total: 2, want: "[==--]"},
		{name: "none free", available: 0, total: 3, want: "[----]"},
		{name: "empty pool", available: 0, total: 0, want: "[----]"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, renderAvailabilityBar(tc.available, tc.total, 4, s))
		})
	}
}

func TestAvailabilityColor(t *testing.T) {
	assert.Equal(t, "240", string(availabilityColor(0, 4)))
	assert.Equal(t, "255", string(availabilityColor(4, 4)))
	assert.Equal(t, "240", string(availabilityColor(1, 0)))
}
