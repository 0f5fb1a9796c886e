package zaplog

import (
	"context"
	"testing"
	"time"

	"github.com/bnema/frontdesk/internal/application"
	"github.com/bnema/frontdesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var at = time.Date(2026, 2, 14, 14, 0, 0, 0, time.UTC)

func TestSubscriberLogsRequestEvents(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	sub := New(zap.New(core))

	req, err := domain.NewRequest("b1", "Ada", "TV", []string{"Smash"}, at)
	require.NoError(t, err)
	event := domain.NewEvent(domain.EventSessionAdded, at).WithRequest(req)
	event.EndsAt = at.Add(30 * time.Minute)

	sub.HandleEvent(event)

	entries := logs.FilterMessage("session.added").All()
	require.Len(t, entries, 1)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "b1", ctx["banner"])
	assert.Equal(t, "Ada", ctx["client"])
	assert.Equal(t, "TV", ctx["station"])
	assert.Equal(t, []interface{}{"Smash"}, ctx["equipment"])
	assert.Equal(t, event.ID.String(), ctx["event_id"])
	assert.Contains(t, ctx, "ends_at")
	assert.NotContains(t, ctx, "pool")
}

func TestSubscriberLogsPoolChangesAtDebug(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.InfoLevel)
	sub := New(zap.New(core))

	event := domain.NewEvent(domain.EventPoolChanged, at)
	event.Pool = &domain.PoolStatus{Name: "TV", Kind: domain.KindStation, Available: 1, Total: 4}
	sub.HandleEvent(event)
	assert.Zero(t, logs.Len())

	debugCore, debugLogs := observer.New(zapcore.DebugLevel)
	New(zap.New(debugCore)).HandleEvent(event)

	require.Equal(t, 1, debugLogs.Len())
	ctx := debugLogs.All()[0].ContextMap()
	assert.Equal(t, "TV", ctx["pool"])
	assert.Equal(t, int64(1), ctx["available"])
	assert.Equal(t, int64(4), ctx["total"])
}

func TestSubscriberFollowsDeskActivity(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.DebugLevel)
	desk, err := application.NewDesk(domain.DefaultInventory(), application.DefaultTiming(), fixedClock{now: at}, zap.NewNop())
	require.NoError(t, err)
	desk.Subscribe(New(zap.New(core)))

	_, err = desk.Checkout(context.Background(), application.CheckoutCommand{Banner: "1", Station: "Tennis Table", Equipment: []string{"Paddle"}})
	require.NoError(t, err)
	_, err = desk.Checkout(context.Background(), application.CheckoutCommand{Banner: "2", Station: "Tennis Table"})
	require.NoError(t, err)
	require.NoError(t, desk.CheckIn(context.Background(), "1"))

	var messages []string
	for _, e := range logs.All() {
		messages = append(messages, e.Message)
	}
	assert.Equal(t, []string{
		"pool.changed", "pool.changed", "session.added",
		"waitlist.added", "waitlist.updated",
		"pool.changed", "pool.changed", "session.removed", "waitlist.updated", "waitlist.ready",
	}, messages)
	assert.Nil(t, New(nil).logger.Check(zapcore.InfoLevel, "noop"))
}
