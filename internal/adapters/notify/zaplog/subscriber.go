package zaplog

import (
	"github.com/bnema/frontdesk/internal/application"
	"github.com/bnema/frontdesk/internal/domain"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Subscriber writes every desk event to a zap logger. Pool changes are
// chatty and go out at debug level.
type Subscriber struct {
	logger *zap.Logger
}

var _ application.Subscriber = (*Subscriber)(nil)

func New(logger *zap.Logger) *Subscriber {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Subscriber{logger: logger}
}

func (s *Subscriber) HandleEvent(event domain.Event) {
	level := zapcore.InfoLevel
	if event.Kind == domain.EventPoolChanged || event.Kind == domain.EventWaitlistUpdated {
		level = zapcore.DebugLevel
	}

	ce := s.logger.Check(level, string(event.Kind))
	if ce == nil {
		return
	}
	ce.Write(fields(event)...)
}

func fields(event domain.Event) []zap.Field {
	fs := []zap.Field{
		zap.String("event_id", event.ID.String()),
		zap.Time("at", event.At),
	}

	if event.Banner != "" {
		fs = append(fs, zap.String("banner", event.Banner.String()))
	}
	if event.ClientName != "" {
		fs = append(fs, zap.String("client", event.ClientName))
	}
	if event.Station != "" {
		fs = append(fs, zap.String("station", event.Station))
	}
	if len(event.Equipment) > 0 {
		fs = append(fs, zap.Strings("equipment", event.Equipment))
	}
	if !event.EndsAt.IsZero() {
		fs = append(fs, zap.Time("ends_at", event.EndsAt))
	}
	if !event.ReadyAt.IsZero() {
		fs = append(fs, zap.Time("ready_at", event.ReadyAt))
	}
	if event.Pool != nil {
		fs = append(fs,
			zap.String("pool", event.Pool.Name),
			zap.String("kind", string(event.Pool.Kind)),
			zap.Int("available", event.Pool.Available),
			zap.Int("total", event.Pool.Total),
		)
	}

	return fs
}
