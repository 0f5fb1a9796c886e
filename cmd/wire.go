package cmd

import (
	"context"
	"fmt"
	"io"

	tomlinventory "github.com/bnema/frontdesk/internal/adapters/inventory/toml"
	"github.com/bnema/frontdesk/internal/adapters/notify/zaplog"
	boardadapter "github.com/bnema/frontdesk/internal/adapters/render/board"
	"github.com/bnema/frontdesk/internal/application"
	"github.com/bnema/frontdesk/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type app struct {
	settings    tomlinventory.Settings
	store       *tomlinventory.Store
	renderBoard func(application.Board, boardadapter.RenderOptions) (string, error)
	clock       ports.Clock
	logger      *zap.Logger
}

// frontDesk is one running desk with its notice board attached.
type frontDesk struct {
	desk    *application.Desk
	notices *application.NoticeBoard
}

func wireApp() (*app, error) {
	settings, err := tomlinventory.LoadSettings(viper.New())
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	store, err := tomlinventory.NewStore(settings.InventoryPath)
	if err != nil {
		return nil, fmt.Errorf("wire inventory store: %w", err)
	}

	return &app{
		settings:    settings,
		store:       store,
		renderBoard: boardadapter.Render,
		clock:       ports.SystemClock{},
		logger:      zap.NewNop(),
	}, nil
}

func (a *app) configureLogging(out io.Writer, verbose bool) error {
	logger, err := newLogger(a.settings.LogLevel, verbose, out)
	if err != nil {
		return err
	}
	a.logger = logger
	return nil
}

// newLogger writes JSON lines at the configured level, or human readable
// debug output when verbose is set.
func newLogger(level string, verbose bool, out io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	if verbose {
		lvl = zapcore.DebugLevel
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(out), zap.NewAtomicLevelAt(lvl))
	return zap.New(core), nil
}

func (a *app) timing() application.Timing {
	return application.Timing{
		SessionDuration: a.settings.SessionDuration,
		RefreshDuration: a.settings.RefreshDuration,
	}
}

func (a *app) openDesk(ctx context.Context) (*frontDesk, error) {
	desk, err := application.OpenDesk(ctx, a.store, a.timing(), a.clock, a.logger.Named("desk"))
	if err != nil {
		return nil, err
	}

	notices := application.NewNoticeBoard(a.clock)
	desk.Subscribe(zaplog.New(a.logger.Named("events")))
	desk.Subscribe(notices)

	return &frontDesk{desk: desk, notices: notices}, nil
}

func (f *frontDesk) board() application.Board {
	b := f.desk.Board()
	b.Notices = f.notices.Notices()
	return b
}
