package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/vk/greetgo/internal/config"
	"github.com/vk/greetgo/internal/logging"
)

// Options holds the flag-derived settings for a single invocation.
type Options struct {
	// Verbose lowers the logging threshold to debug on every sink.
	Verbose bool
}

// App encapsulates the application's dependencies, configuration, and
// lifecycle. One instance serves one invocation and keeps no state across
// runs.
type App struct {
	outW   io.Writer
	errW   io.Writer
	config *config.Config
	logMgr *logging.Manager
	logger *slog.Logger

	// greetFn is the action Run executes; a seam for exercising failure
	// paths in tests.
	greetFn func(ctx context.Context) error
}

// New is the constructor for the main application. outW receives the
// greeting (stdout in production); errW receives user-facing failure
// notices and console log records (stderr in production). A nil clock
// selects the real one.
func New(outW, errW io.Writer, cfg *config.Config, clock clockwork.Clock) *App {
	a := &App{
		outW:   outW,
		errW:   errW,
		config: cfg,
		logMgr: logging.NewManager(cfg.Logging, clock, errW),
		logger: slog.Default(),
	}
	a.greetFn = a.Greet
	return a
}

// LogManager returns the application's logging manager. This is primarily
// for testing.
func (a *App) LogManager() *logging.Manager {
	return a.logMgr
}
