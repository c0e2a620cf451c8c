package app

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/vk/greetgo/internal/correlation"
	"github.com/vk/greetgo/internal/ctxlog"
	"github.com/vk/greetgo/internal/outcome"
	"github.com/vk/greetgo/internal/version"
)

// Run executes the application's action and maps whatever happened to a
// process exit code. Every failure is classified here; nothing below Run
// terminates the process or escapes it.
func (a *App) Run(ctx context.Context, opts Options) int {
	logger := a.logMgr.Setup(opts.Verbose)
	a.logger = logger
	ctx = ctxlog.WithLogger(ctx, logger)

	defer func() { _ = a.logMgr.Close() }()
	// The shutdown notice is the last record on every exit path, including
	// panic unwinds.
	defer logger.Info("Application shutdown")

	logger.Info("Application starting", "version", version.Version)
	logger.Debug("Command line arguments", "verbose", opts.Verbose)

	result := outcome.Classify(a.runAction(ctx))

	switch result.Kind {
	case outcome.Success:
		logger.Info("Application completed successfully")
	case outcome.Diagnosed:
		logger.Error("Application error", "error", result.Err)
	case outcome.Interrupted:
		logger.Info("Application interrupted by user")
	case outcome.Unexpected:
		reportCtx := correlation.WithID(ctx, result.CorrelationID)
		logger.ErrorContext(reportCtx, "Unexpected error", "error", result.Err)
		logger.DebugContext(reportCtx, "Unexpected error stack", "stack", string(debug.Stack()))
	}

	if msg := result.UserMessage(); msg != "" {
		fmt.Fprintln(a.errW, msg)
	}
	return result.ExitCode()
}

// runAction invokes the configured action, converting a panic into an
// error so it classifies as unexpected instead of crashing the process.
// The stack is captured here, while the panicking frames are still live.
func (a *App) runAction(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in application action: %v\n%s", r, debug.Stack())
		}
	}()
	return a.greetFn(ctx)
}
