package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/vk/greetgo/internal/config"
	"github.com/vk/greetgo/internal/correlation"
	"github.com/vk/greetgo/internal/ctxlog"
)

// appName is stamped on every file record so segments from different
// programs sharing a log directory can be told apart.
const appName = "greetgo"

// Manager owns the log directory, the active sinks and the retention
// policy. One Manager serves one process invocation; Setup may be called
// again, replacing the previous sinks.
type Manager struct {
	dir           string
	retentionDays int
	format        string
	clock         clockwork.Clock
	consoleW      io.Writer

	file   *DailyFile   // active file sink, nil until a successful Setup
	logger *slog.Logger // handle from the most recent Setup
}

// NewManager creates a manager for the given logging settings. consoleW
// receives console records; pass os.Stderr in production. A nil clock
// selects the real one, and a negative retention is treated as zero.
func NewManager(cfg config.Logging, clock clockwork.Clock, consoleW io.Writer) *Manager {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if consoleW == nil {
		consoleW = os.Stderr
	}
	if cfg.RetentionDays < 0 {
		cfg.RetentionDays = 0
	}
	return &Manager{
		dir:           cfg.Dir,
		retentionDays: cfg.RetentionDays,
		format:        cfg.Format,
		clock:         clock,
		consoleW:      consoleW,
	}
}

// Logger returns the handle produced by the most recent Setup, or nil when
// Setup has not run yet.
func (m *Manager) Logger() *slog.Logger { return m.logger }

// Setup configures the dual-sink logger: a daily-rotating file that records
// everything down to debug, and a console sink whose threshold follows the
// verbose flag. It then sweeps segments older than the retention window and
// announces readiness on the new logger.
//
// Setup never fails. When the full configuration cannot be built it
// degrades to a console-only logger and reports the problem there, so the
// caller always receives a working handle.
func (m *Manager) Setup(verbose bool) *slog.Logger {
	logger, err := m.setup(verbose)
	if err != nil {
		logger = m.fallback(err)
	}
	m.logger = logger
	return logger
}

func (m *Manager) setup(verbose bool) (*slog.Logger, error) {
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory %s: %w", m.dir, err)
	}

	// Records sent through a handle from a previous Setup must not leak
	// into the new segment.
	m.discard()

	file, err := NewDailyFile(m.dir, m.retentionDays, m.clock)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	m.file = file

	consoleHandler := slog.NewTextHandler(m.consoleW, &slog.HandlerOptions{
		Level: threshold(verbose),
	})
	root := newMultiHandler(threshold(verbose), m.newFileHandler(file), consoleHandler)
	logger := slog.New(correlation.NewHandler(root))

	m.CleanupOldLogs(ctxlog.WithLogger(context.Background(), logger))

	logger.Info("Logging system initialized successfully",
		slog.String("dir", m.dir),
		slog.Int("retention_days", m.retentionDays),
	)
	return logger, nil
}

// newFileHandler builds the file sink handler. The file keeps everything
// down to debug regardless of verbosity; the root threshold decides what
// reaches the sinks at all. Records carry their source location and the
// application name.
func (m *Manager) newFileHandler(w io.Writer) slog.Handler {
	handlerOpts := &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}
	var handler slog.Handler
	if m.format == config.FormatJSON {
		handler = slog.NewJSONHandler(w, handlerOpts)
	} else {
		handler = slog.NewTextHandler(w, handlerOpts)
	}
	return handler.WithAttrs([]slog.Attr{slog.String("logger", appName)})
}

// fallback builds the console-only logger used when the full setup failed,
// and reports the failure on it. Building it cannot fail.
func (m *Manager) fallback(setupErr error) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(m.consoleW, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	logger.Error("Failed to set up advanced logging, falling back to console only",
		"error", setupErr)
	return logger
}

// threshold maps the verbose flag to the minimum severity that reaches the
// sinks.
func threshold(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// discard closes the previous file sink, if any.
func (m *Manager) discard() {
	if m.file != nil {
		_ = m.file.Close()
		m.file = nil
	}
}

// Close releases the active file sink. The manager can be Setup again
// afterwards.
func (m *Manager) Close() error {
	if m.file == nil {
		return nil
	}
	err := m.file.Close()
	m.file = nil
	if err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	return nil
}
