package logging

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/vk/greetgo/internal/ctxlog"
)

// CleanupOldLogs removes log segments whose modification time predates the
// retention window. It is deliberately infallible: an enumeration failure
// is logged and abandons the pass, a per-file failure is logged and
// skipped. A missing log file must never take the application down.
func (m *Manager) CleanupOldLogs(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	entries, err := os.ReadDir(m.dir)
	if err != nil {
		logger.Error("Failed to clean up old logs", "dir", m.dir, "error", err)
		return
	}

	cutoff := m.clock.Now().AddDate(0, 0, -m.retentionDays)
	for _, entry := range entries {
		if ok, _ := path.Match(segmentGlob, entry.Name()); !ok {
			continue
		}
		segment := filepath.Join(m.dir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			logger.Warn("Failed to process log file", "path", segment, "error", err)
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(segment); err != nil {
			logger.Warn("Failed to remove old log file", "path", segment, "error", err)
			continue
		}
		logger.Debug("Removed old log file", "path", segment)
	}
}
