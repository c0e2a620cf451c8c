package logging

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	logFilePrefix = "app_"
	logFileSuffix = ".log"
	dateLayout    = "20060102"
)

// segmentGlob matches current and rotated log segments in a log directory,
// including legacy suffixed names such as app_20240101.log.1.
const segmentGlob = logFilePrefix + "*" + logFileSuffix + "*"

// DailyFile is an append-only log sink writing to a file named for the
// current calendar date, such as app_20250115.log. The first write after a
// local-midnight boundary switches to a fresh segment and prunes the oldest
// segments beyond the keep count. Age-based deletion is CleanupOldLogs's
// job, not the sink's.
type DailyFile struct {
	dir   string
	keep  int
	clock clockwork.Clock

	mu     sync.Mutex
	date   string
	f      *os.File
	closed bool
}

// NewDailyFile opens today's segment in dir, creating the file when absent
// and appending when present. keep bounds how many dated segments survive a
// rotation.
func NewDailyFile(dir string, keep int, clock clockwork.Clock) (*DailyFile, error) {
	d := &DailyFile{dir: dir, keep: keep, clock: clock}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.open(); err != nil {
		return nil, err
	}
	return d, nil
}

// Filename returns the segment file name for the given time.
func Filename(t time.Time) string {
	return logFilePrefix + t.Format(dateLayout) + logFileSuffix
}

// Path returns the full path of the currently open segment.
func (d *DailyFile) Path() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return filepath.Join(d.dir, logFilePrefix+d.date+logFileSuffix)
}

// Write appends to the current segment, rotating first when the calendar
// date has changed since the segment was opened.
func (d *DailyFile) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return 0, os.ErrClosed
	}
	if today := d.clock.Now().Format(dateLayout); today != d.date {
		if err := d.rotate(); err != nil {
			return 0, err
		}
	}
	return d.f.Write(p)
}

// Close closes the current segment. Writes after Close fail; a new sink
// must be opened instead.
func (d *DailyFile) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if d.f == nil {
		return nil
	}
	err := d.f.Close()
	d.f = nil
	return err
}

// rotate closes the outgoing segment, prunes history beyond the keep count
// and opens the segment for the current date.
func (d *DailyFile) rotate() error {
	if d.f != nil {
		_ = d.f.Close()
		d.f = nil
	}
	d.prune()
	return d.open()
}

// open opens the segment for the current date, creating it when needed.
func (d *DailyFile) open() error {
	date := d.clock.Now().Format(dateLayout)
	name := filepath.Join(d.dir, logFilePrefix+date+logFileSuffix)
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", name, err)
	}
	d.f = f
	d.date = date
	return nil
}

// prune deletes the oldest dated segments beyond the keep count. Failures
// are silently ignored: the sink cannot log about itself, and the age-based
// cleanup pass retries with full reporting.
func (d *DailyFile) prune() {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return
	}
	var segments []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := path.Match(segmentGlob, entry.Name()); ok {
			segments = append(segments, entry.Name())
		}
	}
	if len(segments) <= d.keep {
		return
	}
	// Date-stamped names sort lexically in chronological order.
	sort.Strings(segments)
	for _, name := range segments[:len(segments)-d.keep] {
		_ = os.Remove(filepath.Join(d.dir, name))
	}
}
