package app

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/vk/greetgo/internal/config"
	"github.com/vk/greetgo/internal/logging"
)

// TestFixture bundles an App under test with the buffers standing in for
// its process streams and the fake clock driving its logging.
type TestFixture struct {
	App    *App
	Out    *bytes.Buffer
	Err    *bytes.Buffer
	Clock  *clockwork.FakeClock
	LogDir string
}

// SetupAppTest creates a new app instance for system testing, writing log
// segments under a per-test temp directory.
func SetupAppTest(t *testing.T, start time.Time) *TestFixture {
	t.Helper()

	logDir := filepath.Join(t.TempDir(), "logs")
	cfg, err := config.New(config.Config{Logging: config.Logging{
		Dir:           logDir,
		RetentionDays: 30,
		Format:        config.FormatText,
	}})
	if err != nil {
		t.Fatalf("test config invalid: %v", err)
	}

	fixture := &TestFixture{
		Out:    &bytes.Buffer{},
		Err:    &bytes.Buffer{},
		Clock:  clockwork.NewFakeClockAt(start),
		LogDir: logDir,
	}
	fixture.App = New(fixture.Out, fixture.Err, cfg, fixture.Clock)

	t.Cleanup(func() {
		if os.Getenv("GREETGO_TEST_LOGS") == "true" {
			t.Logf("--- Console output for %s ---\n%s", t.Name(), fixture.Err.String())
		}
	})

	return fixture
}

// LogFileContent returns the content of the fixture's current log segment,
// or an empty string when no segment was written.
func (f *TestFixture) LogFileContent(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(f.LogDir, logging.Filename(f.Clock.Now())))
	if err != nil {
		if os.IsNotExist(err) {
			return ""
		}
		t.Fatalf("reading log segment: %v", err)
	}
	return string(data)
}
