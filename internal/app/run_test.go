package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/greetgo/internal/config"
	"github.com/vk/greetgo/internal/outcome"
)

var runTestStart = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)

func TestRun_Success(t *testing.T) {
	t.Parallel()

	f := SetupAppTest(t, runTestStart)

	code := f.App.Run(context.Background(), Options{})

	assert.Equal(t, outcome.ExitSuccess, code)
	assert.Equal(t, "Hello, world!\n", f.Out.String(),
		"stdout carries the greeting and nothing else")

	logFile := f.LogFileContent(t)
	assert.Contains(t, logFile, "Application starting")
	assert.Contains(t, logFile, "Greeting displayed")
	assert.Contains(t, logFile, "Application completed successfully")
	assert.NotContains(t, f.Err.String(), "Error:")
}

func TestRun_DiagnosedError(t *testing.T) {
	t.Parallel()

	f := SetupAppTest(t, runTestStart)
	f.App.greetFn = func(context.Context) error {
		return outcome.NewAppError("could not greet", errors.New("pipe closed"))
	}

	code := f.App.Run(context.Background(), Options{})

	assert.Equal(t, outcome.ExitFailure, code)
	assert.Empty(t, f.Out.String())
	assert.Contains(t, f.Err.String(), "Error: could not greet")
	assert.Contains(t, f.LogFileContent(t), "Application error")
}

func TestRun_Interrupted(t *testing.T) {
	t.Parallel()

	f := SetupAppTest(t, runTestStart)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	code := f.App.Run(ctx, Options{})

	assert.Equal(t, outcome.ExitInterrupted, code)
	assert.Empty(t, f.Out.String())
	assert.Contains(t, f.Err.String(), "Application interrupted by user.")
	assert.Contains(t, f.LogFileContent(t), "Application interrupted by user")
}

func TestRun_UnexpectedError(t *testing.T) {
	t.Parallel()

	f := SetupAppTest(t, runTestStart)
	f.App.greetFn = func(context.Context) error {
		return errors.New("subsystem exploded")
	}

	code := f.App.Run(context.Background(), Options{})

	assert.Equal(t, outcome.ExitFailure, code)

	errOut := f.Err.String()
	assert.Contains(t, errOut, "An unexpected error occurred. Error ID: ")
	assert.Contains(t, errOut, "Please check the log files for more details.")

	// The ID shown to the user must appear on the logged record.
	id := extractErrorID(t, errOut)
	logFile := f.LogFileContent(t)
	assert.Contains(t, logFile, "correlation_id="+id)
	assert.Contains(t, logFile, "subsystem exploded")
}

func TestRun_PanicIsContained(t *testing.T) {
	t.Parallel()

	f := SetupAppTest(t, runTestStart)
	f.App.greetFn = func(context.Context) error {
		panic("boom")
	}

	code := f.App.Run(context.Background(), Options{})

	assert.Equal(t, outcome.ExitFailure, code)
	assert.Contains(t, f.Err.String(), "An unexpected error occurred. Error ID: ")
	assert.Contains(t, f.LogFileContent(t), "panic in application action: boom")
}

// TestRun_ShutdownIsAlwaysLastAndLoggedOnce drives every exit path and
// checks the shutdown notice appears exactly once, after everything else.
func TestRun_ShutdownIsAlwaysLastAndLoggedOnce(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		greetFn  func(context.Context) error
		ctx      func() context.Context
		wantCode int
	}{
		{
			name:     "success",
			wantCode: outcome.ExitSuccess,
		},
		{
			name: "diagnosed error",
			greetFn: func(context.Context) error {
				return outcome.NewAppError("could not greet", nil)
			},
			wantCode: outcome.ExitFailure,
		},
		{
			name: "interruption",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			wantCode: outcome.ExitInterrupted,
		},
		{
			name: "unexpected error",
			greetFn: func(context.Context) error {
				return errors.New("boom")
			},
			wantCode: outcome.ExitFailure,
		},
		{
			name: "panic",
			greetFn: func(context.Context) error {
				panic("boom")
			},
			wantCode: outcome.ExitFailure,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := SetupAppTest(t, runTestStart)
			if tc.greetFn != nil {
				f.App.greetFn = tc.greetFn
			}
			ctx := context.Background()
			if tc.ctx != nil {
				ctx = tc.ctx()
			}

			code := f.App.Run(ctx, Options{})

			assert.Equal(t, tc.wantCode, code)
			logFile := f.LogFileContent(t)
			assert.Equal(t, 1, strings.Count(logFile, "Application shutdown"),
				"the shutdown notice must be logged exactly once")
			lines := strings.Split(strings.TrimSpace(logFile), "\n")
			assert.Contains(t, lines[len(lines)-1], "Application shutdown",
				"the shutdown notice must be the final record")
		})
	}
}

func TestRun_VerboseRecordsArguments(t *testing.T) {
	t.Parallel()

	f := SetupAppTest(t, runTestStart)

	f.App.Run(context.Background(), Options{Verbose: true})

	logFile := f.LogFileContent(t)
	assert.Contains(t, logFile, "Command line arguments")
	assert.Contains(t, logFile, "verbose=true")
}

func TestRun_NonVerboseOmitsDebugRecords(t *testing.T) {
	t.Parallel()

	f := SetupAppTest(t, runTestStart)

	f.App.Run(context.Background(), Options{})

	assert.NotContains(t, f.LogFileContent(t), "Command line arguments")
}

func TestRun_LoggingSetupFailureDoesNotStopTheRun(t *testing.T) {
	t.Parallel()

	// A regular file where the log directory should go forces the fallback
	// console logger.
	base := t.TempDir()
	blocker := filepath.Join(base, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	cfg, err := config.New(config.Config{Logging: config.Logging{
		Dir:           filepath.Join(blocker, "logs"),
		RetentionDays: 30,
		Format:        config.FormatText,
	}})
	require.NoError(t, err)

	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	a := New(out, errBuf, cfg, nil)

	code := a.Run(context.Background(), Options{})

	assert.Equal(t, outcome.ExitSuccess, code)
	assert.Equal(t, "Hello, world!\n", out.String())
	assert.Contains(t, errBuf.String(), "Failed to set up advanced logging")
	assert.Contains(t, errBuf.String(), "Application shutdown",
		"the lifecycle records continue on the fallback console logger")
}

// extractErrorID pulls the correlation ID out of the user-facing notice.
func extractErrorID(t *testing.T, errOut string) string {
	t.Helper()
	const marker = "Error ID: "
	idx := strings.Index(errOut, marker)
	require.GreaterOrEqual(t, idx, 0)
	rest := errOut[idx+len(marker):]
	end := strings.IndexByte(rest, '\n')
	require.Greater(t, end, 0)
	return rest[:end]
}
