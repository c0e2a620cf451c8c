package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/vk/greetgo/internal/app"
	"github.com/vk/greetgo/internal/cli"
	"github.com/vk/greetgo/internal/config"
	"github.com/vk/greetgo/internal/outcome"
)

// main is the entrypoint for the greetgo application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

// run encapsulates the process logic for easier testing and owns the exit
// code contract; nothing below it terminates the process.
func run(outW, errW io.Writer, args []string) (code int) {
	// Failures this early happen before the logging system exists, so they
	// are reported plainly on the error stream.
	defer func() {
		if r := recover(); r != nil {
			reportStartupFailure(errW, r)
			code = outcome.ExitFailure
		}
	}()

	opts, shouldExit, err := cli.Parse(args, outW, errW)
	if err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}
		fmt.Fprintln(errW, err)
		return outcome.ExitFailure
	}
	if shouldExit {
		return outcome.ExitSuccess
	}

	// An interrupt surfaces as context cancellation and is classified as a
	// user interruption further down.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		reportStartupFailure(errW, err)
		return outcome.ExitFailure
	}

	return app.New(outW, errW, cfg, nil).Run(ctx, opts)
}

// reportStartupFailure tells the user the process died before logging was
// available, so no log file will explain this one.
func reportStartupFailure(errW io.Writer, cause any) {
	fmt.Fprintf(errW, "Critical error during application startup: %v\n", cause)
	fmt.Fprintln(errW, "Unable to initialize logging system.")
}
