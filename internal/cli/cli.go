package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/greetgo/internal/app"
	"github.com/vk/greetgo/internal/config"
	"github.com/vk/greetgo/internal/outcome"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

const usageText = `greetgo - prints a greeting, with a production logging lifecycle around it.

Usage:
  greetgo [options]

Options:
  -v, --verbose
        Enable verbose logging (show debug records on the console).
  -h, --help
        Show this help message and exit.

Examples:
  greetgo                 # Run with default settings
  greetgo --verbose       # Run with verbose logging
  greetgo -v              # Short form of verbose

Configuration is read from the file named by $` + config.EnvConfig + `, or from
` + config.DefaultFileName + ` in the working directory or under ~/.config/greetgo.
When no file is present the built-in defaults apply.
`

// Parse processes command-line arguments. It returns the populated options,
// a boolean indicating the program should exit cleanly (help was shown), or
// an ExitError carrying the usage exit code when the arguments were
// malformed. Help goes to outW; parse errors go to errW.
func Parse(args []string, outW, errW io.Writer) (app.Options, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("greetgo", flag.ContinueOnError)
	// Both streams are written manually so help and errors land on the
	// right one; the flag package's own printing is silenced.
	flagSet.SetOutput(io.Discard)
	flagSet.Usage = func() {}

	var opts app.Options
	flagSet.BoolVar(&opts.Verbose, "v", false, "Enable verbose logging.")
	flagSet.BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(outW, usageText)
			return app.Options{}, true, nil
		}
		return app.Options{}, false, usageError(errW, err.Error())
	}

	if flagSet.NArg() > 0 {
		return app.Options{}, false, usageError(errW,
			fmt.Sprintf("unexpected argument: %q", flagSet.Arg(0)))
	}

	slog.Debug("CLI parser finished successfully.", "verbose", opts.Verbose)
	return opts, false, nil
}

// usageError reports a malformed invocation on the error stream and returns
// the matching ExitError.
func usageError(errW io.Writer, message string) error {
	fmt.Fprintf(errW, "greetgo: %s\n", message)
	fmt.Fprintln(errW, "Run 'greetgo --help' for usage.")
	return &ExitError{Code: outcome.ExitUsage, Message: message}
}
