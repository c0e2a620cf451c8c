package app

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/vk/greetgo/internal/outcome"
)

// greeting is the single message this program exists to print.
const greeting = "Hello, world!"

// Greet writes the greeting to the output stream. A write failure is logged
// in full and returned as a diagnosed error whose message is safe to show
// the user. A cancelled context aborts before anything is written.
func (a *App) Greet(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("greeting aborted: %w", err)
	}

	a.logger.Info("Executing greeting")
	if _, err := fmt.Fprintln(a.outW, greeting); err != nil {
		a.logger.Error("Error in greeting", "error", err)
		a.logger.Debug("Greeting failure stack", "stack", string(debug.Stack()))
		return outcome.NewAppError(fmt.Sprintf("failed to display greeting: %v", err), err)
	}
	a.logger.Info("Greeting displayed", "message", greeting)
	return nil
}
