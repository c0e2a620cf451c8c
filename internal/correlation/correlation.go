// Package correlation mints opaque identifiers for failure reports and
// threads them through context.Context, so a log record can be matched to
// the identifier shown to the user without exposing any error detail.
package correlation

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// ctxKey is an unexported type for the context key to avoid collisions.
type ctxKey struct{}

// NewID returns a fresh opaque correlation identifier. IDs are random, so
// two reports never collide even when generated within the same instant.
func NewID() string {
	return uuid.NewString()
}

// WithID returns a new context carrying the given correlation ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the correlation ID from the context. It returns the
// ID and true when present, or an empty string and false otherwise.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Handler is a slog.Handler middleware that stamps a correlation_id
// attribute onto every record whose context carries one.
type Handler struct {
	inner slog.Handler
}

// NewHandler wraps an existing handler with correlation ID support.
func NewHandler(inner slog.Handler) *Handler {
	return &Handler{inner: inner}
}

// Enabled reports whether the inner handler handles records at the given level.
func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds the correlation ID from the context, when present, before
// delegating to the inner handler. The record is cloned first, as required
// of handlers that modify records.
func (h *Handler) Handle(ctx context.Context, record slog.Record) error {
	if id, ok := FromContext(ctx); ok {
		record = record.Clone()
		record.AddAttrs(slog.String("correlation_id", id))
	}
	if err := h.inner.Handle(ctx, record); err != nil {
		return fmt.Errorf("correlation handler: %w", err)
	}
	return nil
}

// WithAttrs returns a new Handler whose inner handler has the given attributes.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup returns a new Handler whose inner handler has the given group.
func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{inner: h.inner.WithGroup(name)}
}
