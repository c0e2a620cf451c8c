package logging

import (
	"context"
	"errors"
	"log/slog"
)

// multiHandler fans each record out to every child handler that accepts its
// level, gated by a root minimum. The root gate reproduces the configured
// verbosity: a child may declare a lower threshold (the file sink always
// accepts debug) yet still only sees what the gate lets through.
type multiHandler struct {
	min      slog.Level
	handlers []slog.Handler
}

func newMultiHandler(min slog.Level, handlers ...slog.Handler) *multiHandler {
	return &multiHandler{min: min, handlers: handlers}
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	if level < h.min {
		return false
	}
	for _, child := range h.handlers {
		if child.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	var errs []error
	for _, child := range h.handlers {
		if !child.Enabled(ctx, record.Level) {
			continue
		}
		if err := child.Handle(ctx, record.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	children := make([]slog.Handler, len(h.handlers))
	for i, child := range h.handlers {
		children[i] = child.WithAttrs(attrs)
	}
	return &multiHandler{min: h.min, handlers: children}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	children := make([]slog.Handler, len(h.handlers))
	for i, child := range h.handlers {
		children[i] = child.WithGroup(name)
	}
	return &multiHandler{min: h.min, handlers: children}
}
