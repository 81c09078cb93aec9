package logging

import (
	"context"
	"log/slog"
)

// ContextProvider returns the attributes stamped on every record, typically the
// active run name and tick.
type ContextProvider func() []slog.Attr

// RunAttrs returns a ContextProvider that stamps records with the active run
// name ("run") and tick ("tick"). Nothing is added while no run is loaded.
func RunAttrs(current func() (name string, tick uint)) ContextProvider {
	return func() []slog.Attr {
		name, tick := current()
		if name == "" {
			return nil
		}
		return []slog.Attr{slog.String("run", name), slog.Uint64("tick", uint64(tick))}
	}
}

// ContextHandler wraps another handler and adds the provider's attributes to
// each record. A provided key the record or logger already carries is skipped,
// so an explicit "tick" on a log call wins over the run context.
type ContextHandler struct {
	inner    slog.Handler
	provider ContextProvider
	bound    map[string]bool // top-level keys added through WithAttrs
	grouped  bool
}

// NewContextHandler creates a handler that adds run context to each record.
func NewContextHandler(inner slog.Handler, provider ContextProvider) *ContextHandler {
	return &ContextHandler{
		inner:    inner,
		provider: provider,
	}
}

// Enabled delegates to the inner handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle adds the run context attributes and delegates to the inner handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.provider == nil {
		return h.inner.Handle(ctx, r)
	}
	attrs := h.provider()
	if len(attrs) == 0 {
		return h.inner.Handle(ctx, r)
	}

	present := make(map[string]bool, len(h.bound)+r.NumAttrs())
	for k := range h.bound {
		present[k] = true
	}
	if !h.grouped {
		r.Attrs(func(a slog.Attr) bool {
			present[a.Key] = true
			return true
		})
	}
	for _, a := range attrs {
		if !present[a.Key] {
			r.AddAttrs(a)
		}
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs returns a new ContextHandler with the given attributes.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &ContextHandler{
		inner:    h.inner.WithAttrs(attrs),
		provider: h.provider,
		bound:    h.bound,
		grouped:  h.grouped,
	}
	if !h.grouped {
		next.bound = make(map[string]bool, len(h.bound)+len(attrs))
		for k := range h.bound {
			next.bound[k] = true
		}
		for _, a := range attrs {
			next.bound[a.Key] = true
		}
	}
	return next
}

// WithGroup returns a new ContextHandler with the given group. Run context
// attributes then land inside the group.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &ContextHandler{
		inner:    h.inner.WithGroup(name),
		provider: h.provider,
		bound:    h.bound,
		grouped:  true,
	}
}
