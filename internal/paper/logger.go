package paper

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record. Enabled returns false so callers skip
// formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger configures the logger used by the surface and the tools built
// on it. The package is silent until SetLogger is called. Passing nil
// restores the silent default.
//
// Levels:
//   - [slog.LevelDebug]: per-gesture diagnostics (stroke start/stop, listener counts)
//   - [slog.LevelInfo]: lifecycle events (layers, zoom, resize, tool activation)
//   - [slog.LevelWarn]: misuse that is tolerated (double activation)
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the current logger. Tool packages call it to share the
// same configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
