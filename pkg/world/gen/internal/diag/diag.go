// Package diag holds the logger shared by the generation packages and the
// once-per-kind reporting used for declared variants that have no behaviour.
package diag

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

var (
	logger atomic.Pointer[slog.Logger]
	seen   sync.Map
)

// SetLogger replaces the logger used by the generation packages. A nil logger
// restores slog.Default().
func SetLogger(l *slog.Logger) {
	logger.Store(l)
}

// Logger returns the current generation logger.
func Logger() *slog.Logger {
	if l := logger.Load(); l != nil {
		return l
	}
	return slog.Default()
}

// Warn logs a warning through the generation logger.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Unimplemented reports a declared variant the first time it is hit for the
// given family and type name. Later calls are silent.
func Unimplemented(family, name string) {
	if _, loaded := seen.LoadOrStore(family+"/"+name, struct{}{}); loaded {
		return
	}
	Logger().Warn("declared variant has no behaviour", "family", family, "type", name)
}

// Reported reports whether Unimplemented has already logged family/name.
func Reported(family, name string) bool {
	_, ok := seen.Load(family + "/" + name)
	return ok
}
