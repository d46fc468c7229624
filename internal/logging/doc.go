// Package logging assembles structured slog loggers and formatting helpers used
// across reelsmith.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline steps automatically
// tag log lines with the run ID and step name. The package also provides a
// no-op logger for tests and wiring code that cannot fail.
//
// Loggers are always passed explicitly; nothing here installs a process-wide
// default.
package logging
