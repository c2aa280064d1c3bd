// Package logging builds the session logging subsystem: a console core
// writing to the host output surface with per-level coloring and a flood
// guard, plus a lazily opened, size-capped JSON log file stamped with the
// session identity. Loggers are handed out by name from a memoizing registry
// and all share one console level, so a level change made by any script is
// seen by every other script in the session.
package logging
