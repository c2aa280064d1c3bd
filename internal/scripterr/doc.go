// Package scripterr defines the add-in's domain error type. Errors created
// here capture a stack trace at the call site so that failures surfaced to
// the host output window can be rendered with a traceback, the way script
// authors expect. Filesystem failures get a dedicated marker so callers can
// distinguish "can not access the app folder" from everything else.
package scripterr
