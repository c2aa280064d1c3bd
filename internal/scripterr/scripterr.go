package scripterr

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// TracebackTitle precedes the captured stack in rendered errors.
const TracebackTitle = "Traceback:"

// ErrIO marks errors caused by filesystem access failures, such as the
// application data directories not being creatable.
var ErrIO = errors.New("io failure")

// New returns a domain error carrying a stack trace captured at the call site.
func New(msg string) error {
	return errors.NewWithDepth(1, msg)
}

// Newf returns a formatted domain error carrying a stack trace.
func Newf(format string, args ...any) error {
	return errors.NewWithDepthf(1, format, args...)
}

// Wrap annotates err with msg and a stack trace captured at the call site.
// Returns nil when err is nil.
func Wrap(err error, msg string) error {
	return errors.WrapWithDepth(1, err, msg)
}

// Wrapf annotates err with a formatted message and a stack trace.
func Wrapf(err error, format string, args ...any) error {
	return errors.WrapWithDepthf(1, err, format, args...)
}

// IOErrorf reports a filesystem failure at path, preserving the underlying
// OS error in the chain. The message names the path and appends the OS error.
func IOErrorf(path string, err error) error {
	return errors.Mark(
		errors.WrapWithDepthf(1, err, "can not access add-in folder at: %s", path),
		ErrIO,
	)
}

// IsIOError reports whether err was produced by IOErrorf.
func IsIOError(err error) bool {
	return errors.Is(err, ErrIO)
}

// Render formats err as its message followed by a traceback section.
// Rendering is best-effort: any failure while extracting the verbose form
// falls back to the plain error string. Returns "" for a nil error.
func Render(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	detail := verbose(err)
	if detail == "" || detail == msg {
		return msg
	}
	return fmt.Sprintf("%s\n\n%s\n%s", msg, TracebackTitle, detail)
}

// verbose returns the %+v rendering of err, swallowing panics from
// misbehaving error implementations.
func verbose(err error) (detail string) {
	defer func() {
		if recover() != nil {
			detail = ""
		}
	}()
	return fmt.Sprintf("%+v", err)
}
