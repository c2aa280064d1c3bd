// Package envvars is the session environment store. Scripts in one host
// session run as separate executions with no shared memory; OS environment
// variables scoped to the host process are the channel they use to share
// flags, such as the debug/verbose level chosen by an earlier script.
package envvars

import (
	"os"
	"strconv"
	"strings"
)

// Well-known session variables.
const (
	// Debug raises the session console log level to debug for every
	// subsequent script execution.
	Debug = "DEBUG"

	// Verbose raises the session console log level to info.
	Verbose = "VERBOSE"
)

const (
	prefix = "DRAFTSCRIPT_"
	suffix = "_ISC"
)

// Name returns the full OS environment variable name for a session variable.
func Name(name string) string {
	return prefix + strings.ToUpper(strings.TrimSpace(name)) + suffix
}

// Set stores a session variable.
func Set(name, value string) error {
	return os.Setenv(Name(name), value)
}

// Get reads a session variable; absent variables read as "".
func Get(name string) string {
	return os.Getenv(Name(name))
}

// SetBool stores a boolean session variable.
func SetBool(name string, value bool) error {
	return Set(name, strconv.FormatBool(value))
}

// GetBool reads a boolean session variable. Absent or unparseable values
// read as false.
func GetBool(name string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(Get(name)))
	return err == nil && v
}

// Clear removes a session variable.
func Clear(name string) error {
	return os.Unsetenv(Name(name))
}
