// Package paths defines the file-path conventions of the add-in: a per-user
// application data directory, a per-host-version subdirectory, and the
// deterministic file-name prefixes (universal, versioned, session-stamped)
// that let independently invoked scripts find each other's files.
package paths
