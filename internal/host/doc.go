// Package host resolves the identity of the hosting CAD application and the
// per-execution parameters its script executor injects. Identity resolution
// must complete before any other subsystem starts: path conventions and
// session log names all derive from the host version, user and process id.
package host
