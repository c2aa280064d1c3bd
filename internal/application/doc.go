// Package application wires the bootstrap sequence: executor parameters,
// host identity, path conventions and the logging setup, in that order.
// It keeps the main package focused on CLI parsing and orchestration.
package application
