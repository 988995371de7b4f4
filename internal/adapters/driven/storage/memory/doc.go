// Package memory provides in-memory implementations of driven ports.
// Nothing is persisted; these back tests and the --ephemeral flag.
package memory
