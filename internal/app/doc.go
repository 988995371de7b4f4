// Package app assembles the document assistant: it loads settings, builds
// the driven adapters they select and wires them into the core services.
// The CLI calls New once per process through its bootstrap hook.
package app
