// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The in-memory stores (DocumentStore, ChatHistory, SelectionCoordinator)
// are built on observable.Subject: every mutation produces a fresh slice
// that is delivered to subscribers in mutation order. The upload drivers
// write through DocumentStore.Update only.
package services
