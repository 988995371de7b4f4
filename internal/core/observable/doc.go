// Package observable provides the value-cell-with-subscribers primitive the
// core stores are built on.
//
// A Subject holds the current value and a registry of callbacks. Every
// change produces a new value which is delivered to all live subscribers
// in the order the changes were made. New subscribers receive the current
// value before any later change.
//
// # Rules for subscribers
//
//   - Values passed to callbacks are shared between subscribers and must be
//     treated as read-only.
//   - A callback may change the Subject it is subscribed to. The change is
//     applied at once and delivered after the current delivery finishes.
//   - Unsubscribing is safe from anywhere, including inside the callback.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package
package observable
