package driving

import "github.com/custodia-labs/docassist-cli/internal/core/observable"

// SelectionCoordinator holds the documents used as chat context.
type SelectionCoordinator interface {
	// SetSelection replaces the selection and posts one system message
	// describing it into the chat history.
	SetSelection(ids []string)

	// Toggle adds id to the selection or removes it.
	Toggle(id string)

	// CurrentSelection returns the selected IDs in sorted order.
	CurrentSelection() []string

	// Subscribe delivers the current selection now and on every change.
	Subscribe(fn func([]string)) observable.Subscription
}
