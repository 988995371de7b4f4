package services

import (
	"sync"

	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/observable"
	"github.com/custodia-labs/docassist-cli/internal/core/ports/driving"
	"github.com/custodia-labs/docassist-cli/internal/logger"
)

// Ensure SelectionCoordinator implements the interface.
var _ driving.SelectionCoordinator = (*SelectionCoordinator)(nil)

// SelectionCoordinator owns the set of documents used as chat context and
// announces every change in the conversation.
type SelectionCoordinator struct {
	// mu keeps the selection change and its announcement together.
	mu        sync.Mutex
	selection *observable.Subject[domain.Selection]
	history   driving.ChatHistory
	log       logger.Logger
}

// NewSelectionCoordinator creates a coordinator with an empty selection.
func NewSelectionCoordinator(history driving.ChatHistory) *SelectionCoordinator {
	return &SelectionCoordinator{
		selection: observable.New(domain.NewSelection(nil)),
		history:   history,
		log:       logger.For("selection"),
	}
}

// SetSelection replaces the selection with ids.
func (c *SelectionCoordinator) SetSelection(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(domain.NewSelection(ids))
}

// Toggle adds or removes a single document.
func (c *SelectionCoordinator) Toggle(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyLocked(c.selection.Value().Toggle(id))
}

func (c *SelectionCoordinator) applyLocked(next domain.Selection) {
	c.selection.Set(next)
	c.log.Debug("selection now %v", next.IDs())
	if c.history != nil {
		c.history.AddSystemMessage(next.Announcement())
	}
}

// CurrentSelection returns the selected IDs in sorted order.
func (c *SelectionCoordinator) CurrentSelection() []string {
	return c.selection.Value().IDs()
}

// IsSelected reports whether id is in the selection.
func (c *SelectionCoordinator) IsSelected(id string) bool {
	return c.selection.Value().Contains(id)
}

// Subscribe delivers the current selection now and every later one.
func (c *SelectionCoordinator) Subscribe(fn func([]string)) observable.Subscription {
	return c.selection.Subscribe(func(s domain.Selection) {
		fn(s.IDs())
	})
}
