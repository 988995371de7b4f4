package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docassist-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docassist-cli/internal/core/domain"
	"github.com/custodia-labs/docassist-cli/internal/core/observable"
)

// bridge turns store subscriptions into StateChanged messages.
//
// Callbacks only record the latest snapshot and signal, so a slow or
// stopped program never blocks a store mutation. Snapshots that arrive
// between two reads are coalesced; each is a complete state, so the
// newest one is all the UI needs.
type bridge struct {
	mu      sync.Mutex
	pending messages.StateChanged
	subs    []observable.Subscription

	notify    chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

func newBridge() *bridge {
	return &bridge{
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// subscribe registers with every store in ports. Each store replays its
// current state, so the first wait returns a complete picture.
func (b *bridge) subscribe(ports *Ports) {
	subs := []observable.Subscription{
		ports.Documents.Subscribe(func(docs []domain.Document) {
			b.record(func(m *messages.StateChanged) {
				if docs == nil {
					docs = []domain.Document{}
				}
				m.Documents = docs
			})
		}),
		ports.Chat.Subscribe(func(history []domain.ChatMessage) {
			b.record(func(m *messages.StateChanged) {
				if history == nil {
					history = []domain.ChatMessage{}
				}
				m.History = history
			})
		}),
		ports.Selection.Subscribe(func(ids []string) {
			b.record(func(m *messages.StateChanged) {
				m.Selection = ids
				m.HasSelection = true
			})
		}),
	}

	b.mu.Lock()
	b.subs = append(b.subs, subs...)
	b.mu.Unlock()
}

func (b *bridge) record(apply func(*messages.StateChanged)) {
	b.mu.Lock()
	apply(&b.pending)
	b.mu.Unlock()

	select {
	case b.notify <- struct{}{}:
	default:
	}
}

// wait returns a command that blocks until a store changes.
func (b *bridge) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-b.notify:
			return b.take()
		case <-b.done:
			return nil
		}
	}
}

// take returns and resets the pending changes.
func (b *bridge) take() messages.StateChanged {
	b.mu.Lock()
	defer b.mu.Unlock()
	msg := b.pending
	b.pending = messages.StateChanged{}
	return msg
}

// close unsubscribes from every store and releases a blocked wait.
func (b *bridge) close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		subs := b.subs
		b.subs = nil
		b.mu.Unlock()

		for _, sub := range subs {
			sub.Unsubscribe()
		}
		close(b.done)
	})
}
