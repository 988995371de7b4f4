package observable

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Subscription is a handle returned by Subscribe.
type Subscription interface {
	// Unsubscribe stops further deliveries. Safe to call more than once.
	Unsubscribe()
}

type subscriber[T any] struct {
	fn     func(T)
	active atomic.Bool
}

// Subject is a value cell with ordered change notification.
// The zero value is not usable; create one with New.
//
// Subscribers may call back into the Subject. A change made while a
// delivery is running is applied at once and queued; the goroutine that is
// delivering drains the queue, so every subscriber sees values in mutation
// order and the call returns without waiting for its own delivery.
type Subject[T any] struct {
	mu         sync.Mutex
	value      T
	subs       map[uint64]*subscriber[T]
	nextID     uint64
	queue      []delivery[T]
	delivering bool
}

// delivery is one pending notification.
type delivery[T any] struct {
	targets []*subscriber[T]
	value   T
}

// New creates a Subject holding initial.
func New[T any](initial T) *Subject[T] {
	return &Subject[T]{
		value: initial,
		subs:  make(map[uint64]*subscriber[T]),
	}
}

// Value returns the current value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set replaces the value and notifies subscribers.
func (s *Subject[T]) Set(v T) {
	s.Update(func(T) T { return v })
}

// Update computes the next value from the current one and notifies
// subscribers. fn runs while no other change can interleave and must not
// call back into the Subject.
func (s *Subject[T]) Update(fn func(current T) T) T {
	s.mu.Lock()
	next := fn(s.value)
	s.value = next
	s.queue = append(s.queue, delivery[T]{targets: s.snapshotLocked(), value: next})
	s.drainLocked()
	return next
}

// Subscribe registers fn and delivers the current value to it. When called
// from inside a delivery, the replay is queued behind the deliveries
// already pending.
func (s *Subject[T]) Subscribe(fn func(T)) Subscription {
	sub := &subscriber[T]{fn: fn}
	sub.active.Store(true)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = sub
	s.queue = append(s.queue, delivery[T]{targets: []*subscriber[T]{sub}, value: s.value})
	s.drainLocked()

	return &handle[T]{subject: s, id: id, sub: sub}
}

// drainLocked delivers queued notifications unless another call is already
// doing so. Caller must hold s.mu; drainLocked releases it.
func (s *Subject[T]) drainLocked() {
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true
	defer func() {
		// Reached with s.mu held, including when a subscriber panics.
		s.delivering = false
		s.mu.Unlock()
	}()

	for len(s.queue) > 0 {
		d := s.queue[0]
		s.queue[0] = delivery[T]{}
		s.queue = s.queue[1:]

		s.mu.Unlock()
		func() {
			defer s.mu.Lock()
			deliver(d.targets, d.value)
		}()
	}
	s.queue = nil
}

// Len returns the number of live subscribers.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// snapshotLocked returns live subscribers in registration order.
// Caller must hold s.mu.
func (s *Subject[T]) snapshotLocked() []*subscriber[T] {
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]*subscriber[T], 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}
	return out
}

func (s *Subject[T]) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}

func deliver[T any](targets []*subscriber[T], v T) {
	for _, sub := range targets {
		if sub.active.Load() {
			sub.fn(v)
		}
	}
}

type handle[T any] struct {
	subject *Subject[T]
	id      uint64
	sub     *subscriber[T]
}

func (h *handle[T]) Unsubscribe() {
	if h.sub.active.CompareAndSwap(true, false) {
		h.subject.remove(h.id)
	}
}

// Subscriptions unsubscribes a group of subscriptions together.
type Subscriptions []Subscription

// Unsubscribe releases every subscription in the group.
func (g Subscriptions) Unsubscribe() {
	for _, s := range g {
		if s != nil {
			s.Unsubscribe()
		}
	}
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

// Unsubscribe calls f.
func (f SubscriptionFunc) Unsubscribe() {
	f()
}
