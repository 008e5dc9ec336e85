// Package flow is the unidirectional state engine every interactive feature
// is built on. A Store holds one immutable State snapshot, accepts Events
// through a per-feature handler, and publishes state updates and one-shot
// Effects to the presentation layer.
package flow

import (
	"context"
	"sync"
)

// effectBuffer bounds the per-store effect queue. Emitting past a full
// queue, or with no consumer attached, drops the effect.
const effectBuffer = 8

// Handler reacts to a dispatched event. It may read st.State(), do
// asynchronous work, and call st.Update / st.Emit any number of times.
type Handler[S, E, F any] func(ctx context.Context, st *Store[S, E, F], ev E)

// Store is a single-writer state container with hot snapshot streams and an
// at-most-once effect queue (multi-producer, single consumer).
type Store[S, E, F any] struct {
	mu      sync.Mutex
	state   S
	subs    map[uint64]chan S
	nextSub uint64
	closed  bool

	effects chan F
	handle  Handler[S, E, F]
}

func New[S, E, F any](initial S, handle Handler[S, E, F]) *Store[S, E, F] {
	return &Store[S, E, F]{
		state:   initial,
		subs:    make(map[uint64]chan S),
		effects: make(chan F, effectBuffer),
		handle:  handle,
	}
}

// State returns the latest snapshot.
func (s *Store[S, E, F]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch feeds an event to the feature handler. The handler runs on the
// caller's goroutine; long work belongs in goroutines the handler spawns.
func (s *Store[S, E, F]) Dispatch(ctx context.Context, ev E) {
	s.handle(ctx, s, ev)
}

// Update applies transform to the latest state under the writer lock and
// publishes the result. Because the transform sees the state at application
// time, two concurrent updates cannot lose each other's writes.
func (s *Store[S, E, F]) Update(transform func(S) S) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state = transform(s.state)
	for _, ch := range s.subs {
		publish(ch, s.state)
	}
}

// publish delivers the latest snapshot to one subscriber, conflating: a slow
// subscriber sees the newest state, not every intermediate one.
func publish[S any](ch chan S, state S) {
	for {
		select {
		case ch <- state:
			return
		default:
			select {
			case <-ch: // evict the stale snapshot
			default:
			}
		}
	}
}

// Subscribe attaches a hot observer: it receives the current snapshot
// immediately and every update after, until cancel is called. On a closed
// store the channel carries the final snapshot and is already closed, so a
// ranging consumer terminates instead of blocking forever.
func (s *Store[S, E, F]) Subscribe() (<-chan S, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan S, 1)
	ch <- s.state
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// Emit queues a one-shot effect for the single consumer reading Effects().
// Effects are delivered at most once, in emission order. When the queue is
// full or nobody ever drains it, the effect is dropped rather than buffered
// indefinitely.
func (s *Store[S, E, F]) Emit(effect F) {
	select {
	case s.effects <- effect:
	default:
	}
}

// Effects returns the effect queue. It is meant for exactly one consumer;
// effects already consumed are never replayed to a later one.
func (s *Store[S, E, F]) Effects() <-chan F {
	return s.effects
}

// Close detaches all state subscribers. Further Updates are ignored.
func (s *Store[S, E, F]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
