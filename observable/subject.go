// Package observable provides a replay-latest value stream.
package observable

import (
	"context"
	"sync"
)

// Observable is the read side of a Subject.
type Observable[T any] interface {
	// Value returns the latest value.
	Value() T

	// Subscribe registers fn and immediately calls it with the latest value.
	// The returned function removes the subscription.
	Subscribe(fn func(T)) (unsubscribe func())

	// Watch delivers the latest value and every later change on a channel
	// until ctx is done. A slow reader only ever sees the newest value.
	Watch(ctx context.Context) <-chan T
}

// Subject holds a current value and pushes every change to its subscribers.
// Subscribers are called synchronously and must not call Next or Subscribe
// on the subject they are subscribed to. Delivery order between subscribers
// is unspecified.
type Subject[T any] struct {
	emitMu sync.Mutex // serialises delivery so subscribers see changes in order

	mu          sync.RWMutex
	value       T
	nextID      uint64
	subscribers map[uint64]func(T)
}

var _ Observable[int] = (*Subject[int])(nil)

// NewSubject creates a subject seeded with initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{
		value:       initial,
		subscribers: make(map[uint64]func(T)),
	}
}

func (s *Subject[T]) Value() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Next replaces the value and delivers it to every subscriber before returning.
func (s *Subject[T]) Next(value T) {
	s.Stage(value)()
}

// Stage replaces the value without notifying anyone and returns the function
// that delivers it. Value reports the new value straight away, so several
// subjects can be staged first and delivered afterwards. The subject accepts
// no other Next or Subscribe until deliver has been called exactly once.
func (s *Subject[T]) Stage(value T) (deliver func()) {
	s.emitMu.Lock()

	s.mu.Lock()
	s.value = value
	subscribers := make([]func(T), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subscribers = append(subscribers, fn)
	}
	s.mu.Unlock()

	return func() {
		defer s.emitMu.Unlock()
		for _, fn := range subscribers {
			fn(value)
		}
	}
}

func (s *Subject[T]) Subscribe(fn func(T)) func() {
	s.emitMu.Lock()
	defer s.emitMu.Unlock()

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subscribers[id] = fn
	current := s.value
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subscribers, id)
			s.mu.Unlock()
		})
	}
}

func (s *Subject[T]) Watch(ctx context.Context) <-chan T {
	ch := make(chan T, 1)
	unsubscribe := s.Subscribe(func(value T) {
		// Drop whatever the reader has not consumed yet so the channel always holds the newest value.
		select {
		case <-ch:
		default:
		}
		ch <- value
	})

	go func() {
		<-ctx.Done()
		s.emitMu.Lock()
		defer s.emitMu.Unlock()
		unsubscribe()
		close(ch)
	}()
	return ch
}

// Subscribers returns the number of active subscriptions.
func (s *Subject[T]) Subscribers() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subscribers)
}
