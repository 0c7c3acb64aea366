package inaspects

import "sync"

// Teardown releases a subscription. Calling it more than once is safe.
type Teardown func()

// teardownSet owns a set of subscriptions that are released together.
// Release order is LIFO, matching registration semantics of cleanups.
type teardownSet struct {
	mu  sync.Mutex
	fns []Teardown
}

func (s *teardownSet) add(td Teardown) {
	if td == nil {
		return
	}
	s.mu.Lock()
	s.fns = append(s.fns, td)
	s.mu.Unlock()
}

func (s *teardownSet) release() {
	s.mu.Lock()
	fns := s.fns
	s.fns = nil
	s.mu.Unlock()

	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

type emitterEntry[T any] struct {
	id uint64
	fn func(newVal, oldVal T)
}

// emitter is an ordered fan-out of (new, old) pairs. Delivery happens
// outside the lock so receivers may subscribe, unsubscribe or trigger
// further emissions.
type emitter[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   []emitterEntry[T]
	closed bool
}

func (e *emitter[T]) on(fn func(newVal, oldVal T)) Teardown {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return func() {}
	}
	e.nextID++
	id := e.nextID
	e.subs = append(e.subs, emitterEntry[T]{id: id, fn: fn})
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		for i, sub := range e.subs {
			if sub.id == id {
				e.subs = append(e.subs[:i], e.subs[i+1:]...)
				break
			}
		}
		e.mu.Unlock()
	}
}

func (e *emitter[T]) emit(newVal, oldVal T) {
	e.mu.Lock()
	subs := make([]emitterEntry[T], len(e.subs))
	copy(subs, e.subs)
	e.mu.Unlock()

	for _, sub := range subs {
		sub.fn(newVal, oldVal)
	}
}

func (e *emitter[T]) close() {
	e.mu.Lock()
	e.subs = nil
	e.closed = true
	e.mu.Unlock()
}
