package inaspects

import "sync"

// TestElement is an in-memory ElementBinding for tests and examples. Focus,
// Blur and Edit trigger the corresponding event sources synchronously.
type TestElement struct {
	mu     sync.Mutex
	nextID uint64
	focus  map[uint64]func()
	blur   map[uint64]func()
	edited map[uint64]func()
}

// NewTestElement creates an unfocused test element.
func NewTestElement() *TestElement {
	return &TestElement{
		focus:  make(map[uint64]func()),
		blur:   make(map[uint64]func()),
		edited: make(map[uint64]func()),
	}
}

// Element returns the binding itself.
func (e *TestElement) Element() any {
	return e
}

// OnFocus subscribes to focus gain.
func (e *TestElement) OnFocus(fn func()) Teardown {
	return e.subscribe(e.focus, fn)
}

// OnBlur subscribes to focus loss.
func (e *TestElement) OnBlur(fn func()) Teardown {
	return e.subscribe(e.blur, fn)
}

// OnEdited subscribes to user edits.
func (e *TestElement) OnEdited(fn func()) Teardown {
	return e.subscribe(e.edited, fn)
}

// Focus triggers the focus event source.
func (e *TestElement) Focus() {
	e.trigger(e.focus)
}

// Blur triggers the blur event source.
func (e *TestElement) Blur() {
	e.trigger(e.blur)
}

// Edit triggers the edited event source.
func (e *TestElement) Edit() {
	e.trigger(e.edited)
}

func (e *TestElement) subscribe(m map[uint64]func(), fn func()) Teardown {
	e.mu.Lock()
	e.nextID++
	id := e.nextID
	m[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(m, id)
		e.mu.Unlock()
	}
}

func (e *TestElement) trigger(m map[uint64]func()) {
	e.mu.Lock()
	fns := make([]func(), 0, len(m))
	for _, fn := range m {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
