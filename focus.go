package inaspects

import "sync"

// FocusKey identifies the focus aspect. It applies as absent (nil) on a
// control without an element binding; the absent result is cached like any
// other, and all Focus methods are nil-safe.
var FocusKey = NewAspectKey("focus", func(c AnyControl) *Focus {
	b := c.binding()
	if b == nil {
		return nil
	}

	f := &Focus{}
	tdFocus := b.OnFocus(func() {
		f.set(true)
	})
	tdBlur := b.OnBlur(func() {
		f.set(false)
	})
	c.OnDone(func(any) {
		tdFocus()
		tdBlur()
		f.changes.close()
	})
	return f
})

// Focus tracks whether a control's bound element has input focus.
type Focus struct {
	mu      sync.Mutex
	focused bool
	changes emitter[bool]
}

// Has reports whether the element currently has focus. A nil Focus never
// has focus.
func (f *Focus) Has() bool {
	if f == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

// OnUpdate subscribes to focus changes. On a nil Focus it is a no-op.
func (f *Focus) OnUpdate(fn func(focused, was bool)) Teardown {
	if f == nil {
		return func() {}
	}
	return f.changes.on(fn)
}

// ConvertTo shares this focus aspect with a control converted from its
// owner. A nil Focus declines, so the converted control applies the key
// against its own binding.
func (f *Focus) ConvertTo(AnyControl) (any, bool) {
	if f == nil {
		return nil, false
	}
	return f, true
}

func (f *Focus) set(focused bool) {
	f.mu.Lock()
	old := f.focused
	if old == focused {
		f.mu.Unlock()
		return
	}
	f.focused = focused
	f.mu.Unlock()

	f.changes.emit(focused, old)
}
