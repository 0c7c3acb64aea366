package inaspects

import "sync"

// InputMode is the permission state governing whether a control's value
// participates in submitted data.
type InputMode string

const (
	// ModeOn is a fully enabled input contributing data.
	ModeOn InputMode = "on"
	// ModeReadOnly renders the element read-only but still contributes
	// data.
	ModeReadOnly InputMode = "ro"
	// ModeOff disables the element and suppresses its data.
	ModeOff InputMode = "off"
)

// AllowsData reports whether a control in this mode contributes to
// submitted data.
func (m InputMode) AllowsData() bool {
	return m != ModeOff
}

// ModeKey identifies the input mode aspect. Controls start in ModeOn.
var ModeKey = NewAspectKey("mode", func(c AnyControl) *Mode {
	m := &Mode{mode: ModeOn}
	c.OnDone(func(any) {
		m.changes.close()
	})
	return m
})

// Mode tracks a control's input mode. A converted control shares the mode
// aspect of its source.
type Mode struct {
	mu      sync.Mutex
	mode    InputMode
	changes emitter[InputMode]
}

// Get returns the current input mode.
func (m *Mode) Get() InputMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Set changes the input mode. Setting the current mode again is a no-op.
func (m *Mode) Set(mode InputMode) {
	m.mu.Lock()
	old := m.mode
	if old == mode {
		m.mu.Unlock()
		return
	}
	m.mode = mode
	m.mu.Unlock()

	m.changes.emit(mode, old)
}

// OnUpdate subscribes to mode changes.
func (m *Mode) OnUpdate(fn func(newMode, oldMode InputMode)) Teardown {
	return m.changes.on(fn)
}

// ConvertTo shares this mode aspect with a control converted from its owner.
func (m *Mode) ConvertTo(AnyControl) (any, bool) {
	return m, true
}
