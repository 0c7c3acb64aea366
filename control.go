package inaspects

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// AnyControl is the type-erased view of a control, used wherever controls of
// different value types mix: aspect application, container folds, element
// bindings. Concrete controls are created with NewControl, NewGroup or
// Convert.
type AnyControl interface {
	// ID returns the control's unique identifier.
	ID() string
	// ValueAny returns the current value.
	ValueAny() any
	// SetValueAny writes a new value. It fails if the value has the wrong
	// type or the control is done.
	SetValueAny(val any) error
	// Revision returns the number of writes this control has seen.
	Revision() uint64
	// OnUpdateAny subscribes to value changes.
	OnUpdateAny(fn func(newVal, oldVal any)) Teardown

	// Done terminates the control's change stream with a reason. Every
	// aspect applied to the control and every control converted from it
	// terminates with the same reason. Idempotent.
	Done(reason any)
	// IsDone reports whether the control has terminated.
	IsDone() bool
	// DoneReason returns the termination reason, nil until done.
	DoneReason() any
	// OnDone subscribes to termination. If the control is already done the
	// callback fires immediately with the recorded reason.
	OnDone(fn func(reason any)) Teardown

	// GetTag retrieves a tag value set on the control.
	GetTag(tag any) (any, bool)
	// SetTag stores a tag value on the control.
	SetTag(tag any, val any)

	aspects() *aspectCache
	applier() AspectApplier
	binding() ElementBinding
	setBinding(b ElementBinding)
}

type updateEntry[V any] struct {
	id uint64
	fn func(newVal, oldVal V, rev uint64) error
}

// Control is a reactive holder of a single input value of type V, plus the
// registry of aspects applied to it. Zero value is not usable; construct
// with NewControl.
type Control[V any] struct {
	id string

	mu      sync.Mutex
	value   V
	rev     uint64
	nextSub uint64
	updates []updateEntry[V]
	pool    snapshotPool[V]

	done       bool
	doneReason any
	doneFns    []doneEntry

	tagMu sync.RWMutex
	tags  map[any]any

	cache         aspectCache
	customApplier AspectApplier
	element       ElementBinding
}

type doneEntry struct {
	id uint64
	fn func(reason any)
}

// ControlOption configures a control on construction.
type ControlOption func(c AnyControl)

// WithElement binds a control to a UI element. Focus and edit signals of
// the binding feed the Focus and Status aspects.
func WithElement(b ElementBinding) ControlOption {
	return func(c AnyControl) {
		c.setBinding(b)
	}
}

// WithName sets the control's name tag, used by logging and diagnostics.
func WithName(name string) ControlOption {
	return func(c AnyControl) {
		NameTag.Set(c, name)
	}
}

// NewControl creates a control holding the given initial value.
func NewControl[V any](initial V, opts ...ControlOption) *Control[V] {
	c := &Control[V]{
		id:    uuid.NewString(),
		value: initial,
		tags:  make(map[any]any),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ID returns the control's unique identifier.
func (c *Control[V]) ID() string {
	return c.id
}

// Value returns the current value.
func (c *Control[V]) Value() V {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Revision returns the number of writes this control has seen.
func (c *Control[V]) Revision() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rev
}

// SetValue writes a new value and notifies subscribers synchronously, in
// subscription order. An error returned by a subscriber (a failed
// conversion, a rejected distribution) propagates to the caller that
// triggered the edit; remaining subscribers are still notified.
func (c *Control[V]) SetValue(val V) error {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return ErrControlDone
	}
	old := c.value
	c.value = val
	c.rev++
	rev := c.rev
	snap := c.pool.acquire()
	snap = append(snap, c.updates...)
	c.mu.Unlock()

	var errs []error
	for _, entry := range snap {
		if err := entry.fn(val, old, rev); err != nil {
			errs = append(errs, err)
		}
	}
	c.pool.release(snap)

	return errors.Join(errs...)
}

// OnUpdate subscribes to value changes. Notifications carry the new and the
// previous value and arrive in write order.
func (c *Control[V]) OnUpdate(fn func(newVal, oldVal V)) Teardown {
	return c.onUpdateRev(func(newVal, oldVal V, _ uint64) error {
		fn(newVal, oldVal)
		return nil
	})
}

// onUpdateRev is the internal subscription carrying the write revision and
// an error channel back to the writer. Conversion and group folds rely on
// both.
func (c *Control[V]) onUpdateRev(fn func(newVal, oldVal V, rev uint64) error) Teardown {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return func() {}
	}
	c.nextSub++
	id := c.nextSub
	c.updates = append(c.updates, updateEntry[V]{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		for i, entry := range c.updates {
			if entry.id == id {
				c.updates = append(c.updates[:i], c.updates[i+1:]...)
				break
			}
		}
		c.mu.Unlock()
	}
}

// Done terminates the control with the given reason. Subscribers registered
// via OnDone fire exactly once, in registration order; value subscriptions
// are dropped. Calling Done again has no effect.
func (c *Control[V]) Done(reason any) {
	c.mu.Lock()
	if c.done {
		c.mu.Unlock()
		return
	}
	c.done = true
	c.doneReason = reason
	fns := c.doneFns
	c.doneFns = nil
	c.updates = nil
	c.mu.Unlock()

	for _, entry := range fns {
		entry.fn(reason)
	}
}

// IsDone reports whether the control has terminated.
func (c *Control[V]) IsDone() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done
}

// DoneReason returns the termination reason, nil until done.
func (c *Control[V]) DoneReason() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doneReason
}

// OnDone subscribes to termination. On an already-done control the callback
// fires immediately with the recorded reason.
func (c *Control[V]) OnDone(fn func(reason any)) Teardown {
	c.mu.Lock()
	if c.done {
		reason := c.doneReason
		c.mu.Unlock()
		fn(reason)
		return func() {}
	}
	c.nextSub++
	id := c.nextSub
	c.doneFns = append(c.doneFns, doneEntry{id: id, fn: fn})
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		for i, entry := range c.doneFns {
			if entry.id == id {
				c.doneFns = append(c.doneFns[:i], c.doneFns[i+1:]...)
				break
			}
		}
		c.mu.Unlock()
	}
}

// ValueAny returns the current value.
func (c *Control[V]) ValueAny() any {
	return c.Value()
}

// SetValueAny writes a new value after a checked type assertion.
func (c *Control[V]) SetValueAny(val any) error {
	typed, err := SafeTypeAssertion[V](val)
	if err != nil {
		return err
	}
	return c.SetValue(typed)
}

// OnUpdateAny subscribes to value changes through the type-erased view.
func (c *Control[V]) OnUpdateAny(fn func(newVal, oldVal any)) Teardown {
	return c.onUpdateRev(func(newVal, oldVal V, _ uint64) error {
		fn(newVal, oldVal)
		return nil
	})
}

// GetTag retrieves a tag value set on the control.
func (c *Control[V]) GetTag(tag any) (any, bool) {
	c.tagMu.RLock()
	defer c.tagMu.RUnlock()
	val, ok := c.tags[tag]
	return val, ok
}

// SetTag stores a tag value on the control.
func (c *Control[V]) SetTag(tag any, val any) {
	c.tagMu.Lock()
	defer c.tagMu.Unlock()
	c.tags[tag] = val
}

func (c *Control[V]) aspects() *aspectCache {
	return &c.cache
}

func (c *Control[V]) applier() AspectApplier {
	return c.customApplier
}

func (c *Control[V]) binding() ElementBinding {
	return c.element
}

func (c *Control[V]) setBinding(b ElementBinding) {
	c.element = b
}
