package inaspects

import (
	"errors"
	"sync"
)

// Group is a container of named child controls. Its own value is a
// map[string]any folded from the children: a child edit updates the group
// value, and an external write to the group value distributes the per-name
// entries to the children. Children are structurally subordinate: closing
// the group closes every child with the same reason, and a child that
// closes on its own is removed from the group.
type Group struct {
	*Control[map[string]any]

	mu       sync.Mutex
	names    []string
	children map[string]AnyControl
	childTds map[string]Teardown

	guard      convertSync
	inMu       sync.Mutex
	inFlight   map[string]bool
	structSubs emitter[[]AnyControl]
}

// NewGroup creates an empty group.
func NewGroup(opts ...ControlOption) *Group {
	g := &Group{
		Control:  NewControl(map[string]any{}, opts...),
		children: make(map[string]AnyControl),
		childTds: make(map[string]Teardown),
		inFlight: make(map[string]bool),
	}

	// Distribute external writes of the group value to the children.
	// Writes produced by the group's own fold are skipped by revision.
	g.onUpdateRev(func(newVal, _ map[string]any, rev uint64) error {
		if g.guard.observeSelf(rev) {
			return nil
		}
		var errs []error
		for name, val := range newVal {
			g.mu.Lock()
			child, ok := g.children[name]
			g.mu.Unlock()
			if !ok {
				continue
			}
			if err := g.distribute(name, child, val); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	g.OnDone(func(reason any) {
		g.mu.Lock()
		children := make([]AnyControl, 0, len(g.children))
		for _, child := range g.children {
			children = append(children, child)
		}
		tds := make([]Teardown, 0, len(g.childTds))
		for _, td := range g.childTds {
			tds = append(tds, td)
		}
		g.names = nil
		g.children = make(map[string]AnyControl)
		g.childTds = make(map[string]Teardown)
		g.mu.Unlock()

		for _, td := range tds {
			td()
		}
		for _, child := range children {
			child.Done(reason)
		}
		g.structSubs.close()
	})

	return g
}

// SetControl adds a child control under the given name, replacing any
// previous control with that name. The group value is refolded and a new
// child snapshot is published.
func (g *Group) SetControl(name string, child AnyControl) {
	if g.IsDone() {
		return
	}

	var subs teardownSet
	subs.add(child.OnUpdateAny(func(_, _ any) {
		g.inMu.Lock()
		skip := g.inFlight[name]
		g.inMu.Unlock()
		if skip {
			return
		}
		g.refold()
	}))
	subs.add(child.OnDone(func(any) {
		g.RemoveControl(name)
	}))

	g.mu.Lock()
	if old, ok := g.childTds[name]; ok {
		delete(g.childTds, name)
		defer old()
	} else {
		g.names = appendUnique(g.names, name)
	}
	g.children[name] = child
	g.childTds[name] = subs.release
	snapshot := g.controlsLocked()
	g.mu.Unlock()

	g.structSubs.emit(snapshot, nil)
	g.refold()
}

// RemoveControl removes the named child from the group. The child keeps
// living; only its subscriptions and its entry in the group value go away.
func (g *Group) RemoveControl(name string) {
	g.mu.Lock()
	_, ok := g.children[name]
	if !ok {
		g.mu.Unlock()
		return
	}
	td := g.childTds[name]
	delete(g.children, name)
	delete(g.childTds, name)
	g.names = removeElement(g.names, name)
	snapshot := g.controlsLocked()
	g.mu.Unlock()

	if td != nil {
		td()
	}
	g.structSubs.emit(snapshot, nil)
	g.refold()
}

// Get returns the named child control.
func (g *Group) Get(name string) (AnyControl, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	child, ok := g.children[name]
	return child, ok
}

// Names returns the child names in insertion order.
func (g *Group) Names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	names := make([]string, len(g.names))
	copy(names, g.names)
	return names
}

// Controls returns a snapshot of the child controls in insertion order.
func (g *Group) Controls() []AnyControl {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.controlsLocked()
}

// OnControls subscribes to structural changes of the child collection.
func (g *Group) OnControls(fn func(snapshot []AnyControl)) Teardown {
	return g.structSubs.on(func(snapshot, _ []AnyControl) {
		fn(snapshot)
	})
}

func (g *Group) controlsLocked() []AnyControl {
	controls := make([]AnyControl, 0, len(g.names))
	for _, name := range g.names {
		controls = append(controls, g.children[name])
	}
	return controls
}

// refold rebuilds the group value from the children. The write is marked
// self-produced so the distributor does not echo it back to the children.
func (g *Group) refold() {
	if g.IsDone() {
		return
	}

	g.mu.Lock()
	folded := make(map[string]any, len(g.names))
	for _, name := range g.names {
		folded[name] = g.children[name].ValueAny()
	}
	g.mu.Unlock()

	g.guard.arm()
	defer g.guard.disarm()
	_ = g.SetValue(folded)
}

// distribute writes one entry of the group value to a child. The in-flight
// mark suppresses the fold that the child's change notification would
// otherwise trigger; it is released on every exit path.
func (g *Group) distribute(name string, child AnyControl, val any) error {
	g.inMu.Lock()
	g.inFlight[name] = true
	g.inMu.Unlock()
	defer func() {
		g.inMu.Lock()
		delete(g.inFlight, name)
		g.inMu.Unlock()
	}()
	return child.SetValueAny(val)
}
