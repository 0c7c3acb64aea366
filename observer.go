package inaspects

import "sync"

// ControlObserver provides hooks into a control's lifecycle. Implementations
// usually embed BaseObserver and override the hooks they care about.
type ControlObserver interface {
	// Name returns the observer's name
	Name() string

	// OnValue is called after every accepted value change
	OnValue(c AnyControl, newVal, oldVal any)

	// OnStatus is called on every status flag transition
	OnStatus(c AnyControl, newFlags, oldFlags StatusFlags)

	// OnMode is called on every input mode change
	OnMode(c AnyControl, newMode, oldMode InputMode)

	// OnStructure is called when a container's child collection changes
	OnStructure(c Container, snapshot []AnyControl)

	// OnDone is called once when the control terminates
	OnDone(c AnyControl, reason any)
}

// BaseObserver provides default no-op implementations for ControlObserver
// methods.
type BaseObserver struct {
	name string
}

// NewBaseObserver creates a new base observer with the given name
func NewBaseObserver(name string) BaseObserver {
	return BaseObserver{name: name}
}

func (o *BaseObserver) Name() string {
	return o.name
}

func (o *BaseObserver) OnValue(c AnyControl, newVal, oldVal any) {
}

func (o *BaseObserver) OnStatus(c AnyControl, newFlags, oldFlags StatusFlags) {
}

func (o *BaseObserver) OnMode(c AnyControl, newMode, oldMode InputMode) {
}

func (o *BaseObserver) OnStructure(c Container, snapshot []AnyControl) {
}

func (o *BaseObserver) OnDone(c AnyControl, reason any) {
}

// Observe attaches an observer to a single control. The returned teardown
// detaches it; termination of the control detaches it as well.
func Observe(c AnyControl, obs ControlObserver) Teardown {
	var subs teardownSet

	subs.add(c.OnUpdateAny(func(newVal, oldVal any) {
		obs.OnValue(c, newVal, oldVal)
	}))
	subs.add(AspectOf(c, StatusKey).OnUpdate(func(newFlags, oldFlags StatusFlags) {
		obs.OnStatus(c, newFlags, oldFlags)
	}))
	subs.add(AspectOf(c, ModeKey).OnUpdate(func(newMode, oldMode InputMode) {
		obs.OnMode(c, newMode, oldMode)
	}))
	if cc, ok := c.(Container); ok {
		subs.add(cc.OnControls(func(snapshot []AnyControl) {
			obs.OnStructure(cc, snapshot)
		}))
	}
	subs.add(c.OnDone(func(reason any) {
		obs.OnDone(c, reason)
	}))

	return subs.release
}

// ObserveTree attaches an observer to a control and every control reachable
// through containers under it, following structural changes: children added
// later are observed, removed children are released.
func ObserveTree(root AnyControl, obs ControlObserver) Teardown {
	td := Observe(root, obs)

	cc, ok := root.(Container)
	if !ok {
		return td
	}

	var mu sync.Mutex
	childTds := make(map[AnyControl]Teardown)
	tdFold := cc.OnControls(func(snapshot []AnyControl) {
		mu.Lock()
		defer mu.Unlock()
		resyncObserved(childTds, snapshot, obs)
	})
	mu.Lock()
	resyncObserved(childTds, cc.Controls(), obs)
	mu.Unlock()

	return func() {
		tdFold()
		mu.Lock()
		defer mu.Unlock()
		for child, childTd := range childTds {
			childTd()
			delete(childTds, child)
		}
		td()
	}
}

func resyncObserved(observed map[AnyControl]Teardown, snapshot []AnyControl, obs ControlObserver) {
	current := make(map[AnyControl]bool, len(snapshot))
	for _, child := range snapshot {
		current[child] = true
		if _, ok := observed[child]; !ok {
			observed[child] = ObserveTree(child, obs)
		}
	}
	for child, td := range observed {
		if !current[child] {
			td()
			delete(observed, child)
		}
	}
}
