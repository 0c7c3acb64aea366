package inaspects

// Container is a control composed of child controls. The child collection
// is externally owned and mutable; observers receive a read-only snapshot
// on every structural change.
type Container interface {
	AnyControl

	// Controls returns a snapshot of the current child controls.
	Controls() []AnyControl
	// OnControls subscribes to structural changes of the child collection.
	OnControls(fn func(snapshot []AnyControl)) Teardown
}

// foldChildren keeps a per-child subscription set in step with a
// container's structure: whenever the child collection changes, the
// previous subscriptions are torn down and each current child is
// re-subscribed, so removed children cannot leak state into the fold.
// recompute runs after every rebuild and is the place to re-aggregate.
func foldChildren(c Container, subscribe func(child AnyControl) Teardown, recompute func()) Teardown {
	var subs teardownSet

	rebuild := func(children []AnyControl) {
		subs.release()
		for _, child := range children {
			subs.add(subscribe(child))
		}
		recompute()
	}

	tdControls := c.OnControls(rebuild)
	rebuild(c.Controls())

	return func() {
		tdControls()
		subs.release()
	}
}
