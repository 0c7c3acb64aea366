package inaspects

import "sync"

// StatusFlags is an immutable snapshot of a control's interaction status.
// Invariants: Edited implies Touched, HasFocus implies Touched.
type StatusFlags struct {
	HasFocus bool
	Touched  bool
	Edited   bool
}

func orFlags(a, b StatusFlags) StatusFlags {
	flags := StatusFlags{
		HasFocus: a.HasFocus || b.HasFocus,
		Touched:  a.Touched || b.Touched,
		Edited:   a.Edited || b.Edited,
	}
	// Aggregation never lowers touched below focus or edit.
	if flags.HasFocus || flags.Edited {
		flags.Touched = true
	}
	return flags
}

// StatusKey identifies the status aspect. On a container control the flags
// are an OR-fold over the children's status aspects, re-subscribed on every
// structural change; on any other control they derive from the element
// binding's focus and edit signals plus the control's own value changes.
//
// Assigned in init because newStatus resolves the key on child controls.
var StatusKey *AspectKey[*Status]

func init() {
	StatusKey = NewAspectKey("status", newStatus)
}

// Status aggregates a control's {hasFocus, touched, edited} flags.
type Status struct {
	mu       sync.Mutex
	own      StatusFlags // explicit marks and element-derived flags
	children StatusFlags // container fold result, zero otherwise
	cur      StatusFlags
	changes  emitter[StatusFlags]
}

func newStatus(c AnyControl) *Status {
	s := &Status{}

	if cc, ok := c.(Container); ok {
		release := foldChildren(cc,
			func(child AnyControl) Teardown {
				childStatus := AspectOf(child, StatusKey)
				return childStatus.OnUpdate(func(_, _ StatusFlags) {
					s.refold(cc)
				})
			},
			func() {
				s.refold(cc)
			},
		)
		c.OnDone(func(any) {
			release()
			s.changes.close()
		})
		return s
	}

	var subs teardownSet
	if focus := AspectOf(c, FocusKey); focus != nil {
		if focus.Has() {
			s.own.HasFocus = true
			s.own.Touched = true
			s.cur = s.own
		}
		subs.add(focus.OnUpdate(func(focused, _ bool) {
			s.setFocus(focused)
		}))
	}
	if b := c.binding(); b != nil {
		subs.add(b.OnEdited(func() {
			s.edit()
		}))
	}
	subs.add(c.OnUpdateAny(func(_, _ any) {
		s.edit()
	}))
	c.OnDone(func(any) {
		subs.release()
		s.changes.close()
	})
	return s
}

// Flags returns the current status snapshot.
func (s *Status) Flags() StatusFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// OnUpdate subscribes to status changes. Only actual flag transitions are
// delivered.
func (s *Status) OnUpdate(fn func(newFlags, oldFlags StatusFlags)) Teardown {
	return s.changes.on(fn)
}

// MarkTouched sets or resets the touched flag. Resetting while the control
// still has focus downgrades touched to the focus state instead of clearing
// it, and always clears edited. Both directions are idempotent.
func (s *Status) MarkTouched(touched bool) {
	s.mutate(func() {
		if touched {
			s.own.Touched = true
			return
		}
		if s.own.Touched {
			s.own.Touched = s.own.HasFocus || s.children.HasFocus
			s.own.Edited = false
		}
	})
}

// MarkEdited sets or resets the edited flag. Setting it marks the control
// touched as well; resetting leaves touched unchanged. Both directions are
// idempotent.
func (s *Status) MarkEdited(edited bool) {
	s.mutate(func() {
		if edited {
			s.own.Edited = true
			s.own.Touched = true
			return
		}
		s.own.Edited = false
	})
}

// ConvertTo shares this status aspect with a control converted from its
// owner.
func (s *Status) ConvertTo(AnyControl) (any, bool) {
	return s, true
}

func (s *Status) setFocus(focused bool) {
	s.mutate(func() {
		s.own.HasFocus = focused
		if focused {
			s.own.Touched = true
		}
	})
}

func (s *Status) edit() {
	s.mutate(func() {
		s.own.Edited = true
		s.own.Touched = true
	})
}

func (s *Status) refold(cc Container) {
	var agg StatusFlags
	for _, child := range cc.Controls() {
		agg = orFlags(agg, AspectOf(child, StatusKey).Flags())
	}
	s.mutate(func() {
		s.children = agg
	})
}

func (s *Status) mutate(apply func()) {
	s.mu.Lock()
	old := s.cur
	apply()
	s.cur = orFlags(s.own, s.children)
	cur := s.cur
	s.mu.Unlock()

	if cur != old {
		s.changes.emit(cur, old)
	}
}
