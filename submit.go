package inaspects

import (
	"context"
	"sync"
)

// SubmitFlags is a snapshot of a control's submit state. Ready means the
// data aspect currently yields a defined value and no submission is in
// flight.
type SubmitFlags struct {
	Busy      bool
	Submitted bool
	Ready     bool
}

// SubmitKey identifies the submit aspect: single-flight submission of the
// control's data aspect value. Not shared across conversion; a converted
// control submits through its own data aspect.
var SubmitKey = NewAspectKey("submit", newSubmit)

// Submit drives submission of a control's data.
type Submit struct {
	ctrl AnyControl
	data *Data

	mu      sync.Mutex
	busy    bool
	done    bool
	subbed  bool
	cur     SubmitFlags
	changes emitter[SubmitFlags]
}

func newSubmit(c AnyControl) *Submit {
	s := &Submit{ctrl: c, data: AspectOf(c, DataKey)}
	s.cur = s.flags()

	tdData := s.data.OnUpdate(func(_, _ DataValue) {
		s.refresh(nil)
	})
	c.OnDone(func(any) {
		tdData()
		s.refresh(func() {
			s.done = true
		})
		s.changes.close()
	})
	return s
}

// Flags returns the current submit state.
func (s *Submit) Flags() SubmitFlags {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// OnUpdate subscribes to submit state changes. Only actual transitions are
// delivered.
func (s *Submit) OnUpdate(fn func(newFlags, oldFlags SubmitFlags)) Teardown {
	return s.changes.on(fn)
}

// Do submits the control's current data through fn. It fails without
// calling fn when the control is done, a submission is already in flight,
// or the data aspect yields no value. fn errors and the failure modes are
// all wrapped in a SubmitError. The busy flag is released on every exit
// path, fn panics included.
func (s *Submit) Do(ctx context.Context, fn func(ctx context.Context, data any) error) error {
	s.mu.Lock()
	if s.done {
		s.mu.Unlock()
		return &SubmitError{Control: ControlName(s.ctrl), Cause: ErrControlDone}
	}
	if s.busy {
		s.mu.Unlock()
		return &SubmitError{Control: ControlName(s.ctrl), Cause: ErrSubmitBusy}
	}
	val, ok := s.data.Get()
	if !ok {
		s.mu.Unlock()
		return &SubmitError{Control: ControlName(s.ctrl), Cause: ErrNoData}
	}
	s.busy = true
	s.mu.Unlock()
	s.refresh(nil)

	submitted := false
	defer s.refresh(func() {
		s.busy = false
		if submitted {
			s.subbed = true
		}
	})

	if err := fn(ctx, val); err != nil {
		return &SubmitError{Control: ControlName(s.ctrl), Cause: err}
	}
	submitted = true
	return nil
}

// flags recomputes the snapshot from the current state. Callers must not
// hold s.mu; the data aspect takes its own lock.
func (s *Submit) flags() SubmitFlags {
	_, ok := s.data.Get()
	s.mu.Lock()
	defer s.mu.Unlock()
	return SubmitFlags{
		Busy:      s.busy,
		Submitted: s.subbed,
		Ready:     ok && !s.busy && !s.done,
	}
}

func (s *Submit) refresh(apply func()) {
	_, ok := s.data.Get()
	s.mu.Lock()
	if apply != nil {
		apply()
	}
	old := s.cur
	s.cur = SubmitFlags{
		Busy:      s.busy,
		Submitted: s.subbed,
		Ready:     ok && !s.busy && !s.done,
	}
	cur := s.cur
	s.mu.Unlock()

	if cur != old {
		s.changes.emit(cur, old)
	}
}
