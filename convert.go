package inaspects

import "sync"

// Converter maps values between a source control and a control converted
// from it. Set and Get need not be exact inverses. A converter may
// additionally implement AspectApplier to intercept aspect application on
// the converted control before the default source-delegation chain runs.
type Converter[From, To any] interface {
	// Set converts a source value to the converted control's type.
	Set(from From) (To, error)
	// Get converts a converted value back to the source type.
	Get(to To) (From, error)
}

type funcConverter[From, To any] struct {
	set func(From) To
	get func(To) From
}

func (fc funcConverter[From, To]) Set(from From) (To, error) {
	return fc.set(from), nil
}

func (fc funcConverter[From, To]) Get(to To) (From, error) {
	return fc.get(to), nil
}

// ConvertWith adapts a pair of pure functions to a Converter.
func ConvertWith[From, To any](set func(From) To, get func(To) From) Converter[From, To] {
	return funcConverter[From, To]{set: set, get: get}
}

// convertSync is the state machine guarding a bidirectional conversion
// against feedback. A forward write arms the guard before writing the
// converted control, so the converted control's own subscription records
// that revision as self-produced and skips it. A backward write raises the
// in-flight flag around the source write, so the forward subscription skips
// the echo of its own edit. Each physical edit is thus visible to the
// opposite side exactly once.
type convertSync struct {
	mu       sync.Mutex
	expect   bool
	selfRev  uint64
	inFlight bool
}

// arm marks the next converted-control revision as self-produced.
func (s *convertSync) arm() {
	s.mu.Lock()
	s.expect = true
	s.mu.Unlock()
}

// disarm cancels an armed expectation that never observed a write.
func (s *convertSync) disarm() {
	s.mu.Lock()
	s.expect = false
	s.mu.Unlock()
}

// observeSelf reports whether rev was produced by this conversion's own
// forward propagation.
func (s *convertSync) observeSelf(rev uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.expect {
		s.selfRev = rev
		s.expect = false
		return true
	}
	return rev == s.selfRev
}

func (s *convertSync) raiseInFlight() {
	s.mu.Lock()
	s.inFlight = true
	s.mu.Unlock()
}

func (s *convertSync) clearInFlight() {
	s.mu.Lock()
	s.inFlight = false
	s.mu.Unlock()
}

func (s *convertSync) isInFlight() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight
}

// convertApplier resolves aspects on a converted control: a custom resolver
// (if the converter supplies one) runs first, then the same key is applied
// to the source and the applied aspect is asked to serve the converted
// control. Declining both falls back to plain application on the converted
// control itself.
type convertApplier struct {
	source   AnyControl
	resolver AspectApplier
}

func (a *convertApplier) ApplyAspect(target AnyControl, key AnyAspectKey) (any, bool) {
	if a.resolver != nil {
		if aspect, ok := a.resolver.ApplyAspect(target, key); ok {
			return aspect, true
		}
	}

	srcAspect := key.resolveAny(a.source)
	if conv, ok := srcAspect.(ConvertibleAspect); ok {
		if aspect, ok := conv.ConvertTo(target); ok {
			return aspect, true
		}
	}

	return nil, false
}

// Convert derives a control of type To from a source control of type From.
// Edits propagate in both directions: a source write is converted forward
// into the derived control, an external write to the derived control is
// converted backward and written to the source. The conversion guard makes
// each edit visible to the opposite side exactly once, so Set and Get that
// are not exact inverses cannot feed back.
//
// Closing the source closes the converted control with the same reason.
// Closing the converted control only detaches it from the source.
func Convert[From, To any](src *Control[From], conv Converter[From, To], opts ...ControlOption) (*Control[To], error) {
	initial, err := conv.Set(src.Value())
	if err != nil {
		return nil, &ConversionError{
			Control:   ControlName(src),
			Direction: ConvertForward,
			Cause:     err,
		}
	}

	dst := NewControl(initial, opts...)

	var resolver AspectApplier
	if ap, ok := conv.(AspectApplier); ok {
		resolver = ap
	}
	dst.customApplier = &convertApplier{source: src, resolver: resolver}

	guard := &convertSync{}

	// Forward: source edits flow into the converted control, except the
	// echo of this conversion's own backward write.
	tdForward := src.onUpdateRev(func(newVal, _ From, _ uint64) error {
		if guard.isInFlight() {
			return nil
		}
		converted, err := conv.Set(newVal)
		if err != nil {
			return &ConversionError{
				Control:   ControlName(dst),
				Direction: ConvertForward,
				Cause:     err,
			}
		}
		guard.arm()
		defer guard.disarm()
		return dst.SetValue(converted)
	})

	// Backward: external edits of the converted control flow back to the
	// source. The in-flight flag is released on every exit path, so a
	// failing Get cannot block subsequent edits.
	tdBackward := dst.onUpdateRev(func(newVal, _ To, rev uint64) error {
		if guard.observeSelf(rev) {
			return nil
		}
		back, err := conv.Get(newVal)
		if err != nil {
			return &ConversionError{
				Control:   ControlName(dst),
				Direction: ConvertBackward,
				Cause:     err,
			}
		}
		guard.raiseInFlight()
		defer guard.clearInFlight()
		return src.SetValue(back)
	})

	tdDone := src.OnDone(func(reason any) {
		dst.Done(reason)
	})

	dst.OnDone(func(any) {
		tdForward()
		tdBackward()
		tdDone()
	})

	return dst, nil
}
