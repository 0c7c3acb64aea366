package inaspects

// AnyAspectKey is the type-erased view of an aspect key, used for cache
// lookups and by custom aspect appliers. Keys are compared by reference
// identity, never by name.
type AnyAspectKey interface {
	// Name returns the key's name. For diagnostics only.
	Name() string

	resolveAny(c AnyControl) any
}

// AspectKey identifies an aspect of type A. A key is a process-wide
// constant: create it once with NewAspectKey and share the pointer.
// Two keys with the same name are still distinct aspects.
type AspectKey[A any] struct {
	name  string
	apply func(AnyControl) A
}

// NewAspectKey creates an aspect key. The apply function materializes the
// aspect on a control; it is invoked at most once per (control, key) pair
// and may return an absent (nil) aspect, which is cached all the same.
func NewAspectKey[A any](name string, apply func(AnyControl) A) *AspectKey[A] {
	return &AspectKey[A]{name: name, apply: apply}
}

// Name returns the key's name.
func (k *AspectKey[A]) Name() string {
	return k.name
}

func (k *AspectKey[A]) resolveAny(c AnyControl) any {
	return AspectOf(c, k)
}

// AspectApplier intercepts aspect application on a control. Converted
// controls install one to delegate aspects to their source; converters may
// supply their own to override specific keys.
type AspectApplier interface {
	// ApplyAspect returns the aspect instance for key on target, or
	// ok == false to decline and let the default application proceed.
	ApplyAspect(target AnyControl, key AnyAspectKey) (aspect any, ok bool)
}

// ConvertibleAspect is implemented by applied aspects that can serve a
// control converted from the one they were applied to. Returning the same
// instance shares the aspect across the conversion; declining makes the
// converted control apply the key from scratch.
type ConvertibleAspect interface {
	ConvertTo(target AnyControl) (aspect any, ok bool)
}

// AppliedAspects returns the names of the aspects applied to a control so
// far. For diagnostics only; the order is unspecified.
func AppliedAspects(c AnyControl) []string {
	cache := c.aspects()
	names := make([]string, 0, cache.size())
	cache.forEach(func(key AnyAspectKey, _ any) bool {
		names = append(names, key.Name())
		return true
	})
	return names
}

// AspectOf returns the aspect identified by key, materializing it on first
// use. The instance is cached for the lifetime of the control: repeated
// calls return the identical instance, so consumers may subscribe to it
// once and hold the subscription instead of re-querying.
func AspectOf[A any](c AnyControl, key *AspectKey[A]) A {
	cache := c.aspects()
	if cached, ok := cache.load(key); ok {
		return cached.(A)
	}

	var inst any
	applied := false
	if applier := c.applier(); applier != nil {
		inst, applied = applier.ApplyAspect(c, key)
	}
	if !applied {
		inst = key.apply(c)
	}

	return cache.store(key, inst).(A)
}
