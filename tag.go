package inaspects

// Tag is a type-safe key for control metadata. Unlike aspects, tags carry
// plain values and no behavior.
type Tag[T any] struct {
	key string
}

// NewTag creates a new tag with the given key
func NewTag[T any](key string) Tag[T] {
	return Tag[T]{key: key}
}

// Key returns the tag's key (for debugging)
func (t Tag[T]) Key() string {
	return t.key
}

// Get retrieves the tag value from a control
func (t Tag[T]) Get(c AnyControl) (T, bool) {
	val, ok := c.GetTag(t)
	if !ok {
		var zero T
		return zero, false
	}
	return val.(T), true
}

// MustGet retrieves the tag value or panics if not found
func (t Tag[T]) MustGet(c AnyControl) T {
	val, ok := t.Get(c)
	if !ok {
		panic("tag " + t.key + " not found")
	}
	return val
}

// GetOrDefault retrieves the tag value or returns a default
func (t Tag[T]) GetOrDefault(c AnyControl, defaultVal T) T {
	if val, ok := t.Get(c); ok {
		return val
	}
	return defaultVal
}

// Set stores the tag value on a control
func (t Tag[T]) Set(c AnyControl, val T) {
	c.SetTag(t, val)
}

// NameTag labels a control for logging and tree diagnostics.
var NameTag = NewTag[string]("control.name")

// WithTag returns an option that sets a tag on a control
func WithTag[T any](tag Tag[T], val T) ControlOption {
	return func(c AnyControl) {
		tag.Set(c, val)
	}
}

// ControlName returns the control's name tag, falling back to its ID.
func ControlName(c AnyControl) string {
	return NameTag.GetOrDefault(c, c.ID())
}
