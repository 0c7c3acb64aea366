package inaspects

// ElementBinding connects a control to a concrete UI element. The core does
// not know how the binding is wired to any toolkit; it only consumes the
// focus, blur and edit event sources. All methods must be safe to call from
// the control's notification path.
type ElementBinding interface {
	// Element returns the bound element itself.
	Element() any
	// OnFocus subscribes to the element gaining focus.
	OnFocus(fn func()) Teardown
	// OnBlur subscribes to the element losing focus.
	OnBlur(fn func()) Teardown
	// OnEdited subscribes to user edits of the element.
	OnEdited(fn func()) Teardown
}
