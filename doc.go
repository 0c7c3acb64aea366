// Package inaspects provides an aspect-extensible reactive model of user
// input for Go.
//
// # Overview
//
// The package organizes code around three core concepts:
//
//  1. Controls: revisioned value holders with subscriptions and a terminal
//     done state
//  2. Aspects: lazily built, identity-keyed views over a control (status,
//     focus, input mode, data, submit)
//  3. Containers: controls composed of child controls whose aspects
//     aggregate over the live child collection
//
// # Basic Usage
//
// Create a control and watch its value:
//
//	name := inaspects.NewControl("")
//
//	td := name.OnUpdate(func(newVal, oldVal string) {
//	    fmt.Printf("%q -> %q\n", oldVal, newVal)
//	})
//	defer td()
//
//	_ = name.SetValue("alice")
//
// Access aspects through their keys:
//
//	status := inaspects.AspectOf(name, inaspects.StatusKey)
//	status.MarkTouched(true)
//
//	mode := inaspects.AspectOf(name, inaspects.ModeKey)
//	mode.Set(inaspects.ModeReadOnly)
//
// Each aspect is built on first request and cached: repeated lookups with
// the same key return the same instance for the control's whole lifetime.
//
// # Conversion
//
// Convert derives a control with a different value type. Writes propagate
// in both directions without feeding back:
//
//	cents := inaspects.NewControl(1250)
//
//	dollars, err := inaspects.Convert(cents, inaspects.ConvertWith(
//	    func(c int) float64 { return float64(c) / 100 },
//	    func(d float64) int { return int(d * 100) },
//	))
//
//	_ = dollars.SetValue(13.5) // cents becomes 1350
//	_ = cents.SetValue(1400)   // dollars becomes 14.0
//
// A Converter with fallible Set and Get reports failed edits to the writer
// as a ConversionError.
//
// Status, focus and input mode aspects are shared across conversion: both
// ends observe the same instances. The data aspect is not; each end derives
// its own.
//
// # Containers
//
// A Group folds named children into a map value and distributes external
// map writes back to the children:
//
//	form := inaspects.NewGroup()
//	form.SetControl("login", login)
//	form.SetControl("password", password)
//
//	flags := inaspects.AspectOf(form, inaspects.StatusKey).Flags()
//	// flags OR-fold the children: touched once any child is touched
//
// Children added or removed later are picked up by every aggregating
// aspect; a child that terminates is removed from its group.
//
// # Input Mode and Data
//
// The mode aspect gates what a control contributes on submit:
//
//	inaspects.AspectOf(section, inaspects.ModeKey).Set(inaspects.ModeOff)
//
//	data := inaspects.AspectOf(form, inaspects.DataKey)
//	val, ok := data.Get() // section's subtree is absent from val
//
// # Submission
//
// The submit aspect runs single-flight submissions of the data value:
//
//	submit := inaspects.AspectOf(form, inaspects.SubmitKey)
//	err := submit.Do(ctx, func(ctx context.Context, data any) error {
//	    return client.Send(ctx, data)
//	})
//
// # Lifecycle
//
// Done terminates a control: subscriptions fire teardown callbacks, aspect
// streams close, and later writes fail with ErrControlDone. A group's
// termination propagates to its children.
//
//	form.Done(nil)
//
// # Observers
//
// Observers provide cross-cutting hooks over a control or a whole tree:
//
//	type AuditObserver struct {
//	    inaspects.BaseObserver
//	}
//
//	func (o *AuditObserver) OnValue(c inaspects.AnyControl, newVal, oldVal any) {
//	    log.Printf("%s: %v", inaspects.ControlName(c), newVal)
//	}
//
//	td := inaspects.ObserveTree(form, &AuditObserver{
//	    BaseObserver: inaspects.NewBaseObserver("audit"),
//	})
//
// # Thread Safety
//
// All operations are thread-safe:
//   - Controls can be written from multiple goroutines
//   - Aspect lookups can race; the first built instance wins
//   - Subscriptions are delivered outside internal locks, so callbacks may
//     write to other controls
package inaspects
