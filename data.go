package inaspects

import "sync"

// DataValue is a snapshot of a control's submittable representation.
// Defined is false while the control's input mode suppresses data.
type DataValue struct {
	Value   any
	Defined bool
}

// DataKey identifies the data aspect: the read-only derivation of a
// control's submittable value from its current value and input mode. On a
// group the value is assembled recursively from the children's data
// aspects, omitting suppressed children. Data is not shared across
// conversion because the converted control's value type differs.
//
// Assigned in init because newData resolves the key on child controls.
var DataKey *AspectKey[*Data]

func init() {
	DataKey = NewAspectKey("data", newData)
}

// Data derives a control's submittable representation.
type Data struct {
	mu      sync.Mutex
	cur     DataValue
	changes emitter[DataValue]
}

func newData(c AnyControl) *Data {
	d := &Data{}
	mode := AspectOf(c, ModeKey)

	if g, ok := c.(*Group); ok {
		recompute := func() {
			d.set(groupDataValue(g, mode.Get()))
		}
		release := foldChildren(g,
			func(child AnyControl) Teardown {
				childData := AspectOf(child, DataKey)
				return childData.OnUpdate(func(_, _ DataValue) {
					recompute()
				})
			},
			recompute,
		)
		tdMode := mode.OnUpdate(func(_, _ InputMode) {
			recompute()
		})
		c.OnDone(func(any) {
			release()
			tdMode()
			d.changes.close()
		})
		return d
	}

	d.cur = plainDataValue(c.ValueAny(), mode.Get())
	tdValue := c.OnUpdateAny(func(newVal, _ any) {
		d.set(plainDataValue(newVal, mode.Get()))
	})
	tdMode := mode.OnUpdate(func(newMode, _ InputMode) {
		d.set(plainDataValue(c.ValueAny(), newMode))
	})
	c.OnDone(func(any) {
		tdValue()
		tdMode()
		d.changes.close()
	})
	return d
}

// Get returns the current submittable value. ok is false while data is
// suppressed by the input mode.
func (d *Data) Get() (value any, ok bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cur.Value, d.cur.Defined
}

// OnUpdate subscribes to data changes: every value or mode change
// recomputes the data value.
func (d *Data) OnUpdate(fn func(newData, oldData DataValue)) Teardown {
	return d.changes.on(fn)
}

func (d *Data) set(val DataValue) {
	d.mu.Lock()
	old := d.cur
	// Values may be maps, so no equality dedup; only the
	// suppressed-to-suppressed transition is silent.
	if !val.Defined && !old.Defined {
		d.mu.Unlock()
		return
	}
	d.cur = val
	d.mu.Unlock()

	d.changes.emit(val, old)
}

func plainDataValue(val any, mode InputMode) DataValue {
	if !mode.AllowsData() {
		return DataValue{}
	}
	return DataValue{Value: val, Defined: true}
}

func groupDataValue(g *Group, mode InputMode) DataValue {
	if !mode.AllowsData() {
		return DataValue{}
	}
	data := make(map[string]any)
	for _, name := range g.Names() {
		child, ok := g.Get(name)
		if !ok {
			continue
		}
		if val, defined := AspectOf(child, DataKey).Get(); defined {
			data[name] = val
		}
	}
	return DataValue{Value: data, Defined: true}
}
