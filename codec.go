package inaspects

import (
	"github.com/vmihailenco/msgpack/v5"
)

// MarshalData encodes a control's current data aspect value into a compact
// binary payload suitable for submission over a wire. It fails with
// ErrNoData when the control's input mode suppresses data.
func MarshalData(c AnyControl) ([]byte, error) {
	val, ok := AspectOf(c, DataKey).Get()
	if !ok {
		return nil, ErrNoData
	}
	return msgpack.Marshal(val)
}

// UnmarshalData decodes a payload produced by MarshalData and writes the
// result as the control's value. Map payloads decode with string keys so a
// group can distribute the entries to its children.
func UnmarshalData(c AnyControl, payload []byte) error {
	var val any
	if err := msgpack.Unmarshal(payload, &val); err != nil {
		return err
	}
	return c.SetValueAny(val)
}
