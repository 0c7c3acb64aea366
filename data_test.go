package inaspects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataFollowsValue(t *testing.T) {
	ctrl := NewControl("hello")
	data := AspectOf(ctrl, DataKey)

	val, ok := data.Get()
	require.True(t, ok)
	assert.Equal(t, "hello", val)

	require.NoError(t, ctrl.SetValue("world"))

	val, ok = data.Get()
	require.True(t, ok)
	assert.Equal(t, "world", val)
}

func TestDataSuppressedByModeOff(t *testing.T) {
	ctrl := NewControl("secret")
	data := AspectOf(ctrl, DataKey)
	mode := AspectOf(ctrl, ModeKey)

	mode.Set(ModeOff)

	_, ok := data.Get()
	assert.False(t, ok, "off mode suppresses data")

	mode.Set(ModeOn)

	val, ok := data.Get()
	require.True(t, ok, "data returns when the mode re-enables it")
	assert.Equal(t, "secret", val)
}

func TestDataAllowedInReadOnlyMode(t *testing.T) {
	ctrl := NewControl("ro value")
	AspectOf(ctrl, ModeKey).Set(ModeReadOnly)

	val, ok := AspectOf(ctrl, DataKey).Get()
	require.True(t, ok, "read-only mode still contributes data")
	assert.Equal(t, "ro value", val)
}

func TestDataUpdatesOnValueAndMode(t *testing.T) {
	ctrl := NewControl(1)
	data := AspectOf(ctrl, DataKey)
	mode := AspectOf(ctrl, ModeKey)

	var got []DataValue
	td := data.OnUpdate(func(newData, oldData DataValue) {
		got = append(got, newData)
	})
	defer td()

	require.NoError(t, ctrl.SetValue(2))
	mode.Set(ModeOff)
	mode.Set(ModeOn)

	require.Len(t, got, 3)
	assert.Equal(t, DataValue{Value: 2, Defined: true}, got[0])
	assert.Equal(t, DataValue{}, got[1])
	assert.Equal(t, DataValue{Value: 2, Defined: true}, got[2])
}

func TestGroupDataAssemblesChildren(t *testing.T) {
	form := NewGroup()
	form.SetControl("login", NewControl("alice"))
	form.SetControl("age", NewControl(30))

	val, ok := AspectOf(form, DataKey).Get()
	require.True(t, ok)
	assert.Equal(t, map[string]any{"login": "alice", "age": 30}, val)
}

func TestGroupDataOmitsSuppressedChild(t *testing.T) {
	form := NewGroup()
	login := NewControl("alice")
	hidden := NewControl("secret")
	form.SetControl("login", login)
	form.SetControl("hidden", hidden)

	AspectOf(hidden, ModeKey).Set(ModeOff)

	val, ok := AspectOf(form, DataKey).Get()
	require.True(t, ok)
	assert.Equal(t, map[string]any{"login": "alice"}, val,
		"a suppressed child must be absent, not nil")
}

func TestGroupDataSuppressedByOwnMode(t *testing.T) {
	form := NewGroup()
	form.SetControl("login", NewControl("alice"))

	AspectOf(form, ModeKey).Set(ModeOff)

	_, ok := AspectOf(form, DataKey).Get()
	assert.False(t, ok, "group off mode suppresses the whole subtree")
}

func TestGroupDataFollowsChildEdits(t *testing.T) {
	form := NewGroup()
	login := NewControl("a")
	form.SetControl("login", login)

	data := AspectOf(form, DataKey)

	recomputes := 0
	td := data.OnUpdate(func(newData, oldData DataValue) {
		recomputes++
	})
	defer td()

	require.NoError(t, login.SetValue("b"))

	val, ok := data.Get()
	require.True(t, ok)
	assert.Equal(t, map[string]any{"login": "b"}, val)
	assert.GreaterOrEqual(t, recomputes, 1)
}
