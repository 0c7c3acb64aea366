package inaspects

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitDeliversData(t *testing.T) {
	ctrl := NewControl("payload")
	submit := AspectOf(ctrl, SubmitKey)

	var got any
	err := submit.Do(context.Background(), func(ctx context.Context, data any) error {
		got = data
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, "payload", got)

	flags := submit.Flags()
	assert.True(t, flags.Submitted)
	assert.False(t, flags.Busy)
	assert.True(t, flags.Ready)
}

func TestSubmitWrapsCallbackError(t *testing.T) {
	ctrl := NewControl("payload")
	submit := AspectOf(ctrl, SubmitKey)

	backend := errors.New("backend down")
	err := submit.Do(context.Background(), func(ctx context.Context, data any) error {
		return backend
	})

	var subErr *SubmitError
	require.ErrorAs(t, err, &subErr)
	assert.ErrorIs(t, err, backend)
	assert.False(t, submit.Flags().Submitted, "a failed submission does not count as submitted")
	assert.True(t, submit.Flags().Ready, "busy must be released after a failure")
}

func TestSubmitRejectsOverlap(t *testing.T) {
	ctrl := NewControl("payload")
	submit := AspectOf(ctrl, SubmitKey)

	var inner error
	err := submit.Do(context.Background(), func(ctx context.Context, data any) error {
		inner = submit.Do(ctx, func(context.Context, any) error { return nil })
		return nil
	})

	require.NoError(t, err)
	assert.ErrorIs(t, inner, ErrSubmitBusy)
}

func TestSubmitRejectsSuppressedData(t *testing.T) {
	ctrl := NewControl("payload")
	AspectOf(ctrl, ModeKey).Set(ModeOff)

	submit := AspectOf(ctrl, SubmitKey)

	called := false
	err := submit.Do(context.Background(), func(ctx context.Context, data any) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, ErrNoData)
	assert.False(t, called, "the callback must not run without data")
	assert.False(t, submit.Flags().Ready)
}

func TestSubmitRejectsDoneControl(t *testing.T) {
	ctrl := NewControl("payload")
	submit := AspectOf(ctrl, SubmitKey)
	ctrl.Done(nil)

	err := submit.Do(context.Background(), func(context.Context, any) error { return nil })

	assert.ErrorIs(t, err, ErrControlDone)
}

func TestSubmitFlagsFollowBusyCycle(t *testing.T) {
	ctrl := NewControl("payload")
	submit := AspectOf(ctrl, SubmitKey)

	var transitions []SubmitFlags
	td := submit.OnUpdate(func(newFlags, oldFlags SubmitFlags) {
		transitions = append(transitions, newFlags)
	})
	defer td()

	require.NoError(t, submit.Do(context.Background(), func(ctx context.Context, data any) error {
		assert.True(t, submit.Flags().Busy)
		return nil
	}))

	require.Len(t, transitions, 2)
	assert.Equal(t, SubmitFlags{Busy: true}, transitions[0])
	assert.Equal(t, SubmitFlags{Submitted: true, Ready: true}, transitions[1])
}

func TestSubmitReadinessFollowsMode(t *testing.T) {
	ctrl := NewControl("payload")
	submit := AspectOf(ctrl, SubmitKey)
	mode := AspectOf(ctrl, ModeKey)

	require.True(t, submit.Flags().Ready)

	mode.Set(ModeOff)
	assert.False(t, submit.Flags().Ready)

	mode.Set(ModeOn)
	assert.True(t, submit.Flags().Ready)
}

func TestSubmitErrorNamesControl(t *testing.T) {
	ctrl := NewControl("payload", WithName("profile"))
	submit := AspectOf(ctrl, SubmitKey)
	ctrl.Done(nil)

	err := submit.Do(context.Background(), func(context.Context, any) error { return nil })

	var subErr *SubmitError
	require.ErrorAs(t, err, &subErr)
	assert.Equal(t, "profile", subErr.Control)
	assert.Contains(t, err.Error(), "profile")
}

func TestSubmitGroupData(t *testing.T) {
	form := NewGroup()
	form.SetControl("login", NewControl("alice"))
	hidden := NewControl("secret")
	form.SetControl("hidden", hidden)
	AspectOf(hidden, ModeKey).Set(ModeOff)

	var got any
	err := AspectOf(form, SubmitKey).Do(context.Background(), func(ctx context.Context, data any) error {
		got = data
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]any{"login": "alice"}, got)
}
