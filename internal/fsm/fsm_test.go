package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type light int

const (
	red light = iota
	amber
	green
)

func TestNewRestsInInitialState(t *testing.T) {
	fired := false
	m := New(amber)
	m.OnEnter(amber, func(_, _ light) { fired = true })

	assert.Equal(t, amber, m.Current())
	assert.Equal(t, amber, m.Previous())
	assert.False(t, fired, "registering must not fire for the resting state")
}

func TestTransitionUpdatesPrevious(t *testing.T) {
	m := New(red)

	m.TransitionTo(green)
	assert.Equal(t, green, m.Current())
	assert.Equal(t, red, m.Previous())

	m.TransitionTo(amber)
	assert.Equal(t, amber, m.Current())
	assert.Equal(t, green, m.Previous(), "previous reflects only the last transition")
}

func TestListenersFireInRegistrationOrder(t *testing.T) {
	m := New(red)
	var order []string
	m.OnEnter(green, func(_, _ light) { order = append(order, "first") })
	m.OnEnter(green, func(_, _ light) { order = append(order, "second") })
	m.OnEnter(amber, func(_, _ light) { order = append(order, "amber") })
	m.OnEnter(green, func(_, _ light) { order = append(order, "third") })

	m.TransitionTo(green)
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestListenerSeesFromAndTo(t *testing.T) {
	m := New(red)
	var gotFrom, gotTo light
	m.OnEnter(green, func(from, to light) {
		gotFrom, gotTo = from, to
		assert.Equal(t, green, m.Current(), "state is set before dispatch")
	})

	m.TransitionTo(green)
	assert.Equal(t, red, gotFrom)
	assert.Equal(t, green, gotTo)
}

func TestReentryFiresAgain(t *testing.T) {
	m := New(red)
	count := 0
	m.OnEnter(green, func(_, _ light) { count++ })

	m.TransitionTo(green)
	m.TransitionTo(green)
	m.TransitionTo(green)

	assert.Equal(t, 3, count, "same-state re-entry is not deduplicated")
	assert.Equal(t, green, m.Previous())
	assert.False(t, m.Changed())
}

func TestChanged(t *testing.T) {
	m := New(red)
	m.TransitionTo(green)
	assert.True(t, m.Changed())
	m.TransitionTo(green)
	assert.False(t, m.Changed())
}

func TestRemoveKeepsOrder(t *testing.T) {
	m := New(red)
	var order []int
	m.OnEnter(green, func(_, _ light) { order = append(order, 0) })
	h := m.OnEnter(green, func(_, _ light) { order = append(order, 1) })
	m.OnEnter(green, func(_, _ light) { order = append(order, 2) })

	require.Equal(t, Handle[light]{State: green, Index: 1}, h)
	m.Remove(h)
	m.Remove(Handle[light]{State: amber, Index: 7})

	m.TransitionTo(green)
	assert.Equal(t, []int{0, 2}, order)
}

func TestPanickingListenerAbortsDispatch(t *testing.T) {
	m := New(red)
	secondRan := false
	m.OnEnter(green, func(_, _ light) { panic("listener defect") })
	m.OnEnter(green, func(_, _ light) { secondRan = true })

	assert.Panics(t, func() { m.TransitionTo(green) })
	assert.False(t, secondRan)
	assert.Equal(t, green, m.Current())
}
