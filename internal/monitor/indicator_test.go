package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndicatorFollowsCalls(t *testing.T) {
	i := NewIndicator()
	assert.Equal(t, IndicatorWaiting, i.State())

	var seen []IndicatorState
	for _, s := range []IndicatorState{IndicatorWaiting, IndicatorError, IndicatorReady} {
		i.OnEnter(s, func(_, to IndicatorState) { seen = append(seen, to) })
	}

	i.Ready()
	i.Error()
	i.Waiting()
	i.Waiting()
	assert.Equal(t, []IndicatorState{IndicatorReady, IndicatorError, IndicatorWaiting, IndicatorWaiting}, seen)
}
