package monitor

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/pitboss/internal/sensor"
	"github.com/sweeney/pitboss/internal/tick"
)

func at(ms tick.Millis) func() tick.Millis {
	return func() tick.Millis { return ms }
}

func TestSensorSetupProbe(t *testing.T) {
	d := sensor.NewFakeDriver(sensor.OK(21, 104))
	s := NewSensor(d, 2000, 0)
	entered := 0
	s.OnEnter(SensorReady, func(_, _ SensorState) { entered++ })

	require.NoError(t, s.Setup(context.Background(), at(0)))
	assert.Equal(t, SensorReady, s.State())
	assert.Equal(t, 1, entered)
	assert.Equal(t, sensor.Reading{ColdJunctionC: 21, HotJunctionC: 104}, s.Reading())
	assert.Equal(t, 1, s.Polls())
}

func TestSensorSetupProbeFailure(t *testing.T) {
	d := sensor.NewFakeDriver(sensor.Fail(sensor.ErrOpenCircuit))
	s := NewSensor(d, 2000, 0)
	entered := 0
	s.OnEnter(SensorError, func(_, _ SensorState) { entered++ })

	require.NoError(t, s.Setup(context.Background(), at(0)))
	assert.Equal(t, SensorError, s.State())
	assert.Equal(t, 1, entered, "boot probe failure is announced")
	assert.ErrorIs(t, s.Err(), sensor.ErrOpenCircuit)
}

func TestSensorSetupHonoursContext(t *testing.T) {
	d := sensor.NewFakeDriver(sensor.OK(21, 104))
	s := NewSensor(d, 2000, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Setup(ctx, at(0)), context.Canceled)
	assert.Equal(t, 0, d.Reads)
}

func TestSensorRateLimited(t *testing.T) {
	d := sensor.NewFakeDriver(sensor.OK(21, 104))
	s := NewSensor(d, 2000, 0)
	require.NoError(t, s.Setup(context.Background(), at(100)))

	assert.False(t, s.Tick(100))
	assert.False(t, s.Tick(2099))
	assert.True(t, s.Tick(2100))
	assert.False(t, s.Tick(4000))
	assert.True(t, s.Tick(4100))
	assert.Equal(t, 3, d.Reads)
}

func TestSensorErrorIffLastPollFailed(t *testing.T) {
	outcomes := []sensor.Result{
		sensor.OK(20, 100),
		sensor.Fail(sensor.ErrOpenCircuit),
		sensor.Fail(sensor.ErrShortGND),
		sensor.OK(20, 110),
		sensor.OK(20, 111),
		sensor.Fail(sensor.ErrNoDevice),
		sensor.OK(21, 120),
	}
	d := sensor.NewFakeDriver(sensor.OK(20, 99))
	s := NewSensor(d, 1000, 0)
	require.NoError(t, s.Setup(context.Background(), at(0)))

	lastGood := sensor.Reading{ColdJunctionC: 20, HotJunctionC: 99}
	for i, o := range outcomes {
		d.Push(o)
		require.True(t, s.Tick(tick.Millis((i+1)*1000)))

		if o.Err != nil {
			assert.Equal(t, SensorError, s.State(), "poll %d", i)
			assert.Equal(t, lastGood, s.Reading(), "poll %d keeps last good reading", i)
		} else {
			lastGood = o.Reading
			assert.Equal(t, SensorReady, s.State(), "poll %d", i)
			assert.Equal(t, o.Reading, s.Reading(), "poll %d", i)
		}
	}
}

func TestSensorTransitionsOnlyOnEdges(t *testing.T) {
	d := sensor.NewFakeDriver(sensor.OK(20, 100))
	s := NewSensor(d, 1000, 0)
	require.NoError(t, s.Setup(context.Background(), at(0)))

	var seen []SensorState
	s.OnEnter(SensorReady, func(_, to SensorState) { seen = append(seen, to) })
	s.OnEnter(SensorError, func(_, to SensorState) { seen = append(seen, to) })

	script := []sensor.Result{
		sensor.OK(20, 100), sensor.Fail(sensor.ErrOpenCircuit), sensor.Fail(sensor.ErrOpenCircuit),
		sensor.Fail(sensor.ErrOpenCircuit), sensor.OK(20, 100), sensor.OK(20, 100),
	}
	for i, r := range script {
		d.Push(r)
		s.Tick(tick.Millis((i + 1) * 1000))
	}
	assert.Equal(t, []SensorState{SensorError, SensorReady}, seen)
	assert.Equal(t, SensorError, s.Previous())
}

func TestSensorPollAcrossWrap(t *testing.T) {
	d := sensor.NewFakeDriver(sensor.OK(20, 100))
	s := NewSensor(d, 2000, 0)
	start := tick.Millis(0xFFFFFF00)
	require.NoError(t, s.Setup(context.Background(), at(start)))

	assert.False(t, s.Tick(start.Add(1999)))
	assert.True(t, s.Tick(start.Add(2000)))
}
