package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sweeney/pitboss/internal/monitor"
)

var testStart = time.Date(2026, 7, 4, 12, 0, 0, 0, time.UTC)

func TestDerive(t *testing.T) {
	conns := []monitor.ConnState{monitor.ConnError, monitor.ConnDisconnected, monitor.ConnProvisioning, monitor.ConnConnected}
	want := map[monitor.SensorState][]State{
		monitor.SensorReady: {FatalError, Disconnected, Provisioning, Ready},
		monitor.SensorError: {FatalError, SensorError, SensorError, SensorError},
	}
	for s, states := range want {
		for i, c := range conns {
			assert.Equal(t, states[i], Derive(c, s), "conn=%s sensor=%s", c, s)
		}
	}
}
