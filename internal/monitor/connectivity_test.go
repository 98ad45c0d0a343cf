package monitor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sweeney/pitboss/internal/network"
	"github.com/sweeney/pitboss/internal/tick"
)

func recordConn(c *Connectivity) *[]ConnState {
	var seen []ConnState
	for _, s := range []ConnState{ConnError, ConnDisconnected, ConnProvisioning, ConnConnected} {
		c.OnEnter(s, func(_, to ConnState) { seen = append(seen, to) })
	}
	return &seen
}

func TestConnectivitySetup(t *testing.T) {
	tests := []struct {
		name  string
		saved bool
		err   error
		want  ConnState
	}{
		{"saved credentials", true, nil, ConnDisconnected},
		{"no credentials", false, nil, ConnProvisioning},
		{"init failure", true, errors.New("radio dead"), ConnError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := network.NewFakeProvider()
			p.Saved = tt.saved
			p.BeginErr = tt.err
			c := NewConnectivity(p)
			seen := recordConn(c)

			c.Setup()
			assert.Equal(t, tt.want, c.State())
			assert.Equal(t, []ConnState{tt.want}, *seen)
		})
	}
}

func TestConnectedOncePerRisingEdge(t *testing.T) {
	p := network.NewFakeProvider()
	c := NewConnectivity(p)
	c.Setup()
	connects := 0
	c.OnEnter(ConnConnected, func(_, _ ConnState) { connects++ })

	flags := []bool{false, true, true, true, false, false, true, true, false, true}
	wantEdges := 0
	prev := false
	for i, f := range flags {
		if f && !prev {
			wantEdges++
		}
		prev = f
		p.Status.Connected = f
		c.Tick(tick.Millis(i * 10))
	}

	assert.Equal(t, wantEdges, connects)
	assert.Equal(t, 3, connects)
	assert.Equal(t, ConnConnected, c.State())
}

func TestDisconnectedOnFallingEdge(t *testing.T) {
	p := network.NewFakeProvider()
	c := NewConnectivity(p)
	c.Setup()
	seen := recordConn(c)

	p.Connect(network.Info{Address: "10.0.0.2", SSID: "Pit", SignalQuality: 70})
	c.Tick(0)
	c.Tick(10)
	p.Disconnect()
	c.Tick(20)
	c.Tick(30)

	assert.Equal(t, []ConnState{ConnConnected, ConnDisconnected}, *seen)
	assert.Equal(t, ConnConnected, c.Previous())
}

func TestSnapshotPublishedBeforeConnectedListeners(t *testing.T) {
	p := network.NewFakeProvider()
	c := NewConnectivity(p)
	c.Setup()

	var got ConnectivitySnapshot
	c.OnEnter(ConnConnected, func(_, _ ConnState) { got = c.Snapshot() })

	p.Connect(network.Info{Address: "192.168.1.9", SSID: "Smokehouse", SignalQuality: 64})
	c.Tick(0)

	assert.Equal(t, ConnectivitySnapshot{
		State:         ConnConnected,
		Address:       "192.168.1.9",
		NetworkName:   "Smokehouse",
		SignalQuality: 64,
	}, got)
}

func TestSnapshotRefreshedWhileConnected(t *testing.T) {
	p := network.NewFakeProvider()
	c := NewConnectivity(p)
	c.Setup()

	p.Connect(network.Info{Address: "10.0.0.2", SSID: "Pit", SignalQuality: 70})
	c.Tick(0)
	p.Link.SignalQuality = 40
	c.Tick(10)
	assert.Equal(t, 40, c.Snapshot().SignalQuality)

	p.Disconnect()
	c.Tick(20)
	assert.Equal(t, ConnectivitySnapshot{State: ConnDisconnected}, c.Snapshot())
}

func TestProvisioningEdges(t *testing.T) {
	p := network.NewFakeProvider()
	c := NewConnectivity(p)
	c.Setup()
	seen := recordConn(c)

	p.Status.Provisioning = true
	c.Tick(0)
	c.Tick(10)
	assert.Equal(t, ConnProvisioning, c.State())

	p.Connect(network.Info{Address: "10.0.0.2"})
	c.Tick(20)
	assert.Equal(t, ConnConnected, c.State())

	// Link drops straight into the portal.
	p.Disconnect()
	p.Status.Provisioning = true
	c.Tick(30)
	assert.Equal(t, ConnProvisioning, c.State())

	p.Status.Provisioning = false
	c.Tick(40)

	assert.Equal(t, []ConnState{
		ConnProvisioning, ConnConnected, ConnDisconnected, ConnProvisioning, ConnDisconnected,
	}, *seen)
}

func TestUnsavedBootLeavesProvisioningWhenPortalCloses(t *testing.T) {
	p := network.NewFakeProvider()
	p.Saved = false
	p.Status.Provisioning = true
	c := NewConnectivity(p)
	c.Setup()
	seen := recordConn(c)

	c.Tick(0)
	assert.Empty(t, *seen, "provider already in portal mode is not an edge")

	p.Status.Provisioning = false
	c.Tick(10)
	assert.Equal(t, []ConnState{ConnDisconnected}, *seen)
}

func TestErrorIsAbsorbing(t *testing.T) {
	p := network.NewFakeProvider()
	c := NewConnectivity(p)
	c.Setup()
	errs := 0
	c.OnEnter(ConnError, func(_, _ ConnState) { errs++ })

	p.Status.Err = errors.New("driver crashed")
	c.Tick(0)
	require.Equal(t, ConnError, c.State())

	p.Status = network.Status{Connected: true}
	polls := p.Polls
	c.Tick(10)
	c.Tick(20)

	assert.Equal(t, ConnError, c.State())
	assert.Equal(t, 1, errs, "error entered once")
	assert.Equal(t, polls, p.Polls, "provider is no longer polled")
}

func TestConnectivityForget(t *testing.T) {
	p := network.NewFakeProvider()
	c := NewConnectivity(p)
	require.NoError(t, c.Forget())
	assert.True(t, p.Forgotten)
}
