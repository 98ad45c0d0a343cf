package monitor

import (
	"log"

	"github.com/sweeney/pitboss/internal/fsm"
	"github.com/sweeney/pitboss/internal/network"
	"github.com/sweeney/pitboss/internal/tick"
)

// ConnState is the connectivity machine's state.
type ConnState string

const (
	ConnError        ConnState = "ERROR"
	ConnDisconnected ConnState = "DISCONNECTED"
	ConnProvisioning ConnState = "PROVISIONING"
	ConnConnected    ConnState = "CONNECTED"
)

// ConnectivitySnapshot is the read-mostly view of the link handed to the
// renderer and the status surface.
type ConnectivitySnapshot struct {
	State         ConnState
	Address       string
	NetworkName   string
	SignalQuality int
}

// Connectivity edge-detects the provider's status into ConnState.
type Connectivity struct {
	provider network.Provider
	machine  *fsm.Machine[ConnState]

	connected    bool
	provisioning bool
	snapshot     ConnectivitySnapshot
}

// NewConnectivity creates a monitor resting in Disconnected.
func NewConnectivity(p network.Provider) *Connectivity {
	return &Connectivity{
		provider: p,
		machine:  fsm.New(ConnDisconnected),
	}
}

// Setup initializes the provider. An init failure enters Error; otherwise
// the monitor enters Disconnected when credentials are saved and
// Provisioning when they are not.
func (c *Connectivity) Setup() {
	saved, err := c.provider.Begin()
	switch {
	case err != nil:
		log.Printf("network: unable to initialize: %v", err)
		c.machine.TransitionTo(ConnError)
	case saved:
		c.machine.TransitionTo(ConnDisconnected)
	default:
		c.provisioning = true
		c.machine.TransitionTo(ConnProvisioning)
	}
}

// Tick polls the provider once. Error is never left.
func (c *Connectivity) Tick(now tick.Millis) {
	if c.machine.Current() == ConnError {
		return
	}

	st := c.provider.Poll(now)
	if st.Err != nil {
		log.Printf("network: unrecoverable failure: %v", st.Err)
		c.machine.TransitionTo(ConnError)
		return
	}

	if st.Connected != c.connected {
		c.connected = st.Connected
		if c.connected {
			c.provisioning = false
			c.refresh()
			c.machine.TransitionTo(ConnConnected)
		} else {
			c.snapshot = ConnectivitySnapshot{}
			c.machine.TransitionTo(ConnDisconnected)
		}
	} else if c.connected {
		c.refresh()
	}

	if !c.connected && st.Provisioning != c.provisioning {
		c.provisioning = st.Provisioning
		if c.provisioning {
			c.machine.TransitionTo(ConnProvisioning)
		} else {
			c.machine.TransitionTo(ConnDisconnected)
		}
	}
}

func (c *Connectivity) refresh() {
	info := c.provider.Info()
	c.snapshot = ConnectivitySnapshot{
		State:         ConnConnected,
		Address:       info.Address,
		NetworkName:   info.SSID,
		SignalQuality: info.SignalQuality,
	}
}

// Snapshot returns the current view of the link. Link details are only
// present while Connected.
func (c *Connectivity) Snapshot() ConnectivitySnapshot {
	if c.machine.Current() != ConnConnected {
		return ConnectivitySnapshot{State: c.machine.Current()}
	}
	return c.snapshot
}

// Forget asks the provider to erase saved credentials.
func (c *Connectivity) Forget() error {
	return c.provider.Forget()
}

// State returns the current state.
func (c *Connectivity) State() ConnState { return c.machine.Current() }

// Previous returns the state before the last transition.
func (c *Connectivity) Previous() ConnState { return c.machine.Previous() }

// OnEnter registers fn for state.
func (c *Connectivity) OnEnter(state ConnState, fn fsm.Listener[ConnState]) fsm.Handle[ConnState] {
	return c.machine.OnEnter(state, fn)
}
