package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the JSON representation of the status projection.
type StatusJSON struct {
	ApplicationState string           `json:"applicationState"`
	Connectivity     ConnectivityJSON `json:"connectivity"`
	Sensor           SensorJSON       `json:"sensor"`
	HeapFree         uint64           `json:"heapFree"`
	Timestamp        string           `json:"timestamp"`
	UptimeSeconds    int64            `json:"uptimeSeconds"`
	Device           string           `json:"device"`
	MQTT             MQTTStatus       `json:"mqtt"`
}

// ConnectivityJSON is the JSON representation of the link view.
type ConnectivityJSON struct {
	State         string `json:"state"`
	Address       string `json:"address"`
	SSID          string `json:"ssid"`
	SignalQuality int    `json:"signalQuality"`
}

// SensorJSON is the JSON representation of the thermocouple view. The
// temperatures are omitted until the first good reading.
type SensorJSON struct {
	State         string   `json:"state"`
	ColdJunctionC *float64 `json:"coldJunctionC"`
	HotJunctionC  *float64 `json:"hotJunctionC"`
	Error         string   `json:"error,omitempty"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker"`
}

func orUnknown(s string) string {
	if s == "" {
		return "UNKNOWN"
	}
	return s
}

// Build converts a snapshot into its JSON shape.
func Build(snap Snapshot) StatusJSON {
	sj := StatusJSON{
		ApplicationState: orUnknown(snap.Application),
		Connectivity: ConnectivityJSON{
			State:         orUnknown(snap.Connectivity.State),
			Address:       snap.Connectivity.Address,
			SSID:          snap.Connectivity.SSID,
			SignalQuality: snap.Connectivity.SignalQuality,
		},
		Sensor: SensorJSON{
			State: orUnknown(snap.Sensor.State),
			Error: snap.Sensor.Err,
		},
		HeapFree:      snap.HeapFree,
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		Device:        snap.DeviceName,
		MQTT:          MQTTStatus{Connected: snap.AnnouncerConnected, Broker: snap.Broker},
	}
	if snap.Sensor.HasReading {
		cold, hot := snap.Sensor.ColdJunctionC, snap.Sensor.HotJunctionC
		sj.Sensor.ColdJunctionC = &cold
		sj.Sensor.HotJunctionC = &hot
	}
	return sj
}

// FormatJSON returns the indented JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(Build(snap), "", "  ")
	return data
}
