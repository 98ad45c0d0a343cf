package web

import (
	"encoding/json"

	"github.com/sweeney/pitboss/internal/sensor"
	"github.com/sweeney/pitboss/internal/status"
)

// TemperatureJSON is the /temperature response. Temperatures are Fahrenheit.
type TemperatureJSON struct {
	Time         string    `json:"time"`
	ColdJunction float64   `json:"coldJunction"`
	HotJunction  float64   `json:"hotJunction"`
	Debug        DebugJSON `json:"debug"`
}

// DebugJSON carries device health alongside a reading.
type DebugJSON struct {
	Heap uint64 `json:"heap"`
	// RSSI is the link quality as a percentage.
	RSSI int    `json:"rssi"`
	SSID string `json:"ssid"`
}

// formatTemperature reports false when there is no current reading to serve.
func formatTemperature(snap status.Snapshot) ([]byte, bool) {
	if !snap.Sensor.HasReading || snap.Sensor.State != "READY" {
		return nil, false
	}
	tj := TemperatureJSON{
		Time:         snap.Now.Format(status.DateTimeLayout),
		ColdJunction: sensor.CelsiusToFahrenheit(snap.Sensor.ColdJunctionC),
		HotJunction:  sensor.CelsiusToFahrenheit(snap.Sensor.HotJunctionC),
		Debug: DebugJSON{
			Heap: snap.HeapFree,
			RSSI: snap.Connectivity.SignalQuality,
			SSID: snap.Connectivity.SSID,
		},
	}
	data, err := json.Marshal(tj)
	if err != nil {
		return nil, false
	}
	return data, true
}
