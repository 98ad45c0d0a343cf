package config

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/google/uuid"
)

// MachineIDPath is the systemd machine identity file.
const MachineIDPath = "/etc/machine-id"

// DeviceName returns the configured device name, or "pitboss-" followed by
// six hex digits of the machine identity. Without a readable machine id a
// random identity is generated, which changes on every boot.
func (c Config) DeviceName(machineIDPath string) string {
	if c.Device != "" {
		return c.Device
	}
	return "pitboss-" + deviceID(machineIDPath)
}

func deviceID(path string) string {
	if data, err := os.ReadFile(path); err == nil {
		id := strings.TrimSpace(string(data))
		if len(id) >= 6 {
			if _, err := hex.DecodeString(id[len(id)-6:]); err == nil {
				return strings.ToLower(id[len(id)-6:])
			}
		}
	}
	u := uuid.New()
	return hex.EncodeToString(u[len(u)-3:])
}
