package network

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEnvVarNames verifies the env var constants match what pi-helper writes
// to /run/pi-helper.env. If pi-helper changes its var names, this test fails
// and we update the constants, not the other way around.
func TestEnvVarNames(t *testing.T) {
	want := map[string]string{
		"NETWORK_TYPE":        envNetworkType,
		"NETWORK_IP":          envNetworkIP,
		"NETWORK_STATUS":      envNetworkStatus,
		"NETWORK_GATEWAY":     envNetworkGateway,
		"NETWORK_WIFI_STATUS": envNetworkWifiStatus,
		"NETWORK_WIFI_SSID":   envNetworkWifiSSID,
		"NETWORK_WIFI_RSSI":   envNetworkWifiRSSI,
		"NETWORK_MODE":        envNetworkMode,
	}
	for canonical, got := range want {
		if got != canonical {
			t.Errorf("env var constant: got %q, want %q", got, canonical)
		}
	}
}

func TestSignalQuality(t *testing.T) {
	tests := []struct {
		rssi int
		want int
	}{
		{-120, 0},
		{-100, 0},
		{-99, 2},
		{-75, 50},
		{-51, 98},
		{-50, 100},
		{-20, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignalQuality(tt.rssi), "rssi %d", tt.rssi)
	}
}

func TestParseEnv(t *testing.T) {
	vars := parseEnv([]byte(`# written by pi-helper
NETWORK_STATUS=connected
export NETWORK_IP="192.168.1.42"
NETWORK_WIFI_SSID='Back Garden'
garbage line

NETWORK_WIFI_RSSI = -61
`))
	assert.Equal(t, "connected", vars["NETWORK_STATUS"])
	assert.Equal(t, "192.168.1.42", vars["NETWORK_IP"])
	assert.Equal(t, "Back Garden", vars["NETWORK_WIFI_SSID"])
	assert.Equal(t, "-61", vars["NETWORK_WIFI_RSSI"])
	assert.Len(t, vars, 4)
}

func writeEnv(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
}

func TestEnvFileProviderPoll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pi-helper.env")
	p := NewEnvFileProvider(path, "")

	saved, err := p.Begin()
	require.NoError(t, err)
	assert.True(t, saved, "no credentials file configured means saved")

	st := p.Poll(0)
	assert.False(t, st.Connected, "missing file is disconnected")
	assert.NoError(t, st.Err)

	writeEnv(t, path, "NETWORK_STATUS=connected\nNETWORK_IP=10.0.0.5\nNETWORK_WIFI_SSID=Pit\nNETWORK_WIFI_RSSI=-60\n")
	st = p.Poll(500)
	assert.False(t, st.Connected, "file is not re-read before the refresh interval")

	st = p.Poll(1000)
	assert.True(t, st.Connected)
	assert.Equal(t, Info{Address: "10.0.0.5", SSID: "Pit", SignalQuality: 80}, p.Info())

	writeEnv(t, path, "NETWORK_STATUS=disconnected\nNETWORK_MODE=ap\n")
	st = p.Poll(2000)
	assert.False(t, st.Connected)
	assert.True(t, st.Provisioning)
	assert.Equal(t, Info{}, p.Info())
}

func TestEnvFileProviderConnectedNeedsAddress(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pi-helper.env")
	writeEnv(t, path, "NETWORK_STATUS=connected\n")
	p := NewEnvFileProvider(path, "")
	_, err := p.Begin()
	require.NoError(t, err)
	assert.False(t, p.Poll(0).Connected)
}

func TestEnvFileProviderMissingDirIsFatal(t *testing.T) {
	p := NewEnvFileProvider(filepath.Join(t.TempDir(), "absent", "pi-helper.env"), "")
	_, err := p.Begin()
	require.Error(t, err)
	assert.Error(t, p.Poll(0).Err)
}

func TestEnvFileProviderFromEnvironment(t *testing.T) {
	t.Setenv(envNetworkStatus, "connected")
	t.Setenv(envNetworkIP, "192.168.1.100")
	t.Setenv(envNetworkWifiSSID, "MyNetwork")

	p := NewEnvFileProvider("", "")
	_, err := p.Begin()
	require.NoError(t, err)
	assert.True(t, p.Poll(0).Connected)
	assert.Equal(t, "MyNetwork", p.Info().SSID)
	assert.Equal(t, 0, p.Info().SignalQuality)
}

func TestCredentialsAndForget(t *testing.T) {
	dir := t.TempDir()
	creds := filepath.Join(dir, "wifi.conf")
	p := NewEnvFileProvider(filepath.Join(dir, "pi-helper.env"), creds)

	saved, err := p.Begin()
	require.NoError(t, err)
	assert.False(t, saved, "absent credentials file")

	writeEnv(t, creds, "network={ssid=\"Pit\"}\n")
	saved, err = p.Begin()
	require.NoError(t, err)
	assert.True(t, saved)

	require.NoError(t, p.Forget())
	saved, err = p.Begin()
	require.NoError(t, err)
	assert.False(t, saved, "forgotten credentials are empty")
}
