package network

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sweeney/pitboss/internal/tick"
)

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
	envNetworkWifiRSSI   = "NETWORK_WIFI_RSSI"
	envNetworkMode       = "NETWORK_MODE"
)

// DefaultEnvFile is where pi-helper writes its state.
const DefaultEnvFile = "/run/pi-helper.env"

// EnvFileProvider observes the env file pi-helper maintains. When Path is
// empty the process environment is used instead.
type EnvFileProvider struct {
	Path            string
	CredentialsFile string
	// RefreshMs limits how often the file is re-read.
	RefreshMs uint32

	vars     map[string]string
	lastRead tick.Millis
	loaded   bool
	failed   error
}

// NewEnvFileProvider creates a provider reading path.
func NewEnvFileProvider(path, credentialsFile string) *EnvFileProvider {
	return &EnvFileProvider{
		Path:            path,
		CredentialsFile: credentialsFile,
		RefreshMs:       1000,
	}
}

// Begin checks that pi-helper is present and whether credentials are saved.
func (p *EnvFileProvider) Begin() (bool, error) {
	if p.Path != "" {
		dir := filepath.Dir(p.Path)
		if _, err := os.Stat(dir); err != nil {
			p.failed = fmt.Errorf("network state dir: %w", err)
			return false, p.failed
		}
	}
	if p.CredentialsFile == "" {
		return true, nil
	}
	fi, err := os.Stat(p.CredentialsFile)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("credentials file: %w", err)
	}
	return fi.Size() > 0, nil
}

// Poll re-reads the env file at most once per RefreshMs and reports status.
func (p *EnvFileProvider) Poll(now tick.Millis) Status {
	if p.failed != nil {
		return Status{Err: p.failed}
	}
	if !p.loaded || now.Since(p.lastRead) >= p.RefreshMs {
		p.lastRead = now
		vars, err := p.read()
		if err != nil {
			log.Printf("network: read %s: %v", p.Path, err)
			vars = nil
		}
		p.vars = vars
		p.loaded = true
	}
	return Status{
		Connected:    p.vars[envNetworkStatus] == "connected" && p.vars[envNetworkIP] != "",
		Provisioning: isProvisioningMode(p.vars[envNetworkMode]),
	}
}

// Info returns the link details from the last read.
func (p *EnvFileProvider) Info() Info {
	info := Info{
		Address: p.vars[envNetworkIP],
		SSID:    p.vars[envNetworkWifiSSID],
	}
	if rssi, err := strconv.Atoi(p.vars[envNetworkWifiRSSI]); err == nil {
		info.SignalQuality = SignalQuality(rssi)
	}
	return info
}

// Forget truncates the credentials file.
func (p *EnvFileProvider) Forget() error {
	if p.CredentialsFile == "" {
		return nil
	}
	if err := os.WriteFile(p.CredentialsFile, nil, 0o600); err != nil {
		return fmt.Errorf("forget credentials: %w", err)
	}
	return nil
}

func (p *EnvFileProvider) read() (map[string]string, error) {
	if p.Path == "" {
		return fromEnviron(), nil
	}
	data, err := os.ReadFile(p.Path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, err
	}
	return parseEnv(data), nil
}

func fromEnviron() map[string]string {
	vars := make(map[string]string)
	for _, k := range []string{
		envNetworkType, envNetworkIP, envNetworkStatus, envNetworkGateway,
		envNetworkWifiStatus, envNetworkWifiSSID, envNetworkWifiRSSI, envNetworkMode,
	} {
		if v, ok := os.LookupEnv(k); ok {
			vars[k] = v
		}
	}
	return vars
}

// parseEnv reads KEY=VALUE lines, ignoring blanks and # comments and
// stripping one layer of matching quotes.
func parseEnv(data []byte) map[string]string {
	vars := make(map[string]string)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		v = strings.TrimSpace(v)
		if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
			v = v[1 : len(v)-1]
		}
		vars[strings.TrimSpace(k)] = v
	}
	return vars
}

func isProvisioningMode(mode string) bool {
	switch strings.ToLower(mode) {
	case "ap", "portal", "provisioning":
		return true
	}
	return false
}
