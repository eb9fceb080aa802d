package telemetry

import (
	"time"

	"codeberg.org/mutker/powergym/internal/errors"
)

const (
	defaultProbeTimeout    = 2 * time.Second
	defaultRediscoverDelay = 10 * time.Second
	defaultReconnectDelay  = 3 * time.Second

	// MonitorSystemName is what the ESP32 firmware reports on /api/status
	MonitorSystemName = "PowerGym Monitor"
)

// DefaultCandidates are the hosts probed when none are configured
var DefaultCandidates = []string{
	"192.168.1.100", "192.168.1.101", "192.168.1.102",
	"192.168.0.100", "192.168.0.101", "192.168.0.102",
	"10.0.0.100", "10.0.0.101",
}

type HardwareConfig struct {
	Candidates      []string
	ProbeTimeout    time.Duration
	RediscoverDelay time.Duration
	ReconnectDelay  time.Duration
}

func DefaultHardwareConfig() HardwareConfig {
	return HardwareConfig{
		Candidates:      append([]string(nil), DefaultCandidates...),
		ProbeTimeout:    defaultProbeTimeout,
		RediscoverDelay: defaultRediscoverDelay,
		ReconnectDelay:  defaultReconnectDelay,
	}
}

func (c HardwareConfig) Validate() error {
	errFactory := errors.New()
	if len(c.Candidates) == 0 {
		return errFactory.New(ErrNoCandidates)
	}
	if c.ProbeTimeout <= 0 {
		return errFactory.WithData(ErrInvalidTimeout, c.ProbeTimeout)
	}
	return nil
}
