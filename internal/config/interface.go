package config

import (
	"context"
	"time"

	"codeberg.org/mutker/powergym/internal/fitness"
	"codeberg.org/mutker/powergym/internal/metrics"
	"codeberg.org/mutker/powergym/internal/telemetry"
)

// Provider defines the interface for accessing configuration values.
// Values are immutable after loading; Watch hands out a fresh Provider on
// every change.
type Provider interface {
	// GetMode returns the telemetry source, simulated or hardware
	GetMode() Mode

	// GetInterval returns the tick interval, defaulting per mode
	GetInterval() time.Duration

	// GetTimelineCapacity returns the timeline size, defaulting per mode
	GetTimelineCapacity() int

	// GetLogLevel returns the configured logging level
	GetLogLevel() string

	// GetListen returns the API listen address
	GetListen() string

	// IsAPIEnabled returns whether the HTTP API is served
	IsAPIEnabled() bool

	GetSeed() int64
	GetPIDFile() string
	GetProfile() fitness.Profile
	GetCaloriePolicy() fitness.CaloriePolicy
	GetMETs() fitness.METTable
	GetHardwareConfig() telemetry.HardwareConfig
	GetMetricsConfig() metrics.Config
}

// Watcher enables live configuration updates
type Watcher interface {
	// Watch calls callback with the reloaded configuration whenever the
	// config file changes, until ctx is done.
	Watch(ctx context.Context, callback func(Provider)) error
}

// Option defines a configuration option that can be passed to Load
type Option func(*options) error

// options holds internal configuration options
type options struct {
	configPath string
	envPrefix  string
	args       []string
}

// WithConfigFile specifies an explicit configuration file path
func WithConfigFile(path string) Option {
	return func(o *options) error {
		o.configPath = path
		return nil
	}
}

// WithEnvPrefix specifies a custom environment variable prefix
// Default is "POWERGYM"
func WithEnvPrefix(prefix string) Option {
	return func(o *options) error {
		o.envPrefix = prefix
		return nil
	}
}

// WithArgs replaces the command line arguments parsed for flags
func WithArgs(args []string) Option {
	return func(o *options) error {
		o.args = args
		return nil
	}
}

// Mode selects the telemetry source
type Mode string

const (
	ModeSimulated Mode = "simulated"
	ModeHardware  Mode = "hardware"
)

// LogLevel represents valid logging levels
type LogLevel string

const (
	LogLevelDebug   LogLevel = "debug"
	LogLevelInfo    LogLevel = "info"
	LogLevelWarning LogLevel = "warning"
	LogLevelError   LogLevel = "error"
)

// IsValid returns whether the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarning, LogLevelError:
		return true
	default:
		return false
	}
}

// String implements the Stringer interface
func (l LogLevel) String() string {
	return string(l)
}
