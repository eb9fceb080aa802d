package config

import (
	"context"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/fitness"
	"codeberg.org/mutker/powergym/internal/metrics"
	"codeberg.org/mutker/powergym/internal/pid"
	"codeberg.org/mutker/powergym/internal/telemetry"
	"codeberg.org/mutker/powergym/internal/timeline"
	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	DefaultEnvPrefix  = "POWERGYM"
	DefaultConfigPath = "/etc/powergym.toml"
	DefaultLogLevel   = "warning"
	DefaultListen     = ":8080"

	simulatedInterval = 5 * time.Second
	hardwareInterval  = time.Second
)

type HardwareSettings struct {
	Candidates      []string      `mapstructure:"candidates"`
	ProbeTimeout    time.Duration `mapstructure:"probe_timeout" validate:"gte=0"`
	RediscoverDelay time.Duration `mapstructure:"rediscover_delay" validate:"gte=0"`
	ReconnectDelay  time.Duration `mapstructure:"reconnect_delay" validate:"gte=0"`
}

type MetricsSettings struct {
	Enabled      bool   `mapstructure:"enabled"`
	DBPath       string `mapstructure:"db_path" validate:"required_if=Enabled true"`
	BackupDir    string `mapstructure:"backup_dir"`
	BatchSize    int    `mapstructure:"batch_size" validate:"gte=0"`
	BatchTimeout int    `mapstructure:"batch_timeout" validate:"gte=0"`
}

type Config struct {
	Mode             Mode               `mapstructure:"mode" validate:"oneof=simulated hardware"`
	Interval         time.Duration      `mapstructure:"interval" validate:"gte=0"`
	TimelineCapacity int                `mapstructure:"timeline_capacity" validate:"gte=0"`
	LogLevel         string             `mapstructure:"log_level"`
	Listen           string             `mapstructure:"listen"`
	API              bool               `mapstructure:"api"`
	Seed             int64              `mapstructure:"seed"`
	PIDFile          string             `mapstructure:"pid_file"`
	CaloriePolicy    string             `mapstructure:"calorie_policy"`
	METs             map[string]float64 `mapstructure:"mets"`
	Profile          fitness.Profile    `mapstructure:"profile"`
	Hardware         HardwareSettings   `mapstructure:"hardware"`
	Metrics          MetricsSettings    `mapstructure:"metrics"`

	v *viper.Viper
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads configuration from defaults, the TOML config file, POWERGYM_*
// environment variables and command line flags, in increasing precedence.
func Load(opts ...Option) (*Config, error) {
	errFactory := errors.New()

	o := &options{
		envPrefix: DefaultEnvPrefix,
		args:      os.Args[1:],
	}
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	fs := newFlagSet()
	if err := fs.Parse(o.args); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}
	if err := bindFlags(v, fs); err != nil {
		return nil, errFactory.Wrap(errors.ErrBindFlags, err)
	}

	v.SetEnvPrefix(o.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := readConfigFile(v, fs, o); err != nil {
		return nil, err
	}

	cfg, err := unmarshal(v)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// readConfigFile resolves the file path from the option, the --config flag,
// <PREFIX>_CONFIG or the default path. Only an explicitly named file has to
// exist.
func readConfigFile(v *viper.Viper, fs *pflag.FlagSet, o *options) error {
	errFactory := errors.New()

	path := o.configPath
	if path == "" {
		path, _ = fs.GetString("config")
	}
	if path == "" {
		path = os.Getenv(o.envPrefix + "_CONFIG")
	}
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath
	}

	if _, err := os.Stat(path); err != nil {
		if !explicit && os.IsNotExist(err) {
			return nil
		}
		return errFactory.Wrap(errors.ErrReadConfig, err)
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return errFactory.Wrap(errors.ErrReadConfig, err)
	}

	return nil
}

func unmarshal(v *viper.Viper) (*Config, error) {
	errFactory := errors.New()

	cfg := &Config{v: v}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(errors.ErrReadConfig, err)
	}
	cfg.Mode = Mode(strings.ToLower(string(cfg.Mode)))
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the loaded values
func (c *Config) Validate() error {
	errFactory := errors.New()

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(errors.ErrInvalidLogLevel, c.LogLevel)
	}

	if err := c.Profile.Validate(); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		var errs validator.ValidationErrors
		if errors.As(err, &errs) {
			return errFactory.WithData(errors.ErrInvalidConfig,
				errs[0].Namespace()+": failed on "+errs[0].Tag())
		}
		return errFactory.Wrap(errors.ErrInvalidConfig, err)
	}

	if _, err := fitness.ParsePolicy(c.CaloriePolicy); err != nil {
		return err
	}

	if c.Mode == ModeHardware {
		if err := c.GetHardwareConfig().Validate(); err != nil {
			return errFactory.Wrap(errors.ErrInvalidConfig, err)
		}
	}

	return nil
}

// Watch reloads the config file on change and passes the valid result to
// callback. Invalid edits are dropped and the previous values stay active.
func (c *Config) Watch(ctx context.Context, callback func(Provider)) error {
	errFactory := errors.New()

	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return errFactory.WithMessage(errors.ErrMissingConfig, "no config file to watch")
	}

	var stopped atomic.Bool
	go func() {
		<-ctx.Done()
		stopped.Store(true)
	}()

	c.v.OnConfigChange(func(e fsnotify.Event) {
		if stopped.Load() || !(e.Has(fsnotify.Write) || e.Has(fsnotify.Create)) {
			return
		}
		next, err := unmarshal(c.v)
		if err != nil {
			return
		}
		callback(next)
	})
	c.v.WatchConfig()

	return nil
}

// ConfigFile returns the path of the config file in use, if any
func (c *Config) ConfigFile() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

func (c *Config) GetMode() Mode {
	return c.Mode
}

func (c *Config) GetInterval() time.Duration {
	if c.Interval > 0 {
		return c.Interval
	}
	if c.Mode == ModeHardware {
		return hardwareInterval
	}
	return simulatedInterval
}

func (c *Config) GetTimelineCapacity() int {
	if c.TimelineCapacity > 0 {
		return c.TimelineCapacity
	}
	if c.Mode == ModeHardware {
		return timeline.HardwareCapacity
	}
	return timeline.SimulatedCapacity
}

func (c *Config) GetLogLevel() string {
	return c.LogLevel
}

func (c *Config) GetListen() string {
	return c.Listen
}

func (c *Config) IsAPIEnabled() bool {
	return c.API
}

func (c *Config) GetSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

// GetPIDFile returns the PID file path. Relative names live in the temp dir.
func (c *Config) GetPIDFile() string {
	return pid.Path(c.PIDFile)
}

func (c *Config) GetProfile() fitness.Profile {
	return c.Profile
}

func (c *Config) GetCaloriePolicy() fitness.CaloriePolicy {
	policy, err := fitness.ParsePolicy(c.CaloriePolicy)
	if err != nil {
		return fitness.PolicyMax
	}
	return policy
}

func (c *Config) GetMETs() fitness.METTable {
	mets := make(fitness.METTable, len(c.METs))
	for name, value := range c.METs {
		mets[name] = value
	}
	return mets
}

func (c *Config) GetHardwareConfig() telemetry.HardwareConfig {
	hw := telemetry.DefaultHardwareConfig()
	if len(c.Hardware.Candidates) > 0 {
		hw.Candidates = append([]string(nil), c.Hardware.Candidates...)
	}
	if c.Hardware.ProbeTimeout > 0 {
		hw.ProbeTimeout = c.Hardware.ProbeTimeout
	}
	if c.Hardware.RediscoverDelay > 0 {
		hw.RediscoverDelay = c.Hardware.RediscoverDelay
	}
	if c.Hardware.ReconnectDelay > 0 {
		hw.ReconnectDelay = c.Hardware.ReconnectDelay
	}
	return hw
}

func (c *Config) GetMetricsConfig() metrics.Config {
	return metrics.Config{
		DBPath:       c.Metrics.DBPath,
		BackupDir:    c.Metrics.BackupDir,
		BatchSize:    c.Metrics.BatchSize,
		BatchTimeout: c.Metrics.BatchTimeout,
		Enabled:      c.Metrics.Enabled,
	}
}
