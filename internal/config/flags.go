package config

import (
	"codeberg.org/mutker/powergym/internal/fitness"
	"codeberg.org/mutker/powergym/internal/metrics"
	"codeberg.org/mutker/powergym/internal/pid"
	"codeberg.org/mutker/powergym/internal/telemetry"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command line flags to config keys
var flagKeys = map[string]string{
	"mode":              "mode",
	"interval":          "interval",
	"timeline-capacity": "timeline_capacity",
	"log-level":         "log_level",
	"listen":            "listen",
	"api":               "api",
	"seed":              "seed",
	"pid-file":          "pid_file",
	"calorie-policy":    "calorie_policy",
	"metrics":           "metrics.enabled",
	"metrics-db":        "metrics.db_path",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("powergym", pflag.ContinueOnError)

	fs.String("config", "", "Path to the TOML config file")
	fs.String("mode", string(ModeSimulated), "Telemetry source: simulated or hardware")
	fs.Duration("interval", 0, "Tick interval (default 5s simulated, 1s hardware)")
	fs.Int("timeline-capacity", 0, "Power timeline length (default 10 simulated, 30 hardware)")
	fs.String("log-level", DefaultLogLevel, "Log level: debug, info, warning or error")
	fs.String("listen", DefaultListen, "API listen address")
	fs.Bool("api", true, "Serve the HTTP API")
	fs.Int64("seed", 0, "Simulator random seed (0 picks one)")
	fs.String("pid-file", pid.DefaultFile, "PID file name or absolute path")
	fs.String("calorie-policy", string(fitness.PolicyMax), "Calorie estimate: max, power or mets")
	fs.Bool("metrics", false, "Record session history to sqlite")
	fs.String("metrics-db", metrics.DefaultConfig().DBPath, "Path to the history database")

	return fs
}

func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	profile := fitness.DefaultProfile()
	hw := telemetry.DefaultHardwareConfig()
	m := metrics.DefaultConfig()

	v.SetDefault("mode", string(ModeSimulated))
	v.SetDefault("interval", "0s")
	v.SetDefault("timeline_capacity", 0)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("listen", DefaultListen)
	v.SetDefault("api", true)
	v.SetDefault("seed", 0)
	v.SetDefault("pid_file", pid.DefaultFile)
	v.SetDefault("calorie_policy", string(fitness.PolicyMax))
	v.SetDefault("mets", map[string]float64{})

	v.SetDefault("profile.name", profile.Name)
	v.SetDefault("profile.age", profile.Age)
	v.SetDefault("profile.weight_kg", profile.Weight)
	v.SetDefault("profile.height_cm", profile.Height)
	v.SetDefault("profile.gender", string(profile.Gender))
	v.SetDefault("profile.goal", string(profile.Goal))

	v.SetDefault("hardware.candidates", hw.Candidates)
	v.SetDefault("hardware.probe_timeout", hw.ProbeTimeout)
	v.SetDefault("hardware.rediscover_delay", hw.RediscoverDelay)
	v.SetDefault("hardware.reconnect_delay", hw.ReconnectDelay)

	v.SetDefault("metrics.enabled", m.Enabled)
	v.SetDefault("metrics.db_path", m.DBPath)
	v.SetDefault("metrics.backup_dir", "")
	v.SetDefault("metrics.batch_size", m.BatchSize)
	v.SetDefault("metrics.batch_timeout", m.BatchTimeout)
}
