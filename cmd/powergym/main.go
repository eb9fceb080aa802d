package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/powergym/internal/api"
	"codeberg.org/mutker/powergym/internal/config"
	"codeberg.org/mutker/powergym/internal/dashboard"
	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/fitness"
	"codeberg.org/mutker/powergym/internal/logger"
	"codeberg.org/mutker/powergym/internal/metrics"
	"codeberg.org/mutker/powergym/internal/pid"
	"codeberg.org/mutker/powergym/internal/rewards"
	"codeberg.org/mutker/powergym/internal/session"
	"codeberg.org/mutker/powergym/internal/telemetry"
	"github.com/robfig/cron"
)

const (
	shutdownTimeout = 5 * time.Second
	summarySchedule = "@every 1m"
)

var cfg *config.Config

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.GetLogLevel(), logger.IsService())
	logger.Debug().Str("config_file", cfg.ConfigFile()).Msg("Config loaded")
}

func main() {
	if err := run(); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.FatalWithCode(appErr).Msg("Exiting")
		}
		logger.Fatal().Err(err).Msg("Exiting")
	}
}

func run() error {
	errFactory := errors.New()

	pidFile := cfg.GetPIDFile()
	if err := pid.Write(pidFile); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(pidFile); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	log := logger.Default()

	source, err := newSource(log)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	if closer, ok := source.(io.Closer); ok {
		defer closer.Close()
	}

	collector, err := metrics.NewService(cfg.GetMetricsConfig(), log.With("metrics"))
	if err != nil {
		return errFactory.Wrap(errors.ErrInitMetrics, err)
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close metrics")
		}
	}()

	sess := session.New(session.Config{
		Profile:          cfg.GetProfile(),
		Calculator:       fitness.NewCalculator(cfg.GetMETs(), cfg.GetCaloriePolicy()),
		Engine:           rewards.NewEngine(),
		TimelineCapacity: cfg.GetTimelineCapacity(),
	}, time.Now())

	ctrl := dashboard.New(source, sess, collector, log.With("dashboard"))

	if cfg.ConfigFile() != "" {
		if err := cfg.Watch(ctx, func(p config.Provider) {
			logger.SetLogLevel(logger.ParseLevel(p.GetLogLevel()))
			logger.Info().Str("log_level", p.GetLogLevel()).Msg("Config reloaded")
		}); err != nil {
			logger.Warn().Err(err).Msg("Config watch unavailable")
		}
	}

	clock := cron.New()
	if err := clock.AddFunc(summarySchedule, ctrl.LogSummary); err != nil {
		return errFactory.Wrap(errors.ErrInitApp, err)
	}
	clock.Start()
	defer clock.Stop()

	var server *api.Server
	if cfg.IsAPIEnabled() {
		server = api.NewServer(ctrl,
			api.Addr(cfg.GetListen()),
			api.Logger(log.With("api")),
		)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error().Err(err).Msg("API server stopped")
				cancel()
			}
		}()
	}

	logger.Info().
		Str("mode", string(cfg.GetMode())).
		Str("source", source.Name()).
		Dur("interval", cfg.GetInterval()).
		Int("timeline_capacity", cfg.GetTimelineCapacity()).
		Str("profile", cfg.GetProfile().Name).
		Msg("PowerGym started")

	ctrl.Run(ctx, cfg.GetInterval())

	if server != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("Failed to shut down API server")
		}
	}

	ctrl.LogSummary()
	logger.Info().Msg("Exiting...")

	return nil
}

func newSource(log logger.Logger) (telemetry.Source, error) {
	switch cfg.GetMode() {
	case config.ModeHardware:
		return telemetry.NewHardware(cfg.GetHardwareConfig(), log.With("hardware"))
	default:
		return telemetry.NewSimulator(cfg.GetSeed()), nil
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}
