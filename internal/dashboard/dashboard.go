package dashboard

import (
	"context"
	"io"
	"sync"
	"time"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/export"
	"codeberg.org/mutker/powergym/internal/logger"
	"codeberg.org/mutker/powergym/internal/metrics"
	"codeberg.org/mutker/powergym/internal/rewards"
	"codeberg.org/mutker/powergym/internal/session"
	"codeberg.org/mutker/powergym/internal/telemetry"
	"github.com/samber/lo"
)

// Controller drives a session from a telemetry source. At most one refresh
// is in flight; a tick that arrives while another runs is dropped.
type Controller struct {
	source    telemetry.Source
	session   *session.Session
	collector metrics.Collector
	catalog   rewards.Catalog
	logger    logger.Logger
	now       func() time.Time

	tickMu sync.Mutex
}

func New(source telemetry.Source, sess *session.Session, collector metrics.Collector, log logger.Logger) *Controller {
	return &Controller{
		source:    source,
		session:   sess,
		collector: collector,
		catalog:   rewards.DefaultCatalog(),
		logger:    log,
		now:       time.Now,
	}
}

// Tick fetches one batch and folds it into the session. On a fetch
// failure the previous state is kept and no timeline sample is added.
func (c *Controller) Tick(ctx context.Context) (session.Snapshot, error) {
	errFactory := errors.New()

	if !c.tickMu.TryLock() {
		c.logger.Debug().Msg("Refresh in flight, skipping tick")
		return session.Snapshot{}, errFactory.New(ErrTickSkipped)
	}
	defer c.tickMu.Unlock()

	batch, err := c.source.Fetch(ctx)
	if err != nil {
		c.logFetchError(err)
		return session.Snapshot{}, errFactory.Wrap(ErrFetchFailed, err)
	}

	snap := c.session.Tick(batch)

	c.logger.Debug().
		Float64("total_power", snap.TotalPower).
		Float64("session_energy", snap.SessionEnergy).
		Int("active", snap.ActiveCount).
		Int("active_minutes", snap.State.ActiveMinutes).
		Int("calories", snap.State.CaloriesBurned).
		Str("zone", string(snap.Zone)).
		Int("points", snap.State.TotalPoints).
		Str("level", string(snap.State.Level)).
		Msg("Tick")

	if err := c.collector.Record(ctx, toMetrics(snap)); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to record snapshot")
	}

	return snap, nil
}

// Run ticks every interval until ctx is done, then waits for the tick in
// flight. Each tick gets at most one interval to finish.
func (c *Controller) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var wg sync.WaitGroup
	defer wg.Wait()

	tick := func() {
		defer wg.Done()
		tickCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		// Failures are logged by Tick and leave state unchanged
		_, _ = c.Tick(tickCtx)
	}

	wg.Add(1)
	go tick()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			wg.Add(1)
			go tick()
		}
	}
}

func (c *Controller) logFetchError(err error) {
	var appErr errors.Error
	switch {
	case errors.HasCode(err, telemetry.ErrBackoff):
		c.logger.Debug().Err(err).Msg("Waiting before rediscovery")
	case errors.HasCode(err, telemetry.ErrDiscovering):
		c.logger.Debug().Err(err).Msg("Discovery still running")
	case errors.As(err, &appErr):
		c.logger.ErrorWithContext(appErr, c.source.Name(), "fetch").Msg("Fetch failed, keeping previous state")
	default:
		c.logger.Warn().Err(err).Str("source", c.source.Name()).Msg("Fetch failed, keeping previous state")
	}
}

// SourceName names the telemetry source in use
func (c *Controller) SourceName() string {
	return c.source.Name()
}

// Snapshot returns the current derived view without fetching
func (c *Controller) Snapshot() session.Snapshot {
	return c.session.Snapshot()
}

// Reset starts a new session
func (c *Controller) Reset() session.FitnessState {
	state := c.session.Reset(c.now())

	c.logger.Info().
		Str("session_id", state.SessionID).
		Msg("Session reset")

	return state
}

// Rewards annotates the catalog with the current balance. The balance is
// read once so both results agree.
func (c *Controller) Rewards() (int, []rewards.Option) {
	points := c.session.State().TotalPoints
	return points, c.catalog.Options(points)
}

// Calibrate forwards to the source when it supports calibration
func (c *Controller) Calibrate(ctx context.Context) error {
	calibrator, ok := c.source.(telemetry.Calibrator)
	if !ok {
		return errors.New().WithData(ErrCalibrationOnly, c.source.Name())
	}
	return calibrator.Calibrate(ctx)
}

// History returns stored snapshots of the running session
func (c *Controller) History(ctx context.Context, limit int) ([]metrics.Snapshot, error) {
	return c.collector.History(ctx, c.session.State().SessionID, limit)
}

// ExportCSV writes the latest readings as CSV and returns the file name
func (c *Controller) ExportCSV(w io.Writer) (string, error) {
	now := c.now()
	if err := export.WriteCSV(w, c.session.LastBatch().Readings, now); err != nil {
		return "", errors.New().Wrap(ErrExportFailed, err)
	}
	return export.Filename(now), nil
}

// ExportXLSX writes the latest readings and the timeline as a workbook and
// returns the file name.
func (c *Controller) ExportXLSX(w io.Writer) (string, error) {
	now := c.now()
	if err := export.WriteWorkbook(w, c.session.LastBatch().Readings, c.session.Timeline(), now); err != nil {
		return "", errors.New().Wrap(ErrExportFailed, err)
	}
	return export.WorkbookFilename(now), nil
}

// LogSummary writes the session standing at info level
func (c *Controller) LogSummary() {
	snap := c.session.Snapshot()
	earned := lo.CountBy(snap.Achievements, func(a rewards.Achievement) bool { return a.Earned })

	c.logger.Info().
		Str("session_id", snap.State.SessionID).
		Str("source", c.source.Name()).
		Int("active_minutes", snap.State.ActiveMinutes).
		Int("calories", snap.State.CaloriesBurned).
		Int("target_calories", snap.TargetCalories).
		Float64("session_energy", snap.SessionEnergy).
		Int("points", snap.State.TotalPoints).
		Str("level", string(snap.State.Level)).
		Float64("progress", snap.State.Progress).
		Int("achievements", earned).
		Msg("Session summary")
}

func toMetrics(snap session.Snapshot) *metrics.Snapshot {
	return &metrics.Snapshot{
		Timestamp:       snap.LastUpdate,
		SessionID:       snap.State.SessionID,
		TotalPower:      snap.TotalPower,
		SessionEnergy:   snap.SessionEnergy,
		ActiveEquipment: snap.ActiveCount,
		ActiveMinutes:   snap.State.ActiveMinutes,
		Calories:        snap.State.CaloriesBurned,
		Zone:            string(snap.Zone),
		FitnessPoints:   snap.State.FitnessPoints,
		EnergyPoints:    snap.State.EnergyPoints,
		TotalPoints:     snap.State.TotalPoints,
		Level:           string(snap.State.Level),
		Redeemable:      snap.CanRedeem,
	}
}
