package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/logger"
	"github.com/samber/lo"
)

type statusResponse struct {
	System string `json:"system"`
	Uptime int64  `json:"uptime"` // ms
}

type energySample struct {
	Name  string  `json:"name"`
	Power float64 `json:"power"`
}

type energyResponse struct {
	TotalEnergy float64        `json:"total_energy"`
	EnergyData  []energySample `json:"energy_data"`
}

type equipmentResponse struct {
	Equipment []Reading `json:"equipment"`
}

// Status is what the monitor reports about itself
type Status struct {
	Host   string        `json:"host"`
	System string        `json:"system"`
	Uptime time.Duration `json:"uptime"`
}

// Hardware polls an ESP32 energy monitor over HTTP. The monitor is found by
// probing candidate hosts; once a fetch fails the connection is dropped and
// discovery runs again after a delay.
//
// A discovery sweep runs in the background and is not bound to the caller's
// context. Close stops it.
type Hardware struct {
	cfg    HardwareConfig
	client *http.Client
	logger logger.Logger
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	host       string
	retryAfter time.Time
	sweep      *sweep
}

// sweep is one pass over the candidate list. host and err are set before
// done is closed.
type sweep struct {
	done chan struct{}
	host string
	err  error
}

func NewHardware(cfg HardwareConfig, log logger.Logger) (*Hardware, error) {
	errFactory := errors.New()

	if err := cfg.Validate(); err != nil {
		return nil, errFactory.Wrap(ErrInvalidConfig, err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Hardware{
		cfg:    cfg,
		client: &http.Client{},
		logger: log,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

func (*Hardware) Name() string {
	return "hardware"
}

// Close stops a running discovery sweep
func (h *Hardware) Close() error {
	h.cancel()
	return nil
}

// Host returns the connected monitor host, or "" when disconnected
func (h *Hardware) Host() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.host
}

// Discover returns the connected host, starting a sweep over the candidate
// hosts if there is none. It waits for the sweep until ctx is done; the sweep
// itself keeps going and a later call picks up its result.
func (h *Hardware) Discover(ctx context.Context) (string, error) {
	errFactory := errors.New()

	h.mu.Lock()
	if h.host != "" {
		host := h.host
		h.mu.Unlock()
		return host, nil
	}
	current := h.sweep
	if current == nil {
		if wait := h.retryAfter.Sub(h.now()); wait > 0 {
			h.mu.Unlock()
			return "", errFactory.WithData(ErrBackoff, wait.Round(time.Second))
		}
		current = &sweep{done: make(chan struct{})}
		h.sweep = current
		go h.runSweep(current)
	}
	h.mu.Unlock()

	select {
	case <-current.done:
		return current.host, current.err
	case <-ctx.Done():
		return "", errFactory.Wrap(ErrDiscovering, ctx.Err())
	}
}

func (h *Hardware) runSweep(s *sweep) {
	defer close(s.done)

	host, err := h.findMonitor()

	h.mu.Lock()
	defer h.mu.Unlock()

	h.sweep = nil
	s.host, s.err = host, err

	switch {
	case err == nil:
		h.host = host
		h.retryAfter = time.Time{}
	case errors.HasCode(err, ErrDeviceNotFound):
		h.retryAfter = h.now().Add(h.cfg.RediscoverDelay)
	}
}

func (h *Hardware) findMonitor() (string, error) {
	errFactory := errors.New()

	for _, candidate := range h.cfg.Candidates {
		if err := h.ctx.Err(); err != nil {
			return "", errFactory.Wrap(ErrOperationTimeout, err)
		}

		status, err := h.probe(h.ctx, candidate)
		if err != nil {
			h.logger.Debug().Str("host", candidate).Err(err).Msg("Monitor not found")
			continue
		}
		if status.System != MonitorSystemName {
			h.logger.Debug().Str("host", candidate).Str("system", status.System).Msg("Ignoring unknown device")
			continue
		}

		h.logger.Info().
			Str("host", candidate).
			Str("uptime", FormatUptime(status.Uptime)).
			Msg("Hardware connected")

		return candidate, nil
	}

	return "", errFactory.New(ErrDeviceNotFound)
}

// Fetch reads the energy and equipment endpoints of the connected monitor,
// discovering it first if needed.
func (h *Hardware) Fetch(ctx context.Context) (Batch, error) {
	errFactory := errors.New()

	host, err := h.Discover(ctx)
	if err != nil {
		return Batch{}, err
	}

	var energy energyResponse
	if err := h.getJSON(ctx, host, "/api/energy", &energy); err != nil {
		h.disconnect(err)
		return Batch{}, errFactory.Wrap(ErrFetchFailed, err)
	}

	var equipment equipmentResponse
	if err := h.getJSON(ctx, host, "/api/equipment", &equipment); err != nil {
		h.disconnect(err)
		return Batch{}, errFactory.Wrap(ErrFetchFailed, err)
	}

	batch := Batch{
		Readings:    equipment.Equipment,
		TotalEnergy: energy.TotalEnergy,
		TotalPower:  lo.SumBy(energy.EnergyData, func(d energySample) float64 { return nonNegative(d.Power) }),
		FetchedAt:   h.now(),
	}

	return batch.Normalize(), nil
}

// Status queries /api/status on the connected monitor
func (h *Hardware) Status(ctx context.Context) (Status, error) {
	errFactory := errors.New()

	host := h.Host()
	if host == "" {
		return Status{}, errFactory.New(ErrNotConnected)
	}

	status, err := h.probe(ctx, host)
	if err != nil {
		return Status{}, errFactory.Wrap(ErrFetchFailed, err)
	}

	return Status{
		Host:   host,
		System: status.System,
		Uptime: time.Duration(status.Uptime) * time.Millisecond,
	}, nil
}

// Calibrate asks the monitor to recalibrate all sensors
func (h *Hardware) Calibrate(ctx context.Context) error {
	errFactory := errors.New()

	host := h.Host()
	if host == "" {
		return errFactory.New(ErrNotConnected)
	}

	body, err := json.Marshal(map[string]string{"action": "calibrate_all"})
	if err != nil {
		return errFactory.Wrap(ErrCalibrateFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint(host, "/api/calibrate"), bytes.NewReader(body))
	if err != nil {
		return errFactory.Wrap(ErrCalibrateFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return errFactory.Wrap(ErrCalibrateFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errFactory.WithData(ErrCalibrateFailed, resp.Status)
	}

	h.logger.Info().Str("host", host).Msg("Sensor calibration started")

	return nil
}

func (h *Hardware) disconnect(cause error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.host == "" {
		return
	}

	h.logger.Warn().Str("host", h.host).Err(cause).Msg("Connection lost")
	h.host = ""
	h.retryAfter = h.now().Add(h.cfg.ReconnectDelay)
}

func (h *Hardware) probe(ctx context.Context, host string) (statusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, h.cfg.ProbeTimeout)
	defer cancel()

	var status statusResponse
	err := h.getJSON(ctx, host, "/api/status", &status)
	return status, err
}

func (h *Hardware) getJSON(ctx context.Context, host, path string, out any) error {
	errFactory := errors.New()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint(host, path), http.NoBody)
	if err != nil {
		return errFactory.Wrap(ErrFetchFailed, err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return errFactory.Wrap(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errFactory.WithData(ErrUnexpectedCode, fmt.Sprintf("%s %s", path, resp.Status))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errFactory.Wrap(ErrDecodeFailed, err)
	}

	return nil
}

func endpoint(host, path string) string {
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return strings.TrimSuffix(host, "/") + path
	}
	return "http://" + host + path
}
