package telemetry

import (
	"context"
	"time"
)

// Source supplies one batch of equipment readings per tick. Implementations
// own their transport; the core only ever sees normalized batches.
type Source interface {
	Fetch(ctx context.Context) (Batch, error)
	Name() string
}

// Calibrator is implemented by sources that can recalibrate their sensors
type Calibrator interface {
	Calibrate(ctx context.Context) error
}

// Reading is one machine's instantaneous state
type Reading struct {
	Name     string  `json:"name"`
	Power    float64 `json:"power"`  // W, never negative
	Energy   float64 `json:"energy"` // Wh, cumulative
	RPM      float64 `json:"rpm"`
	Weight   float64 `json:"weight"`  // kg
	Voltage  float64 `json:"voltage"` // V
	Current  float64 `json:"current"` // A
	IsActive bool    `json:"active"`
}

// Batch is everything a source reported for a single tick
type Batch struct {
	Readings    []Reading `json:"equipment"`
	TotalEnergy float64   `json:"total_energy"` // Wh, device cumulative
	TotalPower  float64   `json:"total_power"`  // W
	FetchedAt   time.Time `json:"fetched_at"`
}
