package metrics

import (
	"context"
	"time"
)

// Collector records tick snapshots for later analysis. It never feeds back
// into a running session.
type Collector interface {
	Record(ctx context.Context, snapshot *Snapshot) error
	History(ctx context.Context, sessionID string, limit int) ([]Snapshot, error)
	Close() error
}

// Repository defines the interface for snapshot storage
type Repository interface {
	Record(snapshot *Snapshot) error
	Query(ctx context.Context, sessionID string, limit int) ([]Snapshot, error)
	Close() error
}

// Snapshot is one tick's derived values
type Snapshot struct {
	Timestamp       time.Time `json:"timestamp"`
	SessionID       string    `json:"session_id"`
	TotalPower      float64   `json:"total_power"`
	SessionEnergy   float64   `json:"session_energy"`
	ActiveEquipment int       `json:"active_equipment"`
	ActiveMinutes   int       `json:"active_minutes"`
	Calories        int       `json:"calories"`
	Zone            string    `json:"zone"`
	FitnessPoints   int       `json:"fitness_points"`
	EnergyPoints    int       `json:"energy_points"`
	TotalPoints     int       `json:"total_points"`
	Level           string    `json:"level"`
	Redeemable      bool      `json:"redeemable"`
}
