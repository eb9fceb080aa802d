package telemetry

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"codeberg.org/mutker/powergym/internal/errors"
)

const (
	toggleProbability = 0.1
	driftLow          = 0.9
	driftSpan         = 0.2
	nominalVoltage    = 24.0
	wattsPerRPM       = 2.5
)

type simMachine struct {
	name   string
	watts  float64
	energy float64 // Wh
	active bool
}

// Simulator produces plausible readings for a demo floor of machines. Every
// fetch toggles each machine with a small probability and lets active
// machines' output drift by up to ±10%.
type Simulator struct {
	mu       sync.Mutex
	rnd      *rand.Rand
	machines []simMachine
	last     time.Time
	now      func() time.Time
}

func NewSimulator(seed int64) *Simulator {
	return &Simulator{
		rnd: rand.New(rand.NewSource(seed)), //nolint:gosec // simulation only
		machines: []simMachine{
			{name: "Treadmill", watts: 250, energy: 125.0},
			{name: "Stationary_Bike", watts: 180, energy: 135.0, active: true},
			{name: "Elliptical", watts: 100, energy: 41.7},
			{name: "Rowing_Machine", watts: 220, energy: 73.3},
			{name: "Pull_Up_Machine", watts: 60, energy: 15.0},
		},
		now: time.Now,
	}
}

func (*Simulator) Name() string {
	return "simulated"
}

func (s *Simulator) Fetch(ctx context.Context) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, errors.New().Wrap(ErrOperationTimeout, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	var elapsed time.Duration
	if !s.last.IsZero() {
		elapsed = now.Sub(s.last)
	}
	s.last = now

	batch := Batch{
		Readings:  make([]Reading, 0, len(s.machines)),
		FetchedAt: now,
	}

	for i := range s.machines {
		m := &s.machines[i]

		if s.rnd.Float64() < toggleProbability {
			m.active = !m.active
		}
		if m.active {
			m.watts = math.Floor(m.watts * (driftLow + s.rnd.Float64()*driftSpan))
			m.energy += m.watts * elapsed.Hours()
		}

		batch.Readings = append(batch.Readings, m.reading())
		batch.TotalEnergy += m.energy
	}

	return batch.Normalize(), nil
}

func (m *simMachine) reading() Reading {
	r := Reading{
		Name:     m.name,
		Energy:   m.energy,
		IsActive: m.active,
	}
	if m.active {
		r.Power = m.watts
		r.RPM = math.Floor(m.watts / wattsPerRPM)
		r.Voltage = nominalVoltage
		r.Current = m.watts / nominalVoltage
	}
	return r
}
