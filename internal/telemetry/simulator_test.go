package telemetry

import (
	"context"
	"testing"
	"time"

	"codeberg.org/mutker/powergym/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatorFetch(t *testing.T) {
	sim := NewSimulator(7)
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	sim.now = func() time.Time { return now }

	first, err := sim.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, first.Readings, 5)
	assert.InDelta(t, 390.0, first.TotalEnergy, 1e-9, "no elapsed time on the first fetch")

	prevEnergy := first.TotalEnergy
	for i := 0; i < 50; i++ {
		now = now.Add(5 * time.Second)
		batch, err := sim.Fetch(context.Background())
		require.NoError(t, err)

		assert.GreaterOrEqual(t, batch.TotalEnergy, prevEnergy, "energy never decreases")
		prevEnergy = batch.TotalEnergy

		var active float64
		for _, r := range batch.Readings {
			assert.GreaterOrEqual(t, r.Power, 0.0)
			if !r.IsActive {
				assert.Zero(t, r.Power, "idle machines report no power")
			}
			active += r.Power
		}
		assert.InDelta(t, active, batch.TotalPower, 1e-9)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	at := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	a, b := NewSimulator(42), NewSimulator(42)
	a.now = func() time.Time { return at }
	b.now = func() time.Time { return at }

	for i := 0; i < 10; i++ {
		ba, err := a.Fetch(context.Background())
		require.NoError(t, err)
		bb, err := b.Fetch(context.Background())
		require.NoError(t, err)
		assert.Equal(t, ba, bb)
	}
}

func TestSimulatorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulator(1).Fetch(ctx)
	assert.True(t, errors.HasCode(err, ErrOperationTimeout))
}
