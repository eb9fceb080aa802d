package session_test

import (
	"sync"
	"testing"
	"time"

	"codeberg.org/mutker/powergym/internal/fitness"
	"codeberg.org/mutker/powergym/internal/rewards"
	"codeberg.org/mutker/powergym/internal/session"
	"codeberg.org/mutker/powergym/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newSession(capacity int) *session.Session {
	return session.New(session.Config{
		Profile:          fitness.DefaultProfile(),
		TimelineCapacity: capacity,
	}, start)
}

func batchAt(offset time.Duration, energy float64, readings ...telemetry.Reading) telemetry.Batch {
	return telemetry.Batch{
		Readings:    readings,
		TotalEnergy: energy,
		FetchedAt:   start.Add(offset),
	}.Normalize()
}

func treadmill(power float64, active bool) telemetry.Reading {
	return telemetry.Reading{Name: "Treadmill", Power: power, IsActive: active}
}

func TestNewSessionIsZeroed(t *testing.T) {
	s := newSession(10)
	state := s.State()

	assert.NotEmpty(t, state.SessionID)
	assert.Equal(t, start, state.SessionStart)
	assert.Zero(t, state.ActiveMinutes)
	assert.Zero(t, state.TotalPoints)
	assert.Equal(t, rewards.Bronze, state.Level)
	assert.Empty(t, s.Timeline())
}

func TestTickPipeline(t *testing.T) {
	s := newSession(10)

	snap := s.Tick(batchAt(60*time.Minute, 390, treadmill(0, true)))

	assert.Equal(t, 60, snap.State.ActiveMinutes)
	assert.Equal(t, 637, snap.State.CaloriesBurned, "MET estimate wins at zero power")
	assert.Equal(t, fitness.ZoneRest, snap.Zone)
	assert.Equal(t, 600, snap.State.FitnessPoints)
	assert.Equal(t, 1950, snap.State.EnergyPoints)
	assert.Equal(t, 2550, snap.State.TotalPoints)
	assert.Equal(t, rewards.Silver, snap.State.Level)
	assert.True(t, snap.CanRedeem)
	assert.Equal(t, 2265, snap.TargetCalories)
	assert.Equal(t, 1784.0, snap.BMR)
	assert.Equal(t, 1, snap.ActiveCount)
	require.Len(t, snap.Timeline, 1)
	assert.Equal(t, start.Add(60*time.Minute), snap.Timeline[0].Timestamp)
}

func TestActiveMinutesOnlyAdvanceWhileActive(t *testing.T) {
	s := newSession(10)

	s.Tick(batchAt(10*time.Minute, 0, treadmill(200, true)))
	assert.Equal(t, 10, s.State().ActiveMinutes)

	s.Tick(batchAt(25*time.Minute, 0, treadmill(0, false)))
	assert.Equal(t, 10, s.State().ActiveMinutes, "idle ticks keep the previous value")

	s.Tick(batchAt(30*time.Minute+59*time.Second, 0, treadmill(200, true)))
	assert.Equal(t, 30, s.State().ActiveMinutes)

	s.Tick(batchAt(20*time.Minute, 0, treadmill(200, true)))
	assert.Equal(t, 30, s.State().ActiveMinutes, "active minutes never decrease")
}

func TestTimelineWindow(t *testing.T) {
	s := newSession(3)

	for i := 0; i < 5; i++ {
		s.Tick(batchAt(time.Duration(i)*time.Second, 0, treadmill(float64(100*i), true)))
	}

	points := s.Timeline()
	require.Len(t, points, 3)
	assert.Equal(t, 200.0, points[0].TotalPower)
	assert.Equal(t, 400.0, points[2].TotalPower)
}

func TestResetIsObservablyIdempotent(t *testing.T) {
	s := newSession(10)
	for i := 1; i <= 5; i++ {
		s.Tick(batchAt(time.Duration(i)*20*time.Minute, float64(i)*100, treadmill(450, true)))
	}
	before := s.State()
	require.NotZero(t, before.TotalPoints)

	resetAt := start.Add(3 * time.Hour)
	for i := 0; i < 2; i++ {
		state := s.Reset(resetAt)

		assert.NotEqual(t, before.SessionID, state.SessionID)
		assert.Equal(t, resetAt, state.SessionStart)
		assert.Zero(t, state.ActiveMinutes)
		assert.Zero(t, state.CaloriesBurned)
		assert.Zero(t, state.FitnessPoints)
		assert.Zero(t, state.EnergyPoints)
		assert.Zero(t, state.TotalPoints)
		assert.Equal(t, rewards.Bronze, state.Level)
		assert.Empty(t, s.Timeline())
	}
}

func TestResetRebasesEnergy(t *testing.T) {
	s := newSession(10)
	s.Tick(batchAt(time.Minute, 200, treadmill(100, false)))
	s.Reset(start.Add(2 * time.Minute))

	snap := s.Tick(batchAt(3*time.Minute, 210, treadmill(100, false)))
	assert.InDelta(t, 10.0, snap.SessionEnergy, 1e-9)
	assert.Equal(t, 50, snap.State.EnergyPoints)

	snap = s.Tick(batchAt(4*time.Minute, 4, treadmill(100, false)))
	assert.InDelta(t, 4.0, snap.SessionEnergy, 1e-9, "a device counter restart drops the baseline")
}

func TestMissingEnergyKeepsBaseline(t *testing.T) {
	s := newSession(10)
	s.Tick(batchAt(time.Minute, 500, treadmill(100, false)))
	s.Reset(start.Add(2 * time.Minute))

	snap := s.Tick(batchAt(3*time.Minute, 0, treadmill(100, false)))
	assert.Zero(t, snap.SessionEnergy)

	snap = s.Tick(batchAt(4*time.Minute, 501, treadmill(100, false)))
	assert.InDelta(t, 1.0, snap.SessionEnergy, 1e-9)
	assert.Equal(t, 5, snap.State.EnergyPoints)

	snap = s.Tick(batchAt(5*time.Minute, 0, treadmill(100, false)))
	assert.InDelta(t, 1.0, snap.SessionEnergy, 1e-9, "a missing total holds the last session energy")

	s.Reset(start.Add(6 * time.Minute))
	snap = s.Tick(batchAt(7*time.Minute, 503, treadmill(100, false)))
	assert.InDelta(t, 2.0, snap.SessionEnergy, 1e-9, "reset rebases on the last reported total")
}

func TestAchievementsTrackDistinctMachines(t *testing.T) {
	s := newSession(10)
	names := []string{"Treadmill", "Stationary_Bike", "Elliptical", "Rowing_Machine", "Pull_Up_Machine"}

	var snap session.Snapshot
	for i, name := range names {
		snap = s.Tick(batchAt(time.Duration(i+1)*time.Minute, 0, telemetry.Reading{Name: name, Power: 100, IsActive: true}))
	}

	byName := map[string]bool{}
	for _, a := range snap.Achievements {
		byName[a.Name] = a.Earned
	}
	assert.True(t, byName["Equipment Master"])
	assert.False(t, byName["Energy Generator"])
}

func TestConcurrentReadsDuringTicks(t *testing.T) {
	s := newSession(30)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.Tick(batchAt(time.Duration(i)*time.Second, float64(i), treadmill(150, true)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			snap := s.Snapshot()
			assert.LessOrEqual(t, len(snap.Timeline), 30)
		}
	}()
	wg.Wait()

	assert.Equal(t, 30, len(s.Timeline()))
}

func TestLastBatchIsACopy(t *testing.T) {
	s := newSession(10)
	s.Tick(batchAt(time.Minute, 0, treadmill(100, true)))

	b := s.LastBatch()
	b.Readings[0].Name = "changed"

	assert.Equal(t, "Treadmill", s.LastBatch().Readings[0].Name)
}
