package rewards_test

import (
	"testing"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/rewards"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateReferenceSession(t *testing.T) {
	s := rewards.NewEngine().Update(135, 390.0)

	assert.Equal(t, 1350, s.FitnessPoints)
	assert.Equal(t, 1950, s.EnergyPoints)
	assert.Equal(t, 3300, s.TotalPoints)
	assert.Equal(t, rewards.Gold, s.Level)
	assert.Equal(t, rewards.Platinum, s.NextLevel)
	assert.Equal(t, 5000, s.NextThreshold)
	assert.InDelta(t, 66.0, s.Progress, 1e-9)
}

func TestUpdateFloorsEnergyPoints(t *testing.T) {
	s := rewards.NewEngine().Update(0, 0.39)
	assert.Equal(t, 1, s.EnergyPoints)
	assert.Equal(t, 1, s.TotalPoints)
}

func TestLevelLadder(t *testing.T) {
	tests := []struct {
		minutes   int
		level     rewards.Level
		next      rewards.Level
		threshold int
	}{
		{minutes: 0, level: rewards.Bronze, next: rewards.Silver, threshold: 1000},
		{minutes: 99, level: rewards.Bronze, next: rewards.Silver, threshold: 1000},
		{minutes: 100, level: rewards.Silver, next: rewards.Gold, threshold: 3000},
		{minutes: 299, level: rewards.Silver, next: rewards.Gold, threshold: 3000},
		{minutes: 300, level: rewards.Gold, next: rewards.Platinum, threshold: 5000},
		{minutes: 500, level: rewards.Platinum, next: rewards.Diamond, threshold: 10000},
		{minutes: 5000, level: rewards.Platinum, next: rewards.Diamond, threshold: 10000},
	}

	engine := rewards.NewEngine()
	for _, tt := range tests {
		s := engine.Update(tt.minutes, 0)
		assert.Equal(t, tt.level, s.Level, "minutes=%d", tt.minutes)
		assert.Equal(t, tt.next, s.NextLevel, "minutes=%d", tt.minutes)
		assert.Equal(t, tt.threshold, s.NextThreshold, "minutes=%d", tt.minutes)
		assert.Equal(t, tt.level, rewards.LevelFor(s.TotalPoints))
	}
}

func TestProgressIsCapped(t *testing.T) {
	s := rewards.NewEngine().Update(2000, 0)
	assert.Equal(t, 20000, s.TotalPoints)
	assert.Equal(t, 100.0, s.Progress)

	s = rewards.NewEngine().Update(50, 0)
	assert.InDelta(t, 50.0, s.Progress, 1e-9)
}

func TestZeroStanding(t *testing.T) {
	s := rewards.NewEngine().Update(0, 0)
	assert.Equal(t, rewards.Standing{
		Level:         rewards.Bronze,
		NextLevel:     rewards.Silver,
		NextThreshold: 1000,
	}, s)
}

func TestCatalog(t *testing.T) {
	catalog := rewards.DefaultCatalog()

	assert.False(t, rewards.CanRedeem(99))
	assert.True(t, rewards.CanRedeem(100))

	_, err := catalog.Redeemable(99)
	assert.True(t, errors.HasCode(err, errors.ErrInsufficientPoints))

	options := catalog.Options(1200)
	require.Len(t, options, 5)
	assert.True(t, options[0].Eligible)
	assert.True(t, options[2].Eligible)
	assert.False(t, options[3].Eligible)

	redeemable, err := catalog.Redeemable(1200)
	require.NoError(t, err)
	names := make([]string, 0, len(redeemable))
	for _, o := range redeemable {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"Free Protein Shake", "Guest Day Pass", "Personal Training Session"}, names)
}

func TestAchievements(t *testing.T) {
	none := rewards.Achievements(rewards.Progress{})
	require.Len(t, none, 4)
	for _, a := range none {
		assert.False(t, a.Earned, a.Name)
	}

	all := rewards.Achievements(rewards.Progress{EnergyWh: 390, TotalPoints: 3300, Calories: 1847, MachinesUsed: 5})
	for _, a := range all {
		assert.True(t, a.Earned, a.Name)
	}

	some := rewards.Achievements(rewards.Progress{EnergyWh: 299.9, TotalPoints: 3000})
	assert.False(t, some[0].Earned)
	assert.True(t, some[1].Earned)
}
