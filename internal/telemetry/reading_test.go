package telemetry_test

import (
	"math"
	"testing"

	"codeberg.org/mutker/powergym/internal/telemetry"
	"github.com/stretchr/testify/assert"
)

func TestReadingNormalize(t *testing.T) {
	r := telemetry.Reading{
		Name:    "Treadmill",
		Power:   -12,
		Energy:  math.NaN(),
		RPM:     math.Inf(1),
		Weight:  -3,
		Voltage: -1.5,
		Current: math.NaN(),
	}.Normalize()

	assert.Zero(t, r.Power)
	assert.Zero(t, r.Energy)
	assert.Zero(t, r.RPM)
	assert.Zero(t, r.Weight)
	assert.Equal(t, -1.5, r.Voltage, "voltage may legitimately be negative")
	assert.Zero(t, r.Current)
}

func TestReadingDisplay(t *testing.T) {
	r := telemetry.Reading{
		Name:     "Stationary_Bike",
		Power:    180.4,
		Energy:   135,
		RPM:      72,
		Weight:   12.3,
		Voltage:  24,
		Current:  7.5,
		IsActive: true,
	}

	assert.Equal(t, "ACTIVE", r.Status())
	assert.Equal(t, "72RPM • 135.0Wh • 180W", r.Summary())
	assert.Equal(t, "Weight: 12.3kg | V: 24.0V | I: 7.50A", r.Details())

	r.IsActive = false
	assert.Equal(t, "IDLE", r.Status())
}

func TestBatchAggregates(t *testing.T) {
	b := telemetry.Batch{
		Readings: []telemetry.Reading{
			{Name: "Treadmill", Power: 250, RPM: 100, Weight: 10, Voltage: 24, Current: 10, IsActive: true},
			{Name: "Elliptical", Power: 0, RPM: 0, Weight: 20, Voltage: 0, Current: 0},
			{Name: "Rowing_Machine", Power: 50, RPM: 30, Weight: 30, Voltage: 12, Current: 2.5, IsActive: true},
		},
	}.Normalize()

	assert.Equal(t, 300.0, b.TotalPower, "total power falls back to the reading sum")
	assert.True(t, b.AnyActive())
	assert.Equal(t, []string{"Treadmill", "Rowing_Machine"}, b.ActiveNames())

	s := b.Summary()
	assert.Equal(t, []string{"T: 100 RPM", "B: 0 RPM", "E: 30 RPM"}, s.Speeds)
	assert.InDelta(t, 20.0, s.AverageWeight, 1e-9)
	assert.InDelta(t, 196.2, s.Force, 1e-9)
	assert.InDelta(t, 36.0, s.TotalVoltage, 1e-9)
	assert.InDelta(t, 12.5, s.TotalCurrent, 1e-9)
}

func TestBatchSummaryEmpty(t *testing.T) {
	s := telemetry.Batch{}.Summary()
	assert.Empty(t, s.Speeds)
	assert.Zero(t, s.AverageWeight)
	assert.False(t, telemetry.Batch{}.AnyActive())
}

func TestSpeedLabelsBeyondFour(t *testing.T) {
	b := telemetry.Batch{Readings: make([]telemetry.Reading, 5)}
	assert.Equal(t, "#5: 0 RPM", b.Summary().Speeds[4])
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		ms   int64
		want string
	}{
		{ms: 999, want: "0s"},
		{ms: 45_000, want: "45s"},
		{ms: 125_000, want: "2m 5s"},
		{ms: 2*3_600_000 + 15*60_000, want: "2h 15m"},
		{ms: 3*86_400_000 + 4*3_600_000, want: "3d 4h"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, telemetry.FormatUptime(tt.ms))
	}
}
