package telemetry

import (
	"fmt"
	"math"

	"github.com/samber/lo"
)

const gravity = 9.81

var speedLabels = []string{"T", "B", "E", "R"}

// SensorSummary aggregates the raw sensor channels across all machines
type SensorSummary struct {
	Speeds        []string `json:"speeds"`
	AverageWeight float64  `json:"average_weight"` // kg
	Force         float64  `json:"force"`          // N
	TotalVoltage  float64  `json:"total_voltage"`  // V
	TotalCurrent  float64  `json:"total_current"`  // A
	TotalPower    float64  `json:"total_power"`    // W
}

// Normalize clamps every numeric channel that is negative, NaN or infinite
// to zero. Sources call it before a reading leaves the transport layer.
func (r Reading) Normalize() Reading {
	r.Power = nonNegative(r.Power)
	r.Energy = nonNegative(r.Energy)
	r.RPM = nonNegative(r.RPM)
	r.Weight = nonNegative(r.Weight)
	r.Voltage = finite(r.Voltage)
	r.Current = finite(r.Current)
	return r
}

// Status is the display label for the machine
func (r Reading) Status() string {
	if r.IsActive {
		return "ACTIVE"
	}
	return "IDLE"
}

// Summary is the one-line stats string shown under the machine name
func (r Reading) Summary() string {
	return fmt.Sprintf("%sRPM • %.1fWh • %.0fW", formatNumber(r.RPM), r.Energy, r.Power)
}

// Details is the raw sensor line shown for the machine
func (r Reading) Details() string {
	return fmt.Sprintf("Weight: %.1fkg | V: %.1fV | I: %.2fA", r.Weight, r.Voltage, r.Current)
}

// TotalReadingPower sums instantaneous power over the batch readings
func (b Batch) TotalReadingPower() float64 {
	return lo.SumBy(b.Readings, func(r Reading) float64 { return r.Power })
}

// Active returns the readings of machines currently in use
func (b Batch) Active() []Reading {
	return lo.Filter(b.Readings, func(r Reading, _ int) bool { return r.IsActive })
}

// ActiveNames returns the names of machines currently in use
func (b Batch) ActiveNames() []string {
	return lo.Map(b.Active(), func(r Reading, _ int) string { return r.Name })
}

// AnyActive reports whether at least one machine is in use
func (b Batch) AnyActive() bool {
	return lo.SomeBy(b.Readings, func(r Reading) bool { return r.IsActive })
}

// Summary computes the sensor panel values for the batch
func (b Batch) Summary() SensorSummary {
	s := SensorSummary{
		Speeds:       make([]string, 0, len(b.Readings)),
		TotalVoltage: lo.SumBy(b.Readings, func(r Reading) float64 { return r.Voltage }),
		TotalCurrent: lo.SumBy(b.Readings, func(r Reading) float64 { return r.Current }),
		TotalPower:   b.TotalPower,
	}
	if len(b.Readings) == 0 {
		return s
	}

	for i, r := range b.Readings {
		s.Speeds = append(s.Speeds, fmt.Sprintf("%s: %s RPM", speedLabel(i), formatNumber(r.RPM)))
	}

	s.AverageWeight = lo.SumBy(b.Readings, func(r Reading) float64 { return r.Weight }) / float64(len(b.Readings))
	s.Force = s.AverageWeight * gravity

	return s
}

// Normalize clamps all readings and fills TotalPower from the readings when
// the source did not report it.
func (b Batch) Normalize() Batch {
	b.Readings = lo.Map(b.Readings, func(r Reading, _ int) Reading { return r.Normalize() })
	b.TotalEnergy = nonNegative(b.TotalEnergy)
	b.TotalPower = nonNegative(b.TotalPower)
	if b.TotalPower == 0 {
		b.TotalPower = b.TotalReadingPower()
	}
	return b
}

// FormatUptime renders a device uptime given in milliseconds
func FormatUptime(milliseconds int64) string {
	seconds := milliseconds / 1000
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, seconds%60)
	default:
		return fmt.Sprintf("%ds", seconds)
	}
}

func speedLabel(i int) string {
	if i < len(speedLabels) {
		return speedLabels[i]
	}
	return fmt.Sprintf("#%d", i+1)
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%g", v)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
