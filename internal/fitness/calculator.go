package fitness

import (
	"math"
	"strings"

	"codeberg.org/mutker/powergym/internal/errors"
)

const (
	// DefaultMET applies to machines missing from the table
	DefaultMET = 5.0
	// KcalPerWattHour approximates kcal burned per watt sustained for an hour
	KcalPerWattHour = 0.86
)

// METTable maps equipment names to MET coefficients
type METTable map[string]float64

// DefaultMETs covers the machines known to the monitor firmware
func DefaultMETs() METTable {
	return METTable{
		"Treadmill":       8.5,
		"Stationary_Bike": 7.0,
		"Elliptical":      6.0,
		"Rowing_Machine":  8.0,
	}
}

// Lookup returns the MET for name, or DefaultMET when unknown. Names match
// case-insensitively since config keys arrive lowercased.
func (t METTable) Lookup(name string) float64 {
	if met, ok := t[name]; ok {
		return met
	}
	for key, met := range t {
		if strings.EqualFold(key, name) {
			return met
		}
	}
	return DefaultMET
}

func (t METTable) set(name string, met float64) {
	for key := range t {
		if strings.EqualFold(key, name) {
			delete(t, key)
		}
	}
	t[name] = met
}

// CaloriePolicy selects how the power and MET estimates are combined
type CaloriePolicy string

const (
	// PolicyMax takes the larger of both estimates
	PolicyMax   CaloriePolicy = "max"
	PolicyPower CaloriePolicy = "power"
	PolicyMETs  CaloriePolicy = "mets"
)

func ParsePolicy(s string) (CaloriePolicy, error) {
	switch p := CaloriePolicy(strings.ToLower(s)); p {
	case PolicyMax, PolicyPower, PolicyMETs:
		return p, nil
	case "":
		return PolicyMax, nil
	default:
		return "", errors.New().WithData(errors.ErrInvalidConfig, "calorie policy "+s)
	}
}

// Calculator holds the tunables of the calorie estimate
type Calculator struct {
	METs   METTable
	Policy CaloriePolicy
}

func NewCalculator(mets METTable, policy CaloriePolicy) *Calculator {
	table := DefaultMETs()
	for name, met := range mets {
		table.set(name, met)
	}
	if policy == "" {
		policy = PolicyMax
	}

	return &Calculator{METs: table, Policy: policy}
}

// Estimates holds both raw calorie estimates before the policy is applied
type Estimates struct {
	Power float64
	METs  float64
}

func (c *Calculator) Estimate(p Profile, activeMinutes int, power float64, activeEquipment []string) Estimates {
	hours := float64(activeMinutes) / 60

	est := Estimates{Power: power * KcalPerWattHour * hours}
	for _, name := range activeEquipment {
		est.METs += c.METs.Lookup(name) * p.Weight * hours
	}

	return est
}

// CaloriesBurned estimates kcal burned over the active time
func (c *Calculator) CaloriesBurned(p Profile, activeMinutes int, power float64, activeEquipment []string) int {
	est := c.Estimate(p, activeMinutes, power, activeEquipment)

	var kcal float64
	switch c.Policy {
	case PolicyPower:
		kcal = est.Power
	case PolicyMETs:
		kcal = est.METs
	default:
		kcal = math.Max(est.Power, est.METs)
	}

	return int(math.Floor(kcal))
}
