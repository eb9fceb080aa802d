package fitness_test

import (
	"testing"

	"codeberg.org/mutker/powergym/internal/errors"
	"codeberg.org/mutker/powergym/internal/fitness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMETLookup(t *testing.T) {
	mets := fitness.DefaultMETs()

	assert.Equal(t, 8.5, mets.Lookup("Treadmill"))
	assert.Equal(t, 7.0, mets.Lookup("Stationary_Bike"))
	assert.Equal(t, 6.0, mets.Lookup("Elliptical"))
	assert.Equal(t, 8.0, mets.Lookup("Rowing_Machine"))
	assert.Equal(t, fitness.DefaultMET, mets.Lookup("Pull_Up_Machine"))
	assert.Equal(t, 8.5, mets.Lookup("treadmill"), "names match case-insensitively")
}

func TestCaloriesBurnedMETsOnly(t *testing.T) {
	calc := fitness.NewCalculator(nil, fitness.PolicyMax)
	p := fitness.DefaultProfile()

	got := calc.CaloriesBurned(p, 60, 0, []string{"Treadmill"})
	assert.Equal(t, 637, got)
}

func TestCaloriesBurnedTakesMaximum(t *testing.T) {
	calc := fitness.NewCalculator(nil, fitness.PolicyMax)
	p := fitness.DefaultProfile()

	// 1000 W for 30 min: 1000*0.86*0.5 = 430; one unknown machine: 5*75*0.5 = 187.5
	assert.Equal(t, 430, calc.CaloriesBurned(p, 30, 1000, []string{"Unknown"}))

	// MET side wins with two machines: (8.5+7)*75*0.5 = 581.25
	assert.Equal(t, 581, calc.CaloriesBurned(p, 30, 1000, []string{"Treadmill", "Stationary_Bike"}))

	assert.Zero(t, calc.CaloriesBurned(p, 0, 1000, []string{"Treadmill"}))
	assert.Zero(t, calc.CaloriesBurned(p, 90, 0, nil))
}

func TestCaloriesBurnedIsMaxOfEstimators(t *testing.T) {
	calc := fitness.NewCalculator(nil, fitness.PolicyMax)
	p := fitness.DefaultProfile()

	for minutes := 0; minutes <= 180; minutes += 15 {
		for power := 0.0; power <= 800; power += 100 {
			est := calc.Estimate(p, minutes, power, []string{"Elliptical"})
			got := calc.CaloriesBurned(p, minutes, power, []string{"Elliptical"})

			assert.GreaterOrEqual(t, float64(got), est.Power-1)
			assert.GreaterOrEqual(t, float64(got), est.METs-1)
			assert.LessOrEqual(t, float64(got), max(est.Power, est.METs))
		}
	}
}

func TestCaloriePolicies(t *testing.T) {
	p := fitness.DefaultProfile()
	active := []string{"Treadmill"}

	power := fitness.NewCalculator(nil, fitness.PolicyPower)
	assert.Equal(t, 86, power.CaloriesBurned(p, 60, 100, active))

	mets := fitness.NewCalculator(nil, fitness.PolicyMETs)
	assert.Equal(t, 637, mets.CaloriesBurned(p, 60, 2000, active))
}

func TestNewCalculatorOverrides(t *testing.T) {
	calc := fitness.NewCalculator(fitness.METTable{"Treadmill": 9.0, "Stairs": 9.5}, "")

	assert.Equal(t, fitness.PolicyMax, calc.Policy)
	assert.Equal(t, 9.0, calc.METs.Lookup("Treadmill"))
	assert.Equal(t, 9.5, calc.METs.Lookup("Stairs"))
	assert.Equal(t, 6.0, calc.METs.Lookup("Elliptical"))
}

func TestParsePolicy(t *testing.T) {
	p, err := fitness.ParsePolicy("MAX")
	require.NoError(t, err)
	assert.Equal(t, fitness.PolicyMax, p)

	p, err = fitness.ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, fitness.PolicyMax, p)

	_, err = fitness.ParsePolicy("average")
	assert.True(t, errors.HasCode(err, errors.ErrInvalidConfig))
}

func TestCalculatorOverridesAreCaseInsensitive(t *testing.T) {
	calc := fitness.NewCalculator(fitness.METTable{"treadmill": 10}, fitness.PolicyMETs)

	assert.Equal(t, 10.0, calc.METs.Lookup("Treadmill"))
	assert.Len(t, calc.METs, len(fitness.DefaultMETs()))
}
