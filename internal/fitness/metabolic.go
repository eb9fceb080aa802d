package fitness

import "math"

const (
	// ActivityMultiplier is the moderately-active TDEE factor
	ActivityMultiplier = 1.55
	// WeightLossDeficit is subtracted from TDEE for the weight loss target
	WeightLossDeficit = 500
)

type Zone string

const (
	ZoneRest     Zone = "Rest"
	ZoneLight    Zone = "Light"
	ZoneModerate Zone = "Moderate"
	ZoneVigorous Zone = "Vigorous"
	ZoneMaximum  Zone = "Maximum"
)

// BMR estimates basal metabolic rate in kcal/day. The result is not clamped.
func BMR(p Profile) float64 {
	if p.Gender == Male {
		return 66.47 + 13.75*p.Weight + 5.003*p.Height - 6.755*float64(p.Age)
	}
	return 655.1 + 9.563*p.Weight + 1.850*p.Height - 4.676*float64(p.Age)
}

// TDEE is total daily energy expenditure at a moderate activity level
func TDEE(p Profile) float64 {
	return BMR(p) * ActivityMultiplier
}

// TargetCalories is the daily intake target for the profile. Every goal
// uses the weight loss deficit for now.
func TargetCalories(p Profile) int {
	return int(math.Floor(TDEE(p) - WeightLossDeficit))
}

// CalorieProgress is burned/target as a percentage capped at 100
func CalorieProgress(burned, target int) float64 {
	if target <= 0 {
		return 0
	}
	return math.Min(float64(burned)/float64(target)*100, 100)
}

// HeartRateZone approximates the training zone from total power output
func HeartRateZone(power float64) Zone {
	switch {
	case power < 50:
		return ZoneRest
	case power < 150:
		return ZoneLight
	case power < 300:
		return ZoneModerate
	case power < 500:
		return ZoneVigorous
	default:
		return ZoneMaximum
	}
}
