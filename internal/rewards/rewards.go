package rewards

import "math"

const (
	PointsPerActiveMinute = 10
	PointsPerWattHour     = 5
)

type Level string

const (
	Bronze   Level = "Bronze"
	Silver   Level = "Silver"
	Gold     Level = "Gold"
	Platinum Level = "Platinum"
	Diamond  Level = "Diamond"
)

type tier struct {
	level     Level
	minPoints int
	next      Level
	threshold int
}

// ladder is evaluated top-down, first match wins
var ladder = []tier{
	{level: Platinum, minPoints: 5000, next: Diamond, threshold: 10000},
	{level: Gold, minPoints: 3000, next: Platinum, threshold: 5000},
	{level: Silver, minPoints: 1000, next: Gold, threshold: 3000},
	{level: Bronze, minPoints: 0, next: Silver, threshold: 1000},
}

// Standing is the points breakdown and level for a session
type Standing struct {
	FitnessPoints int     `json:"fitness_points"`
	EnergyPoints  int     `json:"energy_points"`
	TotalPoints   int     `json:"total_points"`
	Level         Level   `json:"level"`
	NextLevel     Level   `json:"next_level"`
	NextThreshold int     `json:"next_level_points"`
	Progress      float64 `json:"progress"` // percent, capped at 100
}

// Engine converts activity into points. It only reports standing; callers
// enforce any gating on top of it.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

func (*Engine) Update(activeMinutes int, energyWh float64) Standing {
	s := Standing{
		FitnessPoints: activeMinutes * PointsPerActiveMinute,
		EnergyPoints:  int(math.Floor(energyWh * PointsPerWattHour)),
	}
	s.TotalPoints = s.FitnessPoints + s.EnergyPoints

	t := tierFor(s.TotalPoints)
	s.Level = t.level
	s.NextLevel = t.next
	s.NextThreshold = t.threshold
	s.Progress = math.Min(float64(s.TotalPoints)/float64(t.threshold)*100, 100)

	return s
}

func tierFor(totalPoints int) tier {
	for _, t := range ladder {
		if totalPoints >= t.minPoints {
			return t
		}
	}
	return ladder[len(ladder)-1]
}

// LevelFor returns the level that total points fall into
func LevelFor(totalPoints int) Level {
	return tierFor(totalPoints).level
}
