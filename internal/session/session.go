package session

import (
	"math"
	"sync"
	"time"

	"codeberg.org/mutker/powergym/internal/fitness"
	"codeberg.org/mutker/powergym/internal/rewards"
	"codeberg.org/mutker/powergym/internal/telemetry"
	"codeberg.org/mutker/powergym/internal/timeline"
	"github.com/google/uuid"
)

// FitnessState is the per-session progress. It only changes on Tick and is
// zeroed by Reset.
type FitnessState struct {
	SessionID      string    `json:"session_id"`
	SessionStart   time.Time `json:"session_start"`
	ActiveMinutes  int       `json:"active_minutes"`
	CaloriesBurned int       `json:"calories_burned"`
	rewards.Standing
}

// Snapshot is everything the rendering side needs after a tick
type Snapshot struct {
	State           FitnessState            `json:"state"`
	BMR             float64                 `json:"bmr"`
	TDEE            float64                 `json:"tdee"`
	TargetCalories  int                     `json:"target_calories"`
	CalorieProgress float64                 `json:"calorie_progress"`
	Zone            fitness.Zone            `json:"heart_rate_zone"`
	TotalPower      float64                 `json:"total_power"`
	SessionEnergy   float64                 `json:"session_energy"`
	ActiveCount     int                     `json:"active_equipment"`
	CanRedeem       bool                    `json:"can_redeem"`
	LastUpdate      time.Time               `json:"last_update"`
	Readings        []telemetry.Reading     `json:"equipment"`
	Sensors         telemetry.SensorSummary `json:"sensors"`
	Timeline        []timeline.Point        `json:"timeline"`
	Achievements    []rewards.Achievement   `json:"achievements"`
}

type Config struct {
	Profile          fitness.Profile
	Calculator       *fitness.Calculator
	Engine           *rewards.Engine
	TimelineCapacity int
}

// Session owns the fitness state and power timeline of one workout. Tick
// runs the pipeline in a fixed order: timeline, active time, calories and
// zone, rewards.
type Session struct {
	mu sync.RWMutex

	profile  fitness.Profile
	calc     *fitness.Calculator
	engine   *rewards.Engine
	timeline *timeline.Timeline

	state         FitnessState
	zone          fitness.Zone
	last          telemetry.Batch
	sessionEnergy float64
	energyBase    float64
	lastEnergy    float64
	machinesUsed  map[string]struct{}
}

func New(cfg Config, now time.Time) *Session {
	if cfg.Calculator == nil {
		cfg.Calculator = fitness.NewCalculator(nil, fitness.PolicyMax)
	}
	if cfg.Engine == nil {
		cfg.Engine = rewards.NewEngine()
	}

	s := &Session{
		profile:  cfg.Profile,
		calc:     cfg.Calculator,
		engine:   cfg.Engine,
		timeline: timeline.New(cfg.TimelineCapacity),
	}
	s.reset(now)

	return s
}

// Tick folds one batch of readings into the session
func (s *Session) Tick(batch telemetry.Batch) Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := batch.FetchedAt
	if now.IsZero() {
		now = time.Now()
		batch.FetchedAt = now
	}

	s.timeline.Append(batch.TotalPower, now)

	active := batch.ActiveNames()
	for _, name := range active {
		s.machinesUsed[name] = struct{}{}
	}

	if len(active) > 0 {
		minutes := int(now.Sub(s.state.SessionStart) / time.Minute)
		s.state.ActiveMinutes = max(s.state.ActiveMinutes, minutes)
	}

	// A zero total is a missing field and leaves the session energy alone.
	// A lower nonzero total means the monitor rebooted and its counter restarted.
	if batch.TotalEnergy > 0 {
		if batch.TotalEnergy < s.energyBase {
			s.energyBase = 0
		}
		s.sessionEnergy = batch.TotalEnergy - s.energyBase
		s.lastEnergy = batch.TotalEnergy
	}

	s.state.CaloriesBurned = s.calc.CaloriesBurned(s.profile, s.state.ActiveMinutes, batch.TotalPower, active)
	s.zone = fitness.HeartRateZone(batch.TotalPower)
	s.state.Standing = s.engine.Update(s.state.ActiveMinutes, s.sessionEnergy)
	s.last = batch

	return s.snapshot()
}

// Reset starts a new session. Counters, timeline and machine history are
// cleared together under the write lock.
func (s *Session) Reset(now time.Time) FitnessState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset(now)
	return s.state
}

func (s *Session) reset(now time.Time) {
	s.state = FitnessState{
		SessionID:    uuid.New().String(),
		SessionStart: now,
		Standing:     s.engine.Update(0, 0),
	}
	s.zone = fitness.HeartRateZone(0)
	s.energyBase = s.lastEnergy
	s.sessionEnergy = 0
	s.machinesUsed = make(map[string]struct{})
	s.timeline.Reset()
}

func (s *Session) State() FitnessState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

// LastBatch returns the most recent batch folded into the session
func (s *Session) LastBatch() telemetry.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := s.last
	b.Readings = append([]telemetry.Reading(nil), s.last.Readings...)
	return b
}

func (s *Session) Timeline() []timeline.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.timeline.Samples()
}

func (s *Session) Profile() fitness.Profile {
	return s.profile
}

func (s *Session) snapshot() Snapshot {
	target := fitness.TargetCalories(s.profile)
	readings := append([]telemetry.Reading(nil), s.last.Readings...)

	return Snapshot{
		State:           s.state,
		BMR:             math.Round(fitness.BMR(s.profile)),
		TDEE:            math.Round(fitness.TDEE(s.profile)),
		TargetCalories:  target,
		CalorieProgress: fitness.CalorieProgress(s.state.CaloriesBurned, target),
		Zone:            s.zone,
		TotalPower:      s.last.TotalPower,
		SessionEnergy:   s.sessionEnergy,
		ActiveCount:     len(s.last.Active()),
		CanRedeem:       rewards.CanRedeem(s.state.TotalPoints),
		LastUpdate:      s.last.FetchedAt,
		Readings:        readings,
		Sensors:         s.last.Summary(),
		Timeline:        s.timeline.Samples(),
		Achievements: rewards.Achievements(rewards.Progress{
			EnergyWh:     s.sessionEnergy,
			TotalPoints:  s.state.TotalPoints,
			Calories:     s.state.CaloriesBurned,
			MachinesUsed: len(s.machinesUsed),
		}),
	}
}
