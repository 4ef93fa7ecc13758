// Package workout turns weekly fitness targets into a PFA preparation program.
package workout

import (
	"time"

	"github.com/myrjola/pfaplan/internal/clock"
)

// Archetype names a workout template.
type Archetype string

const (
	RunIntervals Archetype = "run_intervals"
	TempoRun     Archetype = "tempo_run"
	PFACircuit   Archetype = "pfa_circuit"
	StrengthCore Archetype = "strength_core"
	EasyRun      Archetype = "easy_run"
	LongRun      Archetype = "long_run"
	Rest         Archetype = "rest"
)

// Archetypes lists every template that can be requested by name.
var Archetypes = []Archetype{RunIntervals, TempoRun, PFACircuit, StrengthCore, EasyRun, LongRun} //nolint:gochecknoglobals // constant table

// Intensity classifies the training load of a workout.
type Intensity string

const (
	IntensityEasy     Intensity = "easy"
	IntensityModerate Intensity = "moderate"
	IntensityTempo    Intensity = "tempo"
	IntensityHard     Intensity = "hard"
	IntensityRest     Intensity = "rest"
)

// Exercise is one line of a strength main set.
type Exercise struct {
	Name         string `yaml:"name"`
	Prescription string `yaml:"prescription"`
}

// Workout is a single day of the program.
type Workout struct {
	Type              Archetype   `yaml:"type"`
	Week              int         `yaml:"week"`
	Day               string      `yaml:"day"`
	Time              *clock.Time `yaml:"time,omitempty"`
	Activity          string      `yaml:"activity,omitempty"`
	WarmUp            string      `yaml:"warm_up,omitempty"`
	MainSet           string      `yaml:"main_set,omitempty"`
	Exercises         []Exercise  `yaml:"exercises,omitempty"`
	CoolDown          string      `yaml:"cool_down,omitempty"`
	StrengthComponent string      `yaml:"strength_component,omitempty"`
	CoreComponent     string      `yaml:"core_component,omitempty"`
	TotalDuration     int         `yaml:"total_duration,omitempty"`
	Intensity         Intensity   `yaml:"intensity"`
	Focus             string      `yaml:"focus,omitempty"`
	VolumeMultiplier  float64     `yaml:"volume_multiplier"`

	weekday time.Weekday
}

// Weekday returns the day of week the workout is scheduled on.
func (w Workout) Weekday() time.Weekday { return w.weekday }

// IsRest reports whether the workout is a rest day.
func (w Workout) IsRest() bool { return w.Type == Rest }

// Week is one program week ordered Monday through Sunday.
type Week struct {
	Number   int       `yaml:"week"`
	Workouts []Workout `yaml:"workouts"`
}

// Program is the generated multi-week plan.
type Program struct {
	TotalWeeks  int    `yaml:"total_weeks"`
	ProgramType string `yaml:"program_type"`
	Weeks       []Week `yaml:"weekly_workouts"`
}

// ProgramType labels every generated program.
const ProgramType = "PFA_Preparation"
