package workout

import (
	"fmt"

	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/fitness"
)

// Pace multipliers applied to the goal mile pace.
const (
	paceEasy     = 1.15
	paceModerate = 1.05
	paceTempo    = 0.98
	paceInterval = 0.85
)

// session carries the inputs every template scales with.
type session struct {
	week    int
	volume  float64
	targets fitness.Targets
}

func (e *Engine) session(week int, volume float64) session {
	return session{week: week, volume: volume, targets: e.targets.WeeklyTargets(week)}
}

// pace converts the week's 1.5 mile goal into a per mile pace scaled by multiplier.
func (s session) pace(multiplier float64) string {
	mile := int(float64(s.targets.RunSeconds) / 1.5) //nolint:mnd // 1.5 mile test
	return clock.FormatSeconds(int(float64(mile) * multiplier))
}

var builders = map[Archetype]func(session) Workout{ //nolint:gochecknoglobals // constant table
	RunIntervals: runIntervals,
	TempoRun:     tempoRun,
	PFACircuit:   pfaCircuit,
	StrengthCore: strengthCore,
	EasyRun:      easyRun,
	LongRun:      longRun,
}

func runIntervals(s session) Workout {
	intervals := int(float64(6+(s.week/2)*2) * s.volume)
	return Workout{
		WarmUp:            "10 min easy jog + dynamic warm-up",
		MainSet:           fmt.Sprintf("%d×200m @ %s/mi pace, 2:00 rest", intervals, s.pace(paceInterval)),
		CoolDown:          "10 min easy jog + stretching",
		StrengthComponent: fmt.Sprintf("Push-ups: 4×%d", max(int(float64(s.targets.Pushups)*0.7), 5)),
		TotalDuration:     45,
		Intensity:         IntensityHard,
		Focus:             "speed_endurance",
	}
}

func tempoRun(s session) Workout {
	distance := (1.5 + float64(s.week)*0.25) * s.volume
	var pattern string
	switch {
	case s.week < 4:
		pattern = "jog/walk intervals (3:1 ratio)"
	case s.week < 8:
		pattern = "continuous jog (easy pace)"
	default:
		pattern = fmt.Sprintf("tempo run @ %s/mi", s.pace(paceTempo))
	}
	return Workout{
		WarmUp:   "5 min walk + 5 min easy jog",
		MainSet:  fmt.Sprintf("%.1f mi %s", distance, pattern),
		CoolDown: "5 min walk + stretching",
		CoreComponent: fmt.Sprintf("Core: %d sit-ups, dead bug 2×10/side, side planks 2×30s",
			max(int(float64(s.targets.Situps)*0.6), 10)),
		TotalDuration: 40,
		Intensity:     IntensityModerate,
		Focus:         "aerobic_endurance",
	}
}

func pfaCircuit(s session) Workout {
	rounds := int(float64(3+s.week/4) * s.volume)
	pushups := max(int(float64(s.targets.Pushups)*0.6), 8)
	situps := max(int(float64(s.targets.Situps)*0.5), 12)
	return Workout{
		WarmUp: "10 min dynamic warm-up",
		MainSet: fmt.Sprintf("%d rounds: 400m jog @ %s/mi + %d push-ups + %d sit-ups + 90s rest",
			rounds, s.pace(paceModerate), pushups, situps),
		CoolDown:      "5 min walk + stretching",
		TotalDuration: 50,
		Intensity:     IntensityModerate,
		Focus:         "pfa_simulation",
	}
}

func strengthCore(s session) Workout {
	pushups := int(float64(s.targets.Pushups) * s.volume)
	situps := int(float64(s.targets.Situps) * s.volume)

	var pushupSets string
	switch {
	case s.week < 4:
		pushupSets = fmt.Sprintf("4×%d", max(int(float64(pushups)*0.6), 5))
	case s.week < 8:
		pushupSets = fmt.Sprintf("5×%d", max(int(float64(pushups)*0.7), 8))
	default:
		pushupSets = fmt.Sprintf("6×%d", max(int(float64(pushups)*0.8), 10))
	}

	return Workout{
		WarmUp: "10 min general warm-up",
		Exercises: []Exercise{
			{Name: "push_ups", Prescription: pushupSets},
			{Name: "sit_ups", Prescription: fmt.Sprintf("4×%d", max(int(float64(situps)*0.7), 15))},
			{Name: "dead_bugs", Prescription: "3×10/side"},
			{Name: "squats", Prescription: "3×15-20"},
			{Name: "lunges", Prescription: "3×10/leg"},
			{Name: "pull_ups", Prescription: "3×max reps or assisted"},
			{Name: "dips", Prescription: "3×8-12"},
		},
		CoolDown:      "10 min stretching",
		TotalDuration: 60,
		Intensity:     IntensityModerate,
		Focus:         "strength_endurance",
	}
}

func easyRun(s session) Workout {
	distance := (2.0 + float64(s.week)*0.1) * s.volume
	var kind string
	switch {
	case s.week < 3:
		kind = "brisk walk"
	case s.week < 6:
		kind = "jog/walk"
	default:
		kind = fmt.Sprintf("easy jog @ %s/mi", s.pace(paceEasy))
	}
	return Workout{
		WarmUp:        "5 min walk",
		MainSet:       fmt.Sprintf("%.1f mi %s", distance, kind),
		CoolDown:      "5 min walk + light stretching",
		TotalDuration: 30,
		Intensity:     IntensityEasy,
		Focus:         "recovery",
	}
}

func longRun(s session) Workout {
	distance := (3.0 + float64(s.week)*0.2) * s.volume
	return Workout{
		WarmUp:        "10 min walk + 5 min easy jog",
		MainSet:       fmt.Sprintf("%.1f mi @ %s/mi (conversational pace)", distance, s.pace(paceEasy)),
		CoolDown:      "10 min walk + full stretching routine",
		TotalDuration: int(45 + distance*5),
		Intensity:     IntensityEasy,
		Focus:         "aerobic_base",
	}
}
