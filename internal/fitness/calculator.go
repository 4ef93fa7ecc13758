// Package fitness computes week by week PFA progressions from baseline to goal.
package fitness

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/errors"
)

// ErrBufferTooLarge is returned by [Interpolate] when the buffer leaves no progression weeks.
var ErrBufferTooLarge = errors.NewSentinel("buffer weeks exceed total timeline weeks")

// Targets are the goals of a single week.
type Targets struct {
	RunTime    string `yaml:"run_time"`
	RunSeconds int    `yaml:"-"`
	Pushups    int    `yaml:"pushups"`
	Situps     int    `yaml:"situps"`
}

// Calculator holds the progressions of one timeline. It is immutable after construction and safe for concurrent use.
type Calculator struct {
	fitness     config.Fitness
	weeks       int
	bufferWeeks map[string]int
	run         []int
	pushups     []int
	situps      []int
	runClamped  bool
}

// NewCalculator computes the run, pushup and situp progressions.
//
// A run goal slower than the PFA standard is replaced by the standard and logged once. A rep goal below the standard,
// unparseable run times, and buffers that consume the whole timeline are reported as *config.ValidationError.
func NewCalculator(
	ctx context.Context,
	logger *slog.Logger,
	fitness config.Fitness,
	weeks int,
	bufferWeeks map[string]int,
) (*Calculator, error) {
	c := &Calculator{
		fitness:     fitness,
		weeks:       weeks,
		bufferWeeks: bufferWeeks,
	}

	baseline, err := parseRunTime("fitness.baseline.run_time", fitness.Baseline.RunTime)
	if err != nil {
		return nil, err
	}
	goal, err := parseRunTime("fitness.goals.run_time", fitness.Goals.RunTime)
	if err != nil {
		return nil, err
	}
	standard, err := parseRunTime("fitness.pfa_standards.run_time", fitness.PFAStandards.RunTime)
	if err != nil {
		return nil, err
	}
	if goal > standard {
		c.runClamped = true
		logger.LogAttrs(ctx, slog.LevelWarn, "run goal does not meet PFA standard, using standard as target",
			slog.String("goal", fitness.Goals.RunTime), slog.String("standard", fitness.PFAStandards.RunTime))
		goal = standard
	}
	if c.run, err = c.interpolate(config.MetricRun, baseline, goal); err != nil {
		return nil, err
	}

	for _, rep := range []struct {
		metric   string
		baseline int
		goal     int
		standard int
		out      *[]int
	}{
		{config.MetricPushups, fitness.Baseline.Pushups, fitness.Goals.Pushups, fitness.PFAStandards.Pushups, &c.pushups},
		{config.MetricSitups, fitness.Baseline.Situps, fitness.Goals.Situps, fitness.PFAStandards.Situps, &c.situps},
	} {
		if rep.goal < rep.standard {
			return nil, config.Invalid("fitness.goals."+rep.metric,
				"goal %d does not meet PFA standard %d", rep.goal, rep.standard)
		}
		if *rep.out, err = c.interpolate(rep.metric, rep.baseline, rep.goal); err != nil {
			return nil, err
		}
	}

	return c, nil
}

func parseRunTime(field, value string) (int, error) {
	secs, err := clock.ParseSeconds(value)
	if err != nil {
		return 0, config.Invalid(field, "%v", err)
	}
	return secs, nil
}

func (c *Calculator) interpolate(metric string, baseline, goal int) ([]int, error) {
	buffer := c.bufferWeeks[metric]
	values, err := Interpolate(baseline, goal, c.weeks, buffer)
	if err != nil {
		return nil, config.Invalid("timeline.buffer_weeks."+metric,
			"%v: buffer %d, weeks %d", err, buffer, c.weeks)
	}
	return values, nil
}

// Interpolate returns one value per week moving linearly from baseline toward goal during the first weeks-buffer
// weeks and holding the last value for the buffer weeks.
//
// The per-week delta is accumulated and every week is rounded half to even on its own, so the plateau can differ
// from goal by rounding drift when the distance does not divide evenly.
func Interpolate(baseline, goal, weeks, buffer int) ([]int, error) {
	effective := weeks - buffer
	if effective <= 0 {
		return nil, ErrBufferTooLarge
	}
	delta := float64(goal-baseline) / float64(effective)
	current := float64(baseline)
	values := make([]int, weeks)
	for week := range weeks {
		if week < effective {
			current += delta
		}
		values[week] = int(math.RoundToEven(current))
	}
	return values, nil
}

// Weeks is the timeline length.
func (c *Calculator) Weeks() int { return c.weeks }

// RunGoalClamped reports whether the run goal was replaced by the PFA standard.
func (c *Calculator) RunGoalClamped() bool { return c.runClamped }

// RunProgression returns the weekly run targets formatted as "M:SS".
func (c *Calculator) RunProgression() []string {
	out := make([]string, len(c.run))
	for i, secs := range c.run {
		out[i] = clock.FormatSeconds(secs)
	}
	return out
}

// PushupProgression returns the weekly pushup targets.
func (c *Calculator) PushupProgression() []int { return clone(c.pushups) }

// SitupProgression returns the weekly situp targets.
func (c *Calculator) SitupProgression() []int { return clone(c.situps) }

func clone(v []int) []int {
	return append([]int(nil), v...)
}

// WeeklyTargets returns the targets for the zero-based week. Weeks past the timeline get the last week's targets.
func (c *Calculator) WeeklyTargets(week int) Targets {
	week = max(0, min(week, c.weeks-1))
	return Targets{
		RunTime:    clock.FormatSeconds(c.run[week]),
		RunSeconds: c.run[week],
		Pushups:    c.pushups[week],
		Situps:     c.situps[week],
	}
}

// AdaptationWeeks returns the zero-based deload weeks of this timeline.
func (c *Calculator) AdaptationWeeks(frequency int) []int {
	return AdaptationWeeks(c.weeks, frequency)
}

// VolumeMultiplier returns reduction on adaptation weeks and 1.0 otherwise.
func (c *Calculator) VolumeMultiplier(week, frequency int, reduction float64) float64 {
	if IsAdaptationWeek(week, frequency) && week < c.weeks {
		return reduction
	}
	return 1.0
}

// AdaptationWeeks returns {f-1, 2f-1, ...} below weeks. A non-positive frequency has no adaptation weeks.
func AdaptationWeeks(weeks, frequency int) []int {
	if frequency <= 0 {
		return nil
	}
	var out []int
	for week := frequency - 1; week < weeks; week += frequency {
		out = append(out, week)
	}
	return out
}

// IsAdaptationWeek reports whether the zero-based week is a deload week.
func IsAdaptationWeek(week, frequency int) bool {
	return frequency > 0 && week >= 0 && (week+1)%frequency == 0
}

// GoalValidation tells whether each goal meets its PFA standard.
type GoalValidation struct {
	RunMeetsStandard     bool `yaml:"run_meets_standard"`
	PushupsMeetsStandard bool `yaml:"pushups_meets_standard"`
	SitupsMeetsStandard  bool `yaml:"situps_meets_standard"`
}

// OK reports whether every goal meets its standard.
func (v GoalValidation) OK() bool {
	return v.RunMeetsStandard && v.PushupsMeetsStandard && v.SitupsMeetsStandard
}

// ValidateGoals compares goals against standards without failing. Unparseable run times count as not meeting.
func ValidateGoals(f config.Fitness) GoalValidation {
	goal, errGoal := clock.ParseSeconds(f.Goals.RunTime)
	standard, errStd := clock.ParseSeconds(f.PFAStandards.RunTime)
	return GoalValidation{
		RunMeetsStandard:     errGoal == nil && errStd == nil && goal <= standard,
		PushupsMeetsStandard: f.Goals.Pushups >= f.PFAStandards.Pushups,
		SitupsMeetsStandard:  f.Goals.Situps >= f.PFAStandards.Situps,
	}
}

// Report summarizes goal validation and the progressions.
type Report struct {
	Validation    GoalValidation `yaml:"validation"`
	TimelineWeeks int            `yaml:"timeline_weeks"`
	BufferWeeks   map[string]int `yaml:"buffer_weeks"`
	Progressions  Progressions   `yaml:"progressions"`
}

type Progressions struct {
	RunTime []string `yaml:"run_time"`
	Pushups []int    `yaml:"pushups"`
	Situps  []int    `yaml:"situps"`
}

// Report builds the progression report.
func (c *Calculator) Report() Report {
	return Report{
		Validation:    ValidateGoals(c.fitness),
		TimelineWeeks: c.weeks,
		BufferWeeks:   c.bufferWeeks,
		Progressions: Progressions{
			RunTime: c.RunProgression(),
			Pushups: c.PushupProgression(),
			Situps:  c.SitupProgression(),
		},
	}
}

func (t Targets) String() string {
	return fmt.Sprintf("run %s, %d pushups, %d situps", t.RunTime, t.Pushups, t.Situps)
}
