// Package supplement schedules daily and workout-bound supplements and flags intake interactions.
package supplement

import (
	"cmp"
	"slices"
	"time"

	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/config"
)

// Kind tells where an entry came from. Only daily entries are moved when resolving conflicts.
type Kind string

const (
	KindDaily       Kind = "daily"
	KindPreWorkout  Kind = "pre_workout"
	KindPostWorkout Kind = "post_workout"
)

// Category groups entries by purpose.
const (
	CategoryMaintenance = "maintenance"
	CategoryPerformance = "performance"
	CategoryRecovery    = "recovery"
)

// Entry is one supplement intake.
type Entry struct {
	Time      clock.Time `yaml:"time"`
	Name      string     `yaml:"name"`
	Dose      string     `yaml:"dose"`
	Kind      Kind       `yaml:"type"`
	Category  string     `yaml:"category"`
	Condition string     `yaml:"condition,omitempty"`
}

// Scheduler builds supplement schedules from the configured stacks.
type Scheduler struct {
	cfg   config.Supplements
	rules []Rule
	// preDays holds the allowed weekdays per pre-workout item. Items without days are absent.
	preDays map[int][]time.Weekday
}

// NewScheduler validates the pre-workout day filters and uses the default interaction rules.
func NewScheduler(cfg config.Supplements) (*Scheduler, error) {
	s := &Scheduler{cfg: cfg, rules: DefaultRules, preDays: make(map[int][]time.Weekday)}
	for i, item := range cfg.PreWorkout.Items {
		if len(item.Days) == 0 {
			continue
		}
		days := make([]time.Weekday, 0, len(item.Days))
		for _, name := range item.Days {
			d, err := clock.ParseWeekday(name)
			if err != nil {
				return nil, config.Invalid("supplements.pre_workout.items."+item.Name+".days", "%v", err)
			}
			days = append(days, d)
		}
		s.preDays[i] = days
	}
	return s, nil
}

// WithRules replaces the interaction rules.
func (s *Scheduler) WithRules(rules []Rule) *Scheduler {
	clone := *s
	clone.rules = rules
	return &clone
}

// DailySchedule returns the daily stack ordered by time. Entries sharing a time keep their configured order.
func (s *Scheduler) DailySchedule() []Entry {
	var entries []Entry
	for _, stack := range s.cfg.DailyStack {
		for _, item := range stack.Items {
			entries = append(entries, Entry{
				Time:     stack.Time,
				Name:     item.Name,
				Dose:     item.Dose,
				Kind:     KindDaily,
				Category: CategoryMaintenance,
			})
		}
	}
	sortByTime(entries)
	return entries
}

// WorkoutSupplements returns the pre and post workout entries for a workout starting at workout on day.
// Pre-workout items restricted to certain days are skipped on other days.
func (s *Scheduler) WorkoutSupplements(workout clock.Time, day time.Weekday) []Entry {
	var entries []Entry
	if pre := s.cfg.PreWorkout; pre.Enabled {
		at := workout.Add(pre.Timing)
		for i, item := range pre.Items {
			if days, restricted := s.preDays[i]; restricted && !slices.Contains(days, day) {
				continue
			}
			entries = append(entries, Entry{
				Time:     at,
				Name:     item.Name,
				Dose:     item.Dose,
				Kind:     KindPreWorkout,
				Category: CategoryPerformance,
			})
		}
	}
	if post := s.cfg.PostWorkout; post.Enabled {
		at := workout.Add(post.Timing)
		for _, item := range post.Items {
			entries = append(entries, Entry{
				Time:      at,
				Name:      item.Name,
				Dose:      item.Dose,
				Kind:      KindPostWorkout,
				Category:  CategoryRecovery,
				Condition: item.Condition,
			})
		}
	}
	return entries
}

// Day is the resolved schedule of one weekday.
type Day struct {
	Day                 string    `yaml:"day"`
	Supplements         []Entry   `yaml:"supplements"`
	InteractionWarnings []Warning `yaml:"interaction_warnings"`
	TotalSupplements    int       `yaml:"total_supplements"`

	weekday time.Weekday
}

// Weekday returns the day of week.
func (d Day) Weekday() time.Weekday { return d.weekday }

// Week is Monday through Sunday.
type Week []Day

// WeeklySchedule builds every weekday. workouts maps training days to their start time; other days only get the
// daily stack. Each day is optimized once, sorted, and checked again so leftover conflicts are still reported.
func (s *Scheduler) WeeklySchedule(workouts map[time.Weekday]clock.Time) Week {
	week := make(Week, 0, len(clock.Week))
	for _, day := range clock.Week {
		entries := s.DailySchedule()
		if at, ok := workouts[day]; ok {
			entries = append(entries, s.WorkoutSupplements(at, day)...)
		}
		entries = s.OptimizeTiming(entries)
		sortByTime(entries)
		warnings := s.CheckInteractions(entries)
		if warnings == nil {
			warnings = []Warning{}
		}
		week = append(week, Day{
			Day:                 day.String(),
			Supplements:         entries,
			InteractionWarnings: warnings,
			TotalSupplements:    len(entries),
			weekday:             day,
		})
	}
	return week
}

func sortByTime(entries []Entry) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return cmp.Compare(a.Time, b.Time)
	})
}
