// Package nutrition turns calorie and macro targets into gram targets, meal times and a simple weekly meal plan.
package nutrition

import (
	"fmt"
	"math"
	"strings"

	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/config"
	"gopkg.in/yaml.v3"
)

// Energy per gram of each macro.
const (
	kcalPerGramProtein = 4
	kcalPerGramCarbs   = 4
	kcalPerGramFat     = 9
)

// Share of the daily macros eaten in main meals and in snacks.
const (
	mainMealShare = 0.8
	snackShare    = 0.2
)

//nolint:gochecknoglobals // default window when eating is not time restricted
var (
	defaultWindowStart = clock.New(6, 0)
	defaultWindowEnd   = clock.New(22, 0)
)

// Slot names for pre and post workout meals.
const (
	SlotPreWorkout  = "pre_workout"
	SlotPostWorkout = "post_workout"
)

// Macros are gram amounts.
type Macros struct {
	Protein int `yaml:"protein"`
	Carbs   int `yaml:"carbs"`
	Fat     int `yaml:"fat"`
}

// String formats the macros as "Protein: 30g | Carbs: 40g | Fat: 10g".
func (m Macros) String() string {
	return fmt.Sprintf("Protein: %dg | Carbs: %dg | Fat: %dg", m.Protein, m.Carbs, m.Fat)
}

// MealTime is a named eating event.
type MealTime struct {
	Name string
	Time clock.Time
}

// Schedule lists eating events in the order they were planned, which is not necessarily chronological.
type Schedule []MealTime

// Lookup returns the time of the named event.
func (s Schedule) Lookup(name string) (clock.Time, bool) {
	for _, m := range s {
		if m.Name == name {
			return m.Time, true
		}
	}
	return 0, false
}

func (s Schedule) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, m := range s {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Name},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: m.Time.String()})
	}
	return node, nil
}

// Planner derives nutrition targets from a validated nutrition configuration.
type Planner struct {
	cfg config.Nutrition
}

func NewPlanner(cfg config.Nutrition) *Planner {
	return &Planner{cfg: cfg}
}

// MacroGrams converts the macro percentages of the calorie target to grams.
func (p *Planner) MacroGrams() Macros {
	target := float64(p.cfg.CalorieGoals.Target)
	grams := func(percent, kcalPerGram int) int {
		return int(math.RoundToEven(float64(percent) / 100 * target / kcalPerGram)) //nolint:mnd // percent
	}
	return Macros{
		Protein: grams(p.cfg.Macros.Protein, kcalPerGramProtein),
		Carbs:   grams(p.cfg.Macros.Carbs, kcalPerGramCarbs),
		Fat:     grams(p.cfg.Macros.Fat, kcalPerGramFat),
	}
}

// EatingWindow returns the configured window for time restricted eating and 06:00-22:00 otherwise.
func (p *Planner) EatingWindow() (clock.Time, clock.Time) {
	w := p.cfg.EatingWindow
	if w.Type == config.EatingWindowTimeRestricted {
		return w.StartTime, w.EndTime
	}
	return defaultWindowStart, defaultWindowEnd
}

// MealTimes spreads the meals evenly over the eating window and puts snacks between them. With a workout time,
// pre and post workout slots are added first when they fall inside the window.
func (p *Planner) MealTimes(workout *clock.Time) Schedule {
	start, end := p.EatingWindow()
	duration := clock.WindowDuration(start, end)
	startMin, endMin := start.Minutes(), start.Minutes()+duration
	timing := p.cfg.MealTiming

	var schedule Schedule
	if workout != nil {
		for _, slot := range []struct {
			name   string
			offset int
		}{{SlotPreWorkout, timing.PreWorkout}, {SlotPostWorkout, timing.PostWorkout}} {
			m := workout.Minutes() + slot.offset
			if startMin <= m && m <= endMin {
				schedule = append(schedule, MealTime{Name: slot.name, Time: clock.FromMinutes(m)})
			}
		}
	}

	mealInterval := duration / (timing.MealsPerDay + 1)
	for i := range timing.MealsPerDay {
		schedule = append(schedule, MealTime{Name: MealName(i), Time: start.Add(mealInterval * (i + 1))})
	}
	if timing.SnacksPerDay > 0 {
		snackInterval := duration / (timing.SnacksPerDay + 1)
		for i := range timing.SnacksPerDay {
			schedule = append(schedule, MealTime{
				Name: SnackName(i),
				Time: start.Add(mealInterval/2 + snackInterval*i), //nolint:mnd // halfway to the first meal
			})
		}
	}
	return schedule
}

// MealName names the i-th main meal: breakfast, lunch, dinner, then meal_4 and so on.
func MealName(i int) string {
	if names := []string{"breakfast", "lunch", "dinner"}; i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("meal_%d", i+1)
}

// SnackName names the i-th snack, counting from snack_1.
func SnackName(i int) string {
	return fmt.Sprintf("snack_%d", i+1)
}

// IsMainMeal reports whether name is a main meal rather than a snack.
func IsMainMeal(name string) bool {
	return !strings.HasPrefix(name, "snack")
}

// MealMacros is the share of the daily macros for one meal: main meals split 80% of the day, snacks 20%.
func (p *Planner) MealMacros(name string) Macros {
	timing := p.cfg.MealTiming
	share := snackShare / float64(timing.SnacksPerDay)
	if IsMainMeal(name) {
		share = mainMealShare / float64(timing.MealsPerDay)
	}
	if math.IsInf(share, 0) || math.IsNaN(share) {
		return Macros{}
	}
	total := p.MacroGrams()
	scale := func(g int) int { return int(math.RoundToEven(float64(g) * share)) }
	return Macros{Protein: scale(total.Protein), Carbs: scale(total.Carbs), Fat: scale(total.Fat)}
}
