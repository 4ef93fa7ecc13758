// Package config defines the typed plan configuration and loads it from YAML.
package config

import (
	"fmt"
	"time"

	"github.com/myrjola/pfaplan/internal/clock"
	"gopkg.in/yaml.v3"
)

// Buffer week keys.
const (
	MetricRun     = "run"
	MetricPushups = "pushups"
	MetricSitups  = "situps"
)

// Config is the complete, validated plan configuration.
type Config struct {
	Timeline    Timeline    `yaml:"timeline"`
	Fitness     Fitness     `yaml:"fitness"`
	Nutrition   Nutrition   `yaml:"nutrition"`
	Supplements Supplements `yaml:"supplements"`
	Training    Training    `yaml:"training"`
	Progression Progression `yaml:"progression"`
	Calendar    Calendar    `yaml:"calendar"`
	Recipes     *Recipes    `yaml:"recipe_config,omitempty"`
}

type Timeline struct {
	StartDate Date `yaml:"start_date"`
	Weeks     int  `yaml:"weeks"`
	// BufferWeeks holds trailing plateau weeks per metric (run, pushups, situps).
	BufferWeeks map[string]int `yaml:"buffer_weeks"`
}

// Date is a calendar date encoded as YYYY-MM-DD.
type Date struct {
	time.Time
}

func (d Date) MarshalYAML() (any, error) {
	return d.Format(time.DateOnly), nil
}

func (d *Date) UnmarshalYAML(node *yaml.Node) error {
	t, err := time.Parse(time.DateOnly, node.Value)
	if err != nil {
		return fmt.Errorf("line %d: parse date: %w", node.Line, err)
	}
	d.Time = t
	return nil
}

type Fitness struct {
	Baseline     Metrics `yaml:"baseline"`
	Goals        Metrics `yaml:"goals"`
	PFAStandards Metrics `yaml:"pfa_standards"`
}

// Metrics are the assessed PFA components. RunTime is a 1.5 mile time in "M:SS".
type Metrics struct {
	RunTime string `yaml:"run_time"`
	Pushups int    `yaml:"pushups"`
	Situps  int    `yaml:"situps"`
}

type Nutrition struct {
	EatingWindow       EatingWindow       `yaml:"eating_window"`
	CalorieGoals       CalorieGoals       `yaml:"calorie_goals"`
	Macros             Macros             `yaml:"macros"`
	MealTiming         MealTiming         `yaml:"meal_timing"`
	DietaryPreferences DietaryPreferences `yaml:"dietary_preferences"`
	MealDatabase       *MealDatabase      `yaml:"meal_database,omitempty"`
	// MealGeneration overrides the generation rules embedded in the meal database.
	MealGeneration *MealGeneration `yaml:"meal_generation,omitempty"`
}

// EatingWindowTimeRestricted limits meals to StartTime..EndTime. Any other type means 06:00-22:00.
const EatingWindowTimeRestricted = "time_restricted"

type EatingWindow struct {
	Type      string     `yaml:"type"`
	StartTime clock.Time `yaml:"start_time"`
	EndTime   clock.Time `yaml:"end_time"`
}

type CalorieGoals struct {
	Target int `yaml:"target"`
}

// Macros are percentages of the calorie target and must sum to 100.
type Macros struct {
	Protein int `yaml:"protein"`
	Carbs   int `yaml:"carbs"`
	Fat     int `yaml:"fat"`
}

type MealTiming struct {
	// PreWorkout is a negative offset in minutes from the workout start.
	PreWorkout   int `yaml:"pre_workout"`
	PostWorkout  int `yaml:"post_workout"`
	MealsPerDay  int `yaml:"meals_per_day"`
	SnacksPerDay int `yaml:"snacks_per_day"`
}

type DietaryPreferences struct {
	Restrictions []string `yaml:"restrictions"`
	Allergies    []string `yaml:"allergies"`
	Dislikes     []string `yaml:"dislikes"`
}

type Supplements struct {
	DailyStack  []StackEntry `yaml:"daily_stack"`
	PreWorkout  WorkoutStack `yaml:"pre_workout"`
	PostWorkout WorkoutStack `yaml:"post_workout"`
}

type StackEntry struct {
	Time  clock.Time       `yaml:"time"`
	Items []SupplementItem `yaml:"items"`
}

type SupplementItem struct {
	Name string `yaml:"name"`
	Dose string `yaml:"dose"`
	// Days restricts a pre-workout item to these weekdays ("Mon", "Wed", ...). Empty means every workout day.
	Days      []string `yaml:"days,omitempty"`
	Condition string   `yaml:"condition,omitempty"`
}

type WorkoutStack struct {
	Enabled bool `yaml:"enabled"`
	// Timing is the offset in minutes from the workout start.
	Timing int              `yaml:"timing"`
	Items  []SupplementItem `yaml:"items"`
}

type Training struct {
	Schedule     Schedule     `yaml:"schedule"`
	WorkoutTimes WorkoutTimes `yaml:"workout_times"`
}

type Schedule struct {
	WorkoutDays  []string `yaml:"workout_days"`
	StrengthDays []string `yaml:"strength_days"`
	RestDays     []string `yaml:"rest_days"`
	// EasyDay is the rest day that still gets an easy run. Defaults to Sat.
	EasyDay string `yaml:"easy_day,omitempty"`
}

// WorkoutTimes are the start times per day category. Nil means not configured.
type WorkoutTimes struct {
	WorkoutDays  *clock.Time `yaml:"workout_days,omitempty"`
	StrengthDays *clock.Time `yaml:"strength_days,omitempty"`
	EasyDays     *clock.Time `yaml:"easy_days,omitempty"`
}

type Progression struct {
	AdaptationPeriods AdaptationPeriods `yaml:"adaptation_periods"`
}

// AdaptationPeriods makes every Frequency-th week a deload week trained at Reduction volume.
type AdaptationPeriods struct {
	Frequency int     `yaml:"frequency"`
	Reduction float64 `yaml:"reduction"`
}

// Calendar stream keys in Calendar.SeparateCalendars.
const (
	StreamWorkout     = "workout"
	StreamMeals       = "meals"
	StreamSupplements = "supplements"
)

type Calendar struct {
	Timezone          string                    `yaml:"timezone"`
	OutputDir         string                    `yaml:"output_dir"`
	SeparateCalendars map[string]CalendarStream `yaml:"separate_calendars"`
	ExportFormats     []string                  `yaml:"export_formats"`
}

type CalendarStream struct {
	Name            string `yaml:"name"`
	Color           string `yaml:"color,omitempty"`
	Location        string `yaml:"location,omitempty"`
	DefaultDuration int    `yaml:"default_duration"`
	// Reminders are minutes relative to the event start, usually negative.
	Reminders []int `yaml:"reminders,omitempty"`
}

// Recipe integration modes.
const (
	// RecipeModeBlend mixes whole recipes into the option list next to component meals.
	RecipeModeBlend = "blend"
	// RecipeModeEnhance attaches a matching recipe to every component meal.
	RecipeModeEnhance = "enhance"
)

type Recipes struct {
	EnableRecipes      *bool         `yaml:"enable_recipes,omitempty"`
	Mode               string        `yaml:"mode"`
	RecipeRatio        float64       `yaml:"recipe_ratio"`
	MaxRecipesPerMeal  int           `yaml:"max_recipes_per_meal"`
	MaxRecipes         int           `yaml:"max_recipes"`
	DietaryFilters     []string      `yaml:"dietary_filters,omitempty"`
	CacheTTL           time.Duration `yaml:"cache_ttl"`
	RequestTimeout     time.Duration `yaml:"request_timeout"`
	MinRequestInterval time.Duration `yaml:"min_request_interval"`
	MaxFailuresPerAPI  int           `yaml:"max_failures_per_api"`
	APIs               RecipeAPIs    `yaml:"recipe_apis"`
}

// Enabled reports whether recipe fetching should run. A present section defaults to enabled.
func (r *Recipes) Enabled() bool {
	if r == nil {
		return false
	}
	return r.EnableRecipes == nil || *r.EnableRecipes
}

type RecipeAPIs struct {
	TheMealDB   RecipeAPI `yaml:"themealdb"`
	Edamam      RecipeAPI `yaml:"edamam"`
	Spoonacular RecipeAPI `yaml:"spoonacular"`
}

type RecipeAPI struct {
	Enabled bool   `yaml:"enabled"`
	AppID   string `yaml:"app_id,omitempty"`
	AppKey  string `yaml:"app_key,omitempty"`
	APIKey  string `yaml:"api_key,omitempty"`
	// BaseURL overrides the public endpoint, e.g. for a proxy.
	BaseURL string `yaml:"base_url,omitempty"`
}
