package config_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(c *config.Config)
		wantFields []string
	}{
		{
			name:   "default is valid",
			mutate: func(_ *config.Config) {},
		},
		{
			name: "macros must sum to 100",
			mutate: func(c *config.Config) {
				c.Nutrition.Macros.Fat = 25
			},
			wantFields: []string{"nutrition.macros"},
		},
		{
			name: "buffer equal to weeks",
			mutate: func(c *config.Config) {
				c.Timeline.Weeks = 4
			},
			wantFields: []string{"timeline.buffer_weeks.run"},
		},
		{
			name: "unknown buffer metric and bad weekday",
			mutate: func(c *config.Config) {
				c.Timeline.BufferWeeks["plank"] = 1
				c.Training.Schedule.StrengthDays = []string{"Tue", "Tues"}
			},
			wantFields: []string{"timeline.buffer_weeks.plank", "training.schedule.strength_days"},
		},
		{
			name: "adaptation frequency zero",
			mutate: func(c *config.Config) {
				c.Progression.AdaptationPeriods.Frequency = 0
			},
			wantFields: []string{"progression.adaptation_periods.frequency"},
		},
		{
			name: "recipe mode",
			mutate: func(c *config.Config) {
				c.Recipes.Mode = "replace"
			},
			wantFields: []string{"recipe_config.mode"},
		},
		{
			name: "unparseable run time",
			mutate: func(c *config.Config) {
				c.Fitness.Goals.RunTime = "twelve"
			},
			wantFields: []string{"fitness.goals.run_time"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, config.ErrInvalid) {
				t.Fatalf("Validate() error = %v, want ErrInvalid", err)
			}
			for _, field := range tt.wantFields {
				if !strings.Contains(err.Error(), field) {
					t.Errorf("error %q does not mention %s", err, field)
				}
			}
		})
	}
}

func TestAdvisories(t *testing.T) {
	cfg := config.Default()
	if got := cfg.Advisories(); len(got) != 0 {
		t.Fatalf("Advisories() for default = %v, want none", got)
	}

	cfg.Timeline.Weeks = 3
	cfg.Timeline.BufferWeeks = map[string]int{}
	cfg.Fitness.Goals = config.Metrics{RunTime: "14:00", Pushups: 30, Situps: 50}
	cfg.Nutrition.CalorieGoals.Target = 1100

	want := []string{
		"Timeline should be at least 4 weeks for meaningful progression",
		"Run time goal does not meet PFA standards",
		"Pushups goal does not meet PFA standards",
		"Daily calorie target seems too low (minimum 1200 recommended)",
	}
	if diff := cmp.Diff(want, cfg.Advisories()); diff != "" {
		t.Errorf("Advisories() mismatch (-want +got):\n%s", diff)
	}
}

func TestRecipesEnabled(t *testing.T) {
	var nilRecipes *config.Recipes
	if nilRecipes.Enabled() {
		t.Error("nil recipe section reported enabled")
	}
	if !(&config.Recipes{}).Enabled() {
		t.Error("present section without enable_recipes should default to enabled")
	}
	if config.Default().Recipes.Enabled() {
		t.Error("default template should ship with recipes disabled")
	}
}
