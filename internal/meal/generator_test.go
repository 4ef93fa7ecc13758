package meal_test

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/meal"
	"github.com/myrjola/pfaplan/internal/testhelpers"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // deterministic tests
}

// snackDB has five interchangeable single-item snacks, so every option is one distinct protein.
func snackDB() *config.MealDatabase {
	var proteins []config.FoodItem
	for i := 1; i <= 5; i++ {
		proteins = append(proteins, config.FoodItem{
			Name: fmt.Sprintf("P%d", i), Calories: 200, Protein: 20, Carbs: 10, Fat: 5, PrepTime: i,
			Portion: "1 serving", MealTypes: []string{meal.Snack},
		})
	}
	return &config.MealDatabase{
		Components: map[string][]config.FoodItem{"proteins": proteins},
		Generation: &config.MealGeneration{
			OptionsPerMeal: 3,
			CombinationRules: map[string]config.CombinationRule{
				meal.Snack: {
					RequiredComponents: []string{"proteins"},
					MinProtein:         15,
					TargetCalories:     &config.CalorieRange{Min: 150, Max: 400},
				},
			},
		},
	}
}

func overlap(a, b meal.Option) float64 {
	names := map[string]bool{}
	for _, item := range a.Items {
		names[item.Name] = true
	}
	shared := 0
	seen := map[string]bool{}
	for _, item := range b.Items {
		if names[item.Name] && !seen[item.Name] {
			shared++
		}
		seen[item.Name] = true
	}
	return float64(shared) / float64(max(len(names), len(seen)))
}

func TestGeneratorProperties(t *testing.T) {
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db := config.Default().Nutrition.MealDatabase

	for seed := range uint64(25) {
		gen := meal.NewGenerator(logger, db, seeded(seed))
		for _, day := range []time.Weekday{time.Monday, time.Saturday} {
			for _, mealType := range []string{meal.Breakfast, meal.Lunch, meal.Dinner, meal.Snack} {
				rule, _ := gen.Rule(mealType)
				lo, hi := rule.CalorieBounds()
				options := gen.Options(ctx, mealType, day, 4)

				if len(options) > 4 {
					t.Fatalf("seed %d %s: %d options, want at most 4", seed, mealType, len(options))
				}
				for i, o := range options {
					if o.Type != meal.TypeComponentOnly {
						t.Errorf("seed %d %s: type %q", seed, mealType, o.Type)
					}
					if o.Totals.Protein < rule.MinProtein {
						t.Errorf("seed %d %s: protein %.0f below %.0f", seed, mealType, o.Totals.Protein, rule.MinProtein)
					}
					if o.Totals.Calories < lo || o.Totals.Calories > hi {
						t.Errorf("seed %d %s: calories %.0f outside [%.0f, %.0f]", seed, mealType, o.Totals.Calories, lo, hi)
					}
					for _, earlier := range options[:i] {
						if r := overlap(earlier, o); r > 0.5 {
							t.Errorf("seed %d %s: options %q and %q overlap %.2f", seed, mealType,
								earlier.Description, o.Description, r)
						}
					}
					if hasToast, hasOats := containsItem(o, "Whole Grain Toast"), containsItem(o, "Steel-Cut Oats"); hasToast && hasOats {
						t.Errorf("seed %d: excluded items combined in %q", seed, o.Description)
					}
				}
			}
		}
	}
}

func containsItem(o meal.Option, name string) bool {
	for _, item := range o.Items {
		if item.Name == name {
			return true
		}
	}
	return false
}

func TestGeneratorDeterministicWithSeed(t *testing.T) {
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db := config.Default().Nutrition.MealDatabase

	first := meal.NewGenerator(logger, db, seeded(7)).Options(ctx, meal.Dinner, time.Sunday, 3)
	second := meal.NewGenerator(logger, db, seeded(7)).Options(ctx, meal.Dinner, time.Sunday, 3)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different options (-first +second):\n%s", diff)
	}
}

func TestGeneratorSingleItemOptions(t *testing.T) {
	gen := meal.NewGenerator(testhelpers.NewLogger(testhelpers.NewWriter(t)), snackDB(), seeded(1))

	options := gen.Options(t.Context(), meal.Snack, time.Tuesday, 0)
	if len(options) != 3 {
		t.Fatalf("Options() = %d options, want the configured 3", len(options))
	}
	seen := map[string]bool{}
	for _, o := range options {
		if len(o.Items) != 1 {
			t.Fatalf("option %q has %d items, want 1", o.Description, len(o.Items))
		}
		item := o.Items[0]
		if seen[item.Name] {
			t.Errorf("item %s offered twice", item.Name)
		}
		seen[item.Name] = true
		if want := item.Name + " (1 serving)"; o.Description != want {
			t.Errorf("Description = %q, want %q", o.Description, want)
		}
		if o.PrepTime != item.PrepTime || o.Totals != (meal.Totals{Calories: 200, Protein: 20, Carbs: 10, Fat: 5}) {
			t.Errorf("option %q totals = %+v prep %d", o.Description, o.Totals, o.PrepTime)
		}
	}
}

func TestGeneratorExhaustion(t *testing.T) {
	ctx := t.Context()
	logger := testhelpers.NewLogger(testhelpers.NewWriter(t))
	db := &config.MealDatabase{
		Components: map[string][]config.FoodItem{
			"proteins": {{Name: "Fried Eggs", Calories: 200, Protein: 14, MealTypes: []string{meal.Breakfast},
				Exclusions: []string{"rye_toast"}}},
			"carbs": {
				{Name: "Rye Toast", Calories: 120, Protein: 4, MealTypes: []string{meal.Breakfast}},
				{Name: "Porridge (oats)", Calories: 150, Protein: 6, MealTypes: []string{meal.Breakfast}},
			},
		},
		Generation: &config.MealGeneration{CombinationRules: map[string]config.CombinationRule{
			meal.Breakfast: {RequiredComponents: []string{"proteins", "carbs"}, MinProtein: 10},
		}},
	}
	gen := meal.NewGenerator(logger, db, seeded(3))

	options := gen.Options(ctx, meal.Breakfast, time.Monday, 3)
	if len(options) != 1 {
		t.Fatalf("Options() = %d options, want 1 because only one combination exists", len(options))
	}
	if want := "Fried Eggs + Porridge (oats)"; options[0].Description != want {
		t.Errorf("Description = %q, want %q", options[0].Description, want)
	}

	if got := gen.Options(ctx, meal.Lunch, time.Monday, 3); got != nil {
		t.Errorf("Options() for a meal type without rules = %v, want nil", got)
	}

	strict := db.Generation.CombinationRules[meal.Breakfast]
	strict.MinProtein = 100
	db.Generation.CombinationRules[meal.Breakfast] = strict
	if got := meal.NewGenerator(logger, db, seeded(3)).Options(ctx, meal.Breakfast, time.Monday, 3); len(got) != 0 {
		t.Errorf("Options() with an unreachable protein floor = %v, want none", got)
	}
}

func TestMainIngredient(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Lean Ground Beef (93%)", "ground beef"},
		{"Steel-Cut Oats", "steel-cut oats"},
		{"Sweet Potato", "sweet potato"},
		{"Bell Peppers", "bell peppers"},
		{"Grilled Chicken Breast", "chicken"},
		{"Whole Grain Bread", "bread"},
		{"Fish Sticks", "fish"},
		{"Cottage Cheese", "cottage"},
		{"Plain Low Sodium", ""},
		{"Tofu", "tofu"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := meal.MainIngredient(tt.name); got != tt.want {
				t.Errorf("MainIngredient(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}
