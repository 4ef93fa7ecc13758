package config

import (
	"time"

	"github.com/myrjola/pfaplan/internal/clock"
	"github.com/myrjola/pfaplan/internal/ptr"
)

// Recipe fetching defaults.
const (
	DefaultRecipeRatio        = 0.3
	DefaultMaxRecipesPerMeal  = 2
	DefaultMaxRecipes         = 30
	DefaultCacheTTL           = time.Hour
	DefaultRequestTimeout     = 5 * time.Second
	DefaultMinRequestInterval = time.Second
	DefaultMaxFailuresPerAPI  = 3
	DefaultOptionsPerMeal     = 3
	DefaultEasyDay            = "Sat"
	DefaultTimezone           = "UTC"
)

func (c *Config) applyDefaults() {
	if c.Timeline.BufferWeeks == nil {
		c.Timeline.BufferWeeks = map[string]int{}
	}
	if c.Training.Schedule.EasyDay == "" {
		c.Training.Schedule.EasyDay = DefaultEasyDay
	}
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = DefaultTimezone
	}
	if gen := c.generation(); gen != nil && gen.OptionsPerMeal <= 0 {
		gen.OptionsPerMeal = DefaultOptionsPerMeal
	}
	if r := c.Recipes; r != nil {
		if r.Mode == "" {
			r.Mode = RecipeModeBlend
		}
		if r.RecipeRatio == 0 {
			r.RecipeRatio = DefaultRecipeRatio
		}
		if r.MaxRecipesPerMeal == 0 {
			r.MaxRecipesPerMeal = DefaultMaxRecipesPerMeal
		}
		if r.MaxRecipes <= 0 {
			r.MaxRecipes = DefaultMaxRecipes
		}
		if r.CacheTTL <= 0 {
			r.CacheTTL = DefaultCacheTTL
		}
		if r.RequestTimeout <= 0 {
			r.RequestTimeout = DefaultRequestTimeout
		}
		if r.MinRequestInterval <= 0 {
			r.MinRequestInterval = DefaultMinRequestInterval
		}
		if r.MaxFailuresPerAPI <= 0 {
			r.MaxFailuresPerAPI = DefaultMaxFailuresPerAPI
		}
	}
}

func (c *Config) generation() *MealGeneration {
	if c.Nutrition.MealDatabase == nil {
		return nil
	}
	return c.Nutrition.MealDatabase.Generation
}

// Default returns a complete starter configuration for a 16 week plan.
func Default() *Config {
	cfg := &Config{
		Timeline: Timeline{
			StartDate:   Date{Time: time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)},
			Weeks:       16,
			BufferWeeks: map[string]int{MetricRun: 4, MetricPushups: 2, MetricSitups: 2},
		},
		Fitness: Fitness{
			Baseline:     Metrics{RunTime: "15:30", Pushups: 20, Situps: 35},
			Goals:        Metrics{RunTime: "12:45", Pushups: 50, Situps: 55},
			PFAStandards: Metrics{RunTime: "13:36", Pushups: 33, Situps: 42},
		},
		Nutrition: Nutrition{
			EatingWindow: EatingWindow{
				Type:      EatingWindowTimeRestricted,
				StartTime: clock.New(8, 0),
				EndTime:   clock.New(20, 0),
			},
			CalorieGoals: CalorieGoals{Target: 2000},
			Macros:       Macros{Protein: 30, Carbs: 40, Fat: 30},
			MealTiming:   MealTiming{PreWorkout: -30, PostWorkout: 45, MealsPerDay: 3, SnacksPerDay: 2},
			DietaryPreferences: DietaryPreferences{
				Restrictions: []string{"none"},
				Allergies:    []string{},
				Dislikes:     []string{},
			},
			MealDatabase:   defaultMealDatabase(),
			MealGeneration: nil,
		},
		Supplements: Supplements{
			DailyStack: []StackEntry{
				{Time: clock.New(6, 30), Items: []SupplementItem{
					{Name: "Creatine", Dose: "5g"},
					{Name: "Vitamin D3", Dose: "2000 IU"},
				}},
				{Time: clock.New(18, 0), Items: []SupplementItem{
					{Name: "Omega-3", Dose: "1g EPA+DHA"},
					{Name: "Magnesium", Dose: "400mg"},
				}},
			},
			PreWorkout: WorkoutStack{Enabled: true, Timing: -15, Items: []SupplementItem{
				{Name: "Caffeine", Dose: "150mg", Days: []string{"Mon", "Wed", "Fri"}},
			}},
			PostWorkout: WorkoutStack{Enabled: true, Timing: 30, Items: []SupplementItem{
				{Name: "Protein Powder", Dose: "25g", Condition: "if_no_meal_within_hour"},
			}},
		},
		Training: Training{
			Schedule: Schedule{
				WorkoutDays:  []string{"Mon", "Wed", "Fri"},
				StrengthDays: []string{"Tue", "Thu"},
				RestDays:     []string{"Sat", "Sun"},
				EasyDay:      DefaultEasyDay,
			},
			WorkoutTimes: WorkoutTimes{
				WorkoutDays:  ptr.Ref(clock.New(7, 0)),
				StrengthDays: ptr.Ref(clock.New(18, 0)),
				EasyDays:     ptr.Ref(clock.New(8, 0)),
			},
		},
		Progression: Progression{AdaptationPeriods: AdaptationPeriods{Frequency: 4, Reduction: 0.7}},
		Calendar: Calendar{
			Timezone:  "America/Denver",
			OutputDir: "./outputs/calendars/",
			SeparateCalendars: map[string]CalendarStream{
				StreamWorkout: {
					Name: "PFA_Workouts", Color: "blue", Location: "Base Gym",
					DefaultDuration: 60, Reminders: []int{-15, -5},
				},
				StreamMeals:       {Name: "PFA_Meals", Color: "green", DefaultDuration: 30, Reminders: []int{-10}},
				StreamSupplements: {Name: "PFA_Supplements", Color: "orange", DefaultDuration: 5, Reminders: []int{-5}},
			},
			ExportFormats: []string{"ics"},
		},
		Recipes: &Recipes{
			EnableRecipes: ptr.Ref(false),
			APIs: RecipeAPIs{
				TheMealDB:   RecipeAPI{Enabled: true},
				Edamam:      RecipeAPI{AppID: "${EDAMAM_APP_ID}", AppKey: "${EDAMAM_APP_KEY}"},
				Spoonacular: RecipeAPI{APIKey: "${SPOONACULAR_API_KEY}"},
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

func defaultMealDatabase() *MealDatabase {
	return &MealDatabase{
		Components: map[string][]FoodItem{
			"proteins": {
				{Name: "Scrambled Eggs", Calories: 210, Protein: 18, Carbs: 2, Fat: 14, PrepTime: 10,
					Portion: "3 large", MealTypes: []string{"breakfast"}, Tags: []string{"quick"}},
				{Name: "Greek Yogurt", Calories: 150, Protein: 20, Carbs: 8, Fat: 4, PrepTime: 1,
					Portion: "1 cup", MealTypes: []string{"breakfast", "snack"}, Tags: []string{"no_cook"}},
				{Name: "Grilled Chicken Breast", Calories: 280, Protein: 52, Carbs: 0, Fat: 6, PrepTime: 20,
					Portion: "6 oz", MealTypes: []string{"lunch", "dinner"}, Tags: []string{"lean"}},
				{Name: "Lean Ground Beef", Calories: 340, Protein: 42, Carbs: 0, Fat: 18, PrepTime: 15,
					Portion: "6 oz", MealTypes: []string{"lunch", "dinner"}, Tags: []string{"comfort"}},
				{Name: "Turkey Jerky", Calories: 160, Protein: 26, Carbs: 6, Fat: 2, PrepTime: 0,
					Portion: "2 oz", MealTypes: []string{"snack"}, Tags: []string{"no_cook"}},
			},
			"carbs": {
				{Name: "Steel-Cut Oats", Calories: 170, Protein: 6, Carbs: 29, Fat: 3, PrepTime: 20,
					Portion: "1/4 cup dry", MealTypes: []string{"breakfast"}},
				{Name: "Whole Grain Toast", Calories: 140, Protein: 6, Carbs: 24, Fat: 2, PrepTime: 3,
					Portion: "2 slices", MealTypes: []string{"breakfast"}, Exclusions: []string{"steel-cut_oats"}},
				{Name: "Brown Rice", Calories: 215, Protein: 5, Carbs: 45, Fat: 2, PrepTime: 25,
					Portion: "1 cup cooked", MealTypes: []string{"lunch", "dinner"}},
				{Name: "Sweet Potato", Calories: 180, Protein: 4, Carbs: 41, Fat: 0, PrepTime: 30,
					Portion: "1 medium", MealTypes: []string{"lunch", "dinner"}, Tags: []string{"comfort"}},
			},
			"vegetables": {
				{Name: "Broccoli", Calories: 55, Protein: 4, Carbs: 11, Fat: 1, PrepTime: 8,
					Portion: "1 cup", MealTypes: []string{"lunch", "dinner"}},
				{Name: "Spinach", Calories: 20, Protein: 3, Carbs: 3, Fat: 0, PrepTime: 3,
					Portion: "2 cups", MealTypes: []string{"breakfast", "lunch", "dinner"}},
				{Name: "Bell Peppers", Calories: 30, Protein: 1, Carbs: 7, Fat: 0, PrepTime: 5,
					Portion: "1 cup", MealTypes: []string{"lunch", "dinner"}},
			},
			"fruits": {
				{Name: "Blueberries", Calories: 85, Protein: 1, Carbs: 21, Fat: 0, PrepTime: 0,
					Portion: "1 cup", MealTypes: []string{"breakfast", "snack"}},
				{Name: "Banana", Calories: 105, Protein: 1, Carbs: 27, Fat: 0, PrepTime: 0,
					Portion: "1 medium", MealTypes: []string{"breakfast", "snack"}},
				{Name: "Apple", Calories: 95, Protein: 0, Carbs: 25, Fat: 0, PrepTime: 0,
					Portion: "1 medium", MealTypes: []string{"snack"}},
			},
			"fats": {
				{Name: "Avocado", Calories: 120, Protein: 1, Carbs: 6, Fat: 11, PrepTime: 2,
					Portion: "1/2 fruit", MealTypes: []string{"breakfast", "lunch", "dinner"}},
				{Name: "Mixed Nuts", Calories: 170, Protein: 5, Carbs: 6, Fat: 15, PrepTime: 0,
					Portion: "1 oz", MealTypes: []string{"snack"}},
			},
		},
		Generation: &MealGeneration{
			OptionsPerMeal: DefaultOptionsPerMeal,
			CombinationRules: map[string]CombinationRule{
				"breakfast": {
					RequiredComponents: []string{"proteins", "carbs"},
					OptionalComponents: []string{"fruits", "vegetables", "fats"},
					MinProtein:         20,
					TargetCalories:     &CalorieRange{Min: 300, Max: 650},
					WeekendPreference:  []string{"eggs", "comfort"},
				},
				"lunch": {
					RequiredComponents: []string{"proteins", "carbs", "vegetables"},
					OptionalComponents: []string{"fats"},
					MinProtein:         35,
					TargetCalories:     &CalorieRange{Min: 450, Max: 800},
				},
				"dinner": {
					RequiredComponents: []string{"proteins", "carbs", "vegetables"},
					OptionalComponents: []string{"fats"},
					MinProtein:         35,
					TargetCalories:     &CalorieRange{Min: 450, Max: 850},
					WeekendPreference:  []string{"comfort"},
				},
				"snack": {
					RequiredComponents: []string{"proteins"},
					OptionalComponents: []string{"fruits", "fats"},
					MinProtein:         15,
					TargetCalories:     &CalorieRange{Min: 150, Max: 400},
				},
			},
			RecipeTags: RecipeTags{},
		},
	}
}
