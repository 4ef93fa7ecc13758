package config

import (
	"fmt"
	"maps"
	"slices"

	"gopkg.in/yaml.v3"
)

const mealGenerationKey = "meal_generation"

// MealDatabase groups food items by component category (proteins, carbs, vegetables, ...).
//
// In YAML every top-level key except meal_generation is a component category holding a list of items.
type MealDatabase struct {
	Components map[string][]FoodItem
	Generation *MealGeneration
}

// FoodItem is one selectable food with its per-portion macros.
type FoodItem struct {
	Name      string   `yaml:"name"`
	Calories  float64  `yaml:"calories"`
	Protein   float64  `yaml:"protein"`
	Carbs     float64  `yaml:"carbs"`
	Fat       float64  `yaml:"fat"`
	PrepTime  int      `yaml:"prep_time"`
	Portion   string   `yaml:"portion,omitempty"`
	MealTypes []string `yaml:"meal_types"`
	Tags      []string `yaml:"tags,omitempty"`
	// Exclusions are normalized item keys (lower case, underscores, no parentheses) this item must not appear with.
	Exclusions []string `yaml:"exclusions,omitempty"`
}

// MealGeneration holds the per meal type combination rules.
type MealGeneration struct {
	OptionsPerMeal   int                        `yaml:"options_per_meal"`
	CombinationRules map[string]CombinationRule `yaml:"combination_rules"`
	RecipeTags       RecipeTags                 `yaml:"recipe_tags,omitempty"`
}

type CombinationRule struct {
	RequiredComponents []string      `yaml:"required_components"`
	OptionalComponents []string      `yaml:"optional_components,omitempty"`
	MinProtein         float64       `yaml:"min_protein"`
	TargetCalories     *CalorieRange `yaml:"target_calories,omitempty"`
	// WeekendPreference lists tags or item name fragments moved to the front on Saturdays and Sundays.
	WeekendPreference []string `yaml:"weekend_preference,omitempty"`
}

// Calorie bounds used when a rule has no target_calories.
const (
	DefaultMinCalories = 0
	DefaultMaxCalories = 10000
)

// CalorieBounds returns the inclusive calorie range of the rule.
func (r CombinationRule) CalorieBounds() (float64, float64) {
	if r.TargetCalories == nil {
		return DefaultMinCalories, DefaultMaxCalories
	}
	return r.TargetCalories.Min, r.TargetCalories.Max
}

// CalorieRange is an inclusive [min, max] pair written as a two element YAML sequence.
type CalorieRange struct {
	Min float64
	Max float64
}

func (c CalorieRange) MarshalYAML() (any, error) {
	return []float64{c.Min, c.Max}, nil
}

func (c *CalorieRange) UnmarshalYAML(node *yaml.Node) error {
	var bounds []float64
	if err := node.Decode(&bounds); err != nil {
		return fmt.Errorf("line %d: target_calories: %w", node.Line, err)
	}
	if len(bounds) != 2 { //nolint:mnd // min and max
		return fmt.Errorf("line %d: target_calories wants [min, max], got %d values", node.Line, len(bounds))
	}
	c.Min, c.Max = bounds[0], bounds[1]
	return nil
}

// RecipeTags filters fetched recipes. A recipe needs one include tag (when any are set) and no exclude tag.
type RecipeTags struct {
	IncludeTags []string `yaml:"include_tags,omitempty"`
	ExcludeTags []string `yaml:"exclude_tags,omitempty"`
}

// ComponentNames returns the component categories in sorted order.
func (db *MealDatabase) ComponentNames() []string {
	return slices.Sorted(maps.Keys(db.Components))
}

func (db *MealDatabase) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: meal database must be a mapping", node.Line)
	}
	db.Components = make(map[string][]FoodItem)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, node.Content[i+1]
		if key == mealGenerationKey {
			var gen MealGeneration
			if err := value.Decode(&gen); err != nil {
				return fmt.Errorf("decode %s: %w", mealGenerationKey, err)
			}
			db.Generation = &gen
			continue
		}
		var items []FoodItem
		if err := value.Decode(&items); err != nil {
			return fmt.Errorf("decode component %q: %w", key, err)
		}
		db.Components[key] = items
	}
	return nil
}

func (db MealDatabase) MarshalYAML() (any, error) {
	out := make(map[string]any, len(db.Components)+1)
	for name, items := range db.Components {
		out[name] = items
	}
	if db.Generation != nil {
		out[mealGenerationKey] = db.Generation
	}
	return out, nil
}
