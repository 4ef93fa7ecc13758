// Package meal assembles meal options from a food component database and blends in fetched recipes.
package meal

import (
	"fmt"
	"strings"

	"github.com/myrjola/pfaplan/internal/config"
	"github.com/myrjola/pfaplan/internal/recipe"
)

// OptionType tells how an option was assembled.
type OptionType string

const (
	TypeComponentOnly         OptionType = "component_only"
	TypeRecipe                OptionType = "recipe"
	TypeComponentWithRecipe   OptionType = "component_with_recipe"
	TypeComponentWithNoRecipe OptionType = "component_with_no_recipe"
)

const (
	previewIngredients = 8
	previewSteps       = 3
)

// Totals are summed macros of an option.
type Totals struct {
	Calories float64 `yaml:"calories"`
	Protein  float64 `yaml:"protein"`
	Carbs    float64 `yaml:"carbs"`
	Fat      float64 `yaml:"fat"`
}

// Option is one way to eat a meal. Options are not modified after generation.
type Option struct {
	Description         string            `yaml:"description"`
	Type                OptionType        `yaml:"type"`
	Items               []config.FoodItem `yaml:"items"`
	Totals              Totals            `yaml:"totals"`
	PrepTime            int               `yaml:"prep_time"`
	Recipe              *recipe.Recipe    `yaml:"recipe,omitempty"`
	IngredientsDisplay  string            `yaml:"ingredients_display,omitempty"`
	InstructionsPreview string            `yaml:"instructions_preview,omitempty"`
	Source              string            `yaml:"source,omitempty"`
}

func componentOption(items []config.FoodItem) Option {
	var (
		totals       Totals
		prep         int
		descriptions = make([]string, 0, len(items))
	)
	for _, item := range items {
		totals.Calories += item.Calories
		totals.Protein += item.Protein
		totals.Carbs += item.Carbs
		totals.Fat += item.Fat
		prep += item.PrepTime
		if item.Portion != "" {
			descriptions = append(descriptions, fmt.Sprintf("%s (%s)", item.Name, item.Portion))
		} else {
			descriptions = append(descriptions, item.Name)
		}
	}
	return Option{
		Description: strings.Join(descriptions, " + "),
		Type:        TypeComponentOnly,
		Items:       items,
		Totals:      totals,
		PrepTime:    prep,
	}
}

func recipeOption(r recipe.Recipe) Option {
	description := r.Name + " (Recipe)"
	if r.Servings > 1 {
		description += fmt.Sprintf(" - Serves %d", r.Servings)
	}
	return Option{
		Description: description,
		Type:        TypeRecipe,
		Totals: Totals{
			Calories: r.Nutrition.Calories,
			Protein:  r.Nutrition.Protein,
			Carbs:    r.Nutrition.Carbs,
			Fat:      r.Nutrition.Fat,
		},
		PrepTime:            r.TotalTime,
		Recipe:              &r,
		IngredientsDisplay:  ingredientsPreview(r.Ingredients),
		InstructionsPreview: instructionsPreview(r.Instructions),
		Source:              "Recipe from " + r.SourceAPI,
	}
}

// withRecipe attaches r to a component option.
func (o Option) withRecipe(r recipe.Recipe) Option {
	o.Type = TypeComponentWithRecipe
	o.Recipe = &r
	o.Description += " + " + r.Name + " Recipe"
	o.IngredientsDisplay = ingredientsPreview(r.Ingredients)
	o.InstructionsPreview = instructionsPreview(r.Instructions)
	return o
}

// withoutRecipe marks a component option whose recipe search came back empty.
func (o Option) withoutRecipe() Option {
	o.Type = TypeComponentWithNoRecipe
	o.Recipe = &recipe.Recipe{
		Name:         "No recipe found",
		Ingredients:  []string{},
		Instructions: []string{"No recipe available for this ingredient combination"},
		Servings:     1,
	}
	o.Description += " (No recipe found)"
	o.IngredientsDisplay = "No recipe available"
	o.InstructionsPreview = "No recipe found for this ingredient combination"
	return o
}

func ingredientsPreview(ingredients []string) string {
	text := strings.Join(ingredients[:min(len(ingredients), previewIngredients)], "; ")
	if extra := len(ingredients) - previewIngredients; extra > 0 {
		text += fmt.Sprintf(" (and %d more)", extra)
	}
	return text
}

func instructionsPreview(steps []string) string {
	text := strings.Join(steps[:min(len(steps), previewSteps)], ". ")
	if extra := len(steps) - previewSteps; extra > 0 {
		text += fmt.Sprintf(" (and %d more steps)", extra)
	}
	return text
}

// Summary is a one line label for listings.
func (o Option) Summary() string {
	if o.Type != TypeRecipe || o.Recipe == nil {
		return o.Description
	}
	summary := o.Recipe.Name
	if o.Recipe.TotalTime > 0 {
		summary += fmt.Sprintf(" (%dmin)", o.Recipe.TotalTime)
	}
	if d := o.Recipe.Difficulty; d != "" && d != "medium" {
		summary += " [" + strings.ToUpper(d[:1]) + d[1:] + "]"
	}
	return summary
}
