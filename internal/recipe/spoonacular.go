package recipe

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// SpoonacularURL is the spoonacular REST API.
const SpoonacularURL = "https://api.spoonacular.com"

const spoonacularMaxTags = 5

// Spoonacular queries complexSearch with recipe nutrition and instructions included.
type Spoonacular struct {
	endpoint
	apiKey string
}

// NewSpoonacular returns a source reading from baseURL.
func NewSpoonacular(baseURL, apiKey string, client *http.Client, interval time.Duration, logger *slog.Logger) *Spoonacular {
	if baseURL == "" {
		baseURL = SpoonacularURL
	}
	return &Spoonacular{endpoint: newEndpoint("spoonacular", baseURL, client, interval, logger), apiKey: apiKey}
}

func (s *Spoonacular) Name() string { return s.name }

type spoonacularResponse struct {
	Results []struct {
		ID                 int      `json:"id"`
		Title              string   `json:"title"`
		SourceURL          string   `json:"sourceUrl"`
		PreparationMinutes *int     `json:"preparationMinutes"`
		CookingMinutes     *int     `json:"cookingMinutes"`
		ReadyInMinutes     *int     `json:"readyInMinutes"`
		Servings           *int     `json:"servings"`
		DishTypes          []string `json:"dishTypes"`
		Nutrition          struct {
			Nutrients []struct {
				Name   string  `json:"name"`
				Amount float64 `json:"amount"`
			} `json:"nutrients"`
			Ingredients []struct {
				Name   string  `json:"name"`
				Amount float64 `json:"amount"`
				Unit   string  `json:"unit"`
			} `json:"ingredients"`
		} `json:"nutrition"`
		ExtendedIngredients []struct {
			Original string `json:"original"`
			Name     string `json:"name"`
		} `json:"extendedIngredients"`
		AnalyzedInstructions []struct {
			Steps []struct {
				Step string `json:"step"`
			} `json:"steps"`
		} `json:"analyzedInstructions"`
	} `json:"results"`
}

// Search sends the first three ingredients as includeIngredients. Diet filters are sent as diet, the last one
// wins; high-protein and low-carb become nutrient bounds.
func (s *Spoonacular) Search(ctx context.Context, ingredients, filters []string) ([]Recipe, error) {
	query := url.Values{
		"apiKey":                {s.apiKey},
		"includeIngredients":    {strings.Join(ingredients[:min(len(ingredients), 3)], ",")},
		"number":                {"10"},
		"addRecipeNutrition":    {"true"},
		"addRecipeInstructions": {"true"},
	}
	for _, filter := range filters {
		switch {
		case slices.Contains([]string{"ketogenic", "vegetarian", "vegan", "gluten free", "dairy free"}, filter):
			query.Set("diet", filter)
		case filter == "high-protein":
			query.Set("minProtein", "20")
		case filter == "low-carb":
			query.Set("maxCarbs", "50")
		}
	}

	var resp spoonacularResponse
	if err := s.getJSON(ctx, "/recipes/complexSearch", query, &resp); err != nil {
		return nil, err
	}

	recipes := make([]Recipe, 0, len(resp.Results))
	for _, r := range resp.Results {
		var n Nutrition
		for _, nutrient := range r.Nutrition.Nutrients {
			name := strings.ToLower(nutrient.Name)
			switch {
			case strings.Contains(name, "calorie"):
				n.Calories = nutrient.Amount
			case strings.Contains(name, "protein"):
				n.Protein = nutrient.Amount
			case strings.Contains(name, "carb"):
				n.Carbs = nutrient.Amount
			case strings.Contains(name, "fat") && !strings.Contains(name, "saturated"):
				n.Fat = nutrient.Amount
			}
		}

		var instructions []string
		for _, group := range r.AnalyzedInstructions {
			for _, step := range group.Steps {
				instructions = append(instructions, step.Step)
			}
		}

		var ingredientLines []string
		for _, ingredient := range r.ExtendedIngredients {
			line := ingredient.Original
			if line == "" {
				line = ingredient.Name
			}
			ingredientLines = append(ingredientLines, line)
		}
		if len(ingredientLines) == 0 {
			for _, ingredient := range r.Nutrition.Ingredients {
				ingredientLines = append(ingredientLines,
					strings.TrimSpace(strconv.FormatFloat(ingredient.Amount, 'f', -1, 64)+" "+ingredient.Unit+" "+ingredient.Name))
			}
		}

		var mealTypes []string
		for _, dish := range r.DishTypes {
			lower := strings.ToLower(dish)
			switch {
			case strings.Contains(lower, "breakfast"):
				mealTypes = append(mealTypes, "breakfast")
			case containsAny(lower, "lunch", "main", "dinner"):
				mealTypes = append(mealTypes, "lunch", "dinner")
			case strings.Contains(lower, "snack"):
				mealTypes = append(mealTypes, "snack")
			}
		}
		if len(mealTypes) == 0 {
			mealTypes = defaultMealTypes()
		}

		recipes = append(recipes, Recipe{
			ID:           "spoonacular_" + strconv.Itoa(r.ID),
			Name:         r.Title,
			Ingredients:  ingredientLines,
			Instructions: instructions,
			PrepTime:     minutesOr(r.PreparationMinutes, 15),
			CookTime:     minutesOr(r.CookingMinutes, 15),
			TotalTime:    minutesOr(r.ReadyInMinutes, 30),
			Servings:     minutesOr(r.Servings, 4),
			Nutrition:    n,
			Tags:         r.DishTypes[:min(len(r.DishTypes), spoonacularMaxTags)],
			SourceAPI:    "spoonacular",
			SourceURL:    r.SourceURL,
			Difficulty:   defaultDifficulty,
			MealTypes:    mealTypes,
		})
	}
	return recipes, nil
}

// minutesOr returns def for missing or negative values. Spoonacular reports unknown durations as -1.
func minutesOr(v *int, def int) int {
	if v == nil || *v < 0 {
		return def
	}
	return *v
}
