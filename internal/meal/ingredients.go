package meal

import (
	"slices"
	"strings"
)

//nolint:gochecknoglobals // constant tables
var (
	ingredientModifiers = []string{
		"low", "sodium", "fresh", "organic", "lean", "plain", "cooked", "dry", "large", "medium", "small",
	}
	keyIngredients = []string{
		"chicken", "turkey", "beef", "pork", "fish", "eggs", "yogurt", "protein", "bacon", "jerky", "nuts",
		"oats", "rice", "potato", "quinoa", "toast", "bread",
		"broccoli", "spinach", "peppers", "asparagus", "sprouts", "mushrooms", "cauliflower", "greens", "cabbage",
		"avocado",
		"blueberries", "banana", "apple", "strawberries", "grapes", "orange", "pineapple", "mango", "pear",
	}
	// keptQualifiers stay in front of a key ingredient, as in "ground beef".
	keptQualifiers = []string{"deli", "ground", "steel-cut", "whole", "sweet", "mixed", "rotisserie", "bell"}
	compoundFoods  = []string{"protein bar", "fish sticks", "steel cut", "whole grain"}
)

// MainIngredient reduces a food name to the noun a recipe search should use, e.g. "Lean Ground Beef (93%)" to
// "ground beef".
func MainIngredient(name string) string {
	clean, _, _ := strings.Cut(strings.ToLower(name), "(")
	var words []string
	for _, word := range strings.Fields(clean) {
		if !slices.Contains(ingredientModifiers, word) {
			words = append(words, word)
		}
	}
	if len(words) == 0 {
		return ""
	}

	for i, word := range words {
		if !slices.Contains(keyIngredients, word) {
			continue
		}
		if i > 0 && slices.Contains(keptQualifiers, words[i-1]) {
			return words[i-1] + " " + word
		}
		return word
	}

	if len(words) >= 2 { //nolint:mnd // two word compounds
		compound := words[0] + " " + words[1]
		if slices.ContainsFunc(compoundFoods, func(c string) bool { return strings.Contains(compound, c) }) {
			return compound
		}
	}
	return words[0]
}

// PopularIngredients lists search terms for a meal type: the first three proteins and, for lunch and dinner, the
// first carb and vegetable.
func (p *Planner) PopularIngredients(mealType string) []string {
	var ingredients []string
	add := func(name string) {
		if term := MainIngredient(name); term != "" {
			ingredients = append(ingredients, term)
		}
	}

	proteins := p.generator.Items("proteins", mealType)
	for _, item := range proteins[:min(len(proteins), 3)] { //nolint:mnd // top three proteins
		add(item.Name)
	}
	if mealType == "lunch" || mealType == "dinner" {
		for _, component := range []string{"carbs", "vegetables"} {
			if items := p.generator.Items(component, mealType); len(items) > 0 {
				add(items[0].Name)
			}
		}
	}
	return ingredients
}
