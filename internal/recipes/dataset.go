// Package recipes holds the static recipe dataset and the ingredient-based
// matcher behind the free suggestion feature.
package recipes

import (
	"sort"
	"strings"

	"whatcanicook-backend-go/internal/models"
)

var database = []models.Recipe{
	{
		ID:               1,
		Name:             "Classic Spaghetti Carbonara",
		Image:            "https://images.unsplash.com/photo-1612874742237-6526221588e3?auto=format&fit=crop&q=80&w=800&h=600",
		CookTime:         25,
		Servings:         4,
		Ingredients:      []string{"pasta", "eggs", "bacon", "parmesan", "black pepper", "garlic"},
		TotalIngredients: 6,
	},
	{
		ID:               2,
		Name:             "Chicken Stir-Fry",
		Image:            "https://images.unsplash.com/photo-1603133872878-684f208fb84b?auto=format&fit=crop&q=80&w=800&h=600",
		CookTime:         30,
		Servings:         4,
		Ingredients:      []string{"chicken", "bell pepper", "broccoli", "carrots", "soy sauce", "garlic", "ginger"},
		TotalIngredients: 7,
	},
	{
		ID:               3,
		Name:             "Vegetarian Buddha Bowl",
		Image:            "https://images.unsplash.com/photo-1512621776951-a57141f2eefd?auto=format&fit=crop&q=80&w=800&h=600",
		CookTime:         35,
		Servings:         2,
		Ingredients:      []string{"quinoa", "chickpeas", "sweet potato", "kale", "avocado", "tahini"},
		TotalIngredients: 6,
	},
}

// Find matches the user's ingredients against the dataset. An ingredient
// matches when either name contains the other (so "bell peppers" matches
// "bell pepper"). Recipes with no matches are dropped and the rest are
// sorted by match count, highest first.
func Find(userIngredients []string) []models.Recipe {
	names := make([]string, 0, len(userIngredients))
	for _, ing := range userIngredients {
		ing = strings.ToLower(strings.TrimSpace(ing))
		if ing != "" {
			names = append(names, ing)
		}
	}

	matched := []models.Recipe{}
	for _, recipe := range database {
		var matching []string
		for _, ing := range recipe.Ingredients {
			for _, userIng := range names {
				if strings.Contains(userIng, ing) || strings.Contains(ing, userIng) {
					matching = append(matching, ing)
					break
				}
			}
		}
		if len(matching) == 0 {
			continue
		}
		recipe.MatchingIngredients = matching
		matched = append(matched, recipe)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return len(matched[i].MatchingIngredients) > len(matched[j].MatchingIngredients)
	})
	return matched
}
