package models

import "time"

// Recipe is one entry in the static recipe dataset used for ingredient-based
// suggestions. MatchingIngredients is populated per request by the matcher.
type Recipe struct {
	ID                  int      `json:"id"`
	Name                string   `json:"name"`
	Image               string   `json:"image"`
	CookTime            int      `json:"cookTime"` // minutes
	Servings            int      `json:"servings"`
	Ingredients         []string `json:"ingredients"`
	MatchingIngredients []string `json:"matchingIngredients"`
	TotalIngredients    int      `json:"totalIngredients"`
}

// GeneratedRecipe is the structured shape returned by the AI recipe call.
type GeneratedRecipe struct {
	Name         string   `json:"name"`
	CookTime     int      `json:"cookTime"`
	Servings     int      `json:"servings"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
}

// SavedRecipe is a value record in the user's recipe book
// (`users/{uid}/savedRecipes`). Ingredients and instructions are free text;
// the only constraint is uniqueness of the generated ID.
type SavedRecipe struct {
	ID           string    `json:"id" firestore:"-"`
	Name         string    `json:"name" firestore:"name"`
	MealType     string    `json:"mealType" firestore:"mealType"`
	Ingredients  string    `json:"ingredients" firestore:"ingredients"`
	Instructions string    `json:"instructions" firestore:"instructions"`
	CreatedAt    time.Time `json:"createdAt" firestore:"createdAt"`
}
