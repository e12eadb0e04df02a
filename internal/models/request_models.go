package models

// SignUpRequest is the payload for account creation.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Username string `json:"username" binding:"required"`
}

// UpdatePreferencesRequest carries the editable profile settings.
type UpdatePreferencesRequest struct {
	DietaryRestrictions []string `json:"dietaryRestrictions"`
	ServingSize         int      `json:"servingSize" binding:"omitempty,min=1,max=12"`
	Theme               string   `json:"theme" binding:"omitempty,oneof=light dark"`
}

// SuggestRecipesRequest lists the ingredients the user has on hand.
type SuggestRecipesRequest struct {
	Ingredients []string `json:"ingredients" binding:"required,min=1"`
}

// FinalizePaymentRequest carries the checkout session ID returned on the
// success URL after the hosted checkout redirect.
type FinalizePaymentRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

// ChefAdviceRequest is a free-form prompt for the AI chef.
type ChefAdviceRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

// ShoppingListRequest names the meals a shopping list should cover.
type ShoppingListRequest struct {
	Meals []string `json:"meals" binding:"required,min=1"`
}

// SaveRecipeRequest adds an entry to the user's recipe book.
type SaveRecipeRequest struct {
	Name         string `json:"name" binding:"required"`
	MealType     string `json:"mealType" binding:"required"`
	Ingredients  string `json:"ingredients" binding:"required"`
	Instructions string `json:"instructions" binding:"required"`
}

// SaveMealPlanRequest persists a generated weekly plan.
type SaveMealPlanRequest struct {
	Days []MealPlanDay `json:"days" binding:"required,len=7"`
}
