package models

import "time"

// MealPlanDay names the three meals for one day of a weekly plan.
type MealPlanDay struct {
	Breakfast string `json:"breakfast" firestore:"breakfast"`
	Lunch     string `json:"lunch" firestore:"lunch"`
	Dinner    string `json:"dinner" firestore:"dinner"`
}

// MealPlan is a saved 7-day plan (`users/{uid}/mealPlans`).
type MealPlan struct {
	ID        string        `json:"id" firestore:"-"`
	Days      []MealPlanDay `json:"days" firestore:"days"`
	CreatedAt time.Time     `json:"createdAt" firestore:"createdAt"`
}

// ShoppingListSection is one category of a generated shopping list.
type ShoppingListSection struct {
	Category string   `json:"category"`
	Items    []string `json:"items"`
}
