package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"whatcanicook-backend-go/internal/db"
	"whatcanicook-backend-go/internal/models"
	"whatcanicook-backend-go/internal/recipes"
)

// ErrRecipeNotFound is returned when a saved recipe does not exist.
var ErrRecipeNotFound = errors.New("saved recipe not found")

// recipeService implements RecipeService.
type recipeService struct {
	savedRepo db.SavedRecipeRepository
	planRepo  db.MealPlanRepository
	now       func() time.Time
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(savedRepo db.SavedRecipeRepository, planRepo db.MealPlanRepository) RecipeService {
	return &recipeService{
		savedRepo: savedRepo,
		planRepo:  planRepo,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Suggest matches the given ingredients against the static recipe dataset.
func (s *recipeService) Suggest(ingredients []string) []models.Recipe {
	return recipes.Find(ingredients)
}

// CommonIngredients returns the ingredient catalog for the picker.
func (s *recipeService) CommonIngredients() []string {
	return recipes.CommonIngredients
}

// ListSaved returns the user's recipe book.
func (s *recipeService) ListSaved(ctx context.Context, userID string) ([]*models.SavedRecipe, error) {
	list, err := s.savedRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list saved recipes: %w", err)
	}
	return list, nil
}

// SaveRecipe adds an entry to the user's recipe book under a generated ID.
func (s *recipeService) SaveRecipe(ctx context.Context, userID string, req models.SaveRecipeRequest) (*models.SavedRecipe, error) {
	recipe := &models.SavedRecipe{
		ID:           uuid.NewString(),
		Name:         req.Name,
		MealType:     req.MealType,
		Ingredients:  req.Ingredients,
		Instructions: req.Instructions,
		CreatedAt:    s.now(),
	}
	if err := s.savedRepo.Add(ctx, userID, recipe); err != nil {
		return nil, fmt.Errorf("failed to save recipe: %w", err)
	}
	return recipe, nil
}

// DeleteSaved removes a recipe from the user's book.
func (s *recipeService) DeleteSaved(ctx context.Context, userID, recipeID string) error {
	if err := s.savedRepo.Delete(ctx, userID, recipeID); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: id '%s'", ErrRecipeNotFound, recipeID)
		}
		return fmt.Errorf("failed to delete saved recipe: %w", err)
	}
	return nil
}

// ListMealPlans returns the user's saved weekly plans.
func (s *recipeService) ListMealPlans(ctx context.Context, userID string) ([]*models.MealPlan, error) {
	plans, err := s.planRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list meal plans: %w", err)
	}
	return plans, nil
}

// SaveMealPlan persists a 7-day plan under a generated ID.
func (s *recipeService) SaveMealPlan(ctx context.Context, userID string, req models.SaveMealPlanRequest) (*models.MealPlan, error) {
	if len(req.Days) != 7 {
		return nil, fmt.Errorf("a meal plan must cover exactly 7 days, got %d", len(req.Days))
	}
	plan := &models.MealPlan{
		ID:        uuid.NewString(),
		Days:      req.Days,
		CreatedAt: s.now(),
	}
	if err := s.planRepo.Add(ctx, userID, plan); err != nil {
		return nil, fmt.Errorf("failed to save meal plan: %w", err)
	}
	return plan, nil
}
