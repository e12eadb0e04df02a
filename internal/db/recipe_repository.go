package db

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"whatcanicook-backend-go/internal/models"
)

const (
	savedRecipesSubcollection = "savedRecipes"
	mealPlansSubcollection    = "mealPlans"
)

// firestoreSavedRecipeRepository stores the recipe book as a subcollection of
// the user document.
type firestoreSavedRecipeRepository struct {
	client *firestore.Client
}

// NewFirestoreSavedRecipeRepository creates a new SavedRecipeRepository.
func NewFirestoreSavedRecipeRepository(client *firestore.Client) SavedRecipeRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for SavedRecipeRepository.")
	}
	return &firestoreSavedRecipeRepository{client: client}
}

func (r *firestoreSavedRecipeRepository) recipes(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(savedRecipesSubcollection)
}

// ListByUser returns the user's saved recipes ordered by creation time.
func (r *firestoreSavedRecipeRepository) ListByUser(ctx context.Context, userID string) ([]*models.SavedRecipe, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByUser operation")
	}
	iter := r.recipes(userID).OrderBy("createdAt", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	recipes := []*models.SavedRecipe{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list saved recipes for user '%s': %w", userID, err)
		}
		var recipe models.SavedRecipe
		if err := docSnap.DataTo(&recipe); err != nil {
			return nil, fmt.Errorf("failed to decode saved recipe '%s': %w", docSnap.Ref.ID, err)
		}
		recipe.ID = docSnap.Ref.ID
		recipes = append(recipes, &recipe)
	}
	return recipes, nil
}

// Add stores a saved recipe under its pre-generated ID.
func (r *firestoreSavedRecipeRepository) Add(ctx context.Context, userID string, recipe *models.SavedRecipe) error {
	if userID == "" || recipe.ID == "" {
		return errors.New("userID and recipe ID are required for Add operation")
	}
	if _, err := r.recipes(userID).Doc(recipe.ID).Create(ctx, recipe); err != nil {
		return fmt.Errorf("failed to save recipe '%s' for user '%s': %w", recipe.ID, userID, err)
	}
	return nil
}

// Delete removes a saved recipe.
func (r *firestoreSavedRecipeRepository) Delete(ctx context.Context, userID, recipeID string) error {
	if userID == "" || recipeID == "" {
		return errors.New("userID and recipeID are required for Delete operation")
	}
	docRef := r.recipes(userID).Doc(recipeID)
	if _, err := docRef.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("saved recipe '%s' not found: %w", recipeID, ErrNotFound)
		}
		return fmt.Errorf("failed to look up saved recipe '%s': %w", recipeID, err)
	}
	if _, err := docRef.Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete saved recipe '%s' for user '%s': %w", recipeID, userID, err)
	}
	return nil
}

// firestoreMealPlanRepository stores weekly plans as a subcollection of the
// user document.
type firestoreMealPlanRepository struct {
	client *firestore.Client
}

// NewFirestoreMealPlanRepository creates a new MealPlanRepository.
func NewFirestoreMealPlanRepository(client *firestore.Client) MealPlanRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for MealPlanRepository.")
	}
	return &firestoreMealPlanRepository{client: client}
}

func (r *firestoreMealPlanRepository) plans(userID string) *firestore.CollectionRef {
	return r.client.Collection(usersCollection).Doc(userID).Collection(mealPlansSubcollection)
}

// ListByUser returns the user's saved meal plans, newest first.
func (r *firestoreMealPlanRepository) ListByUser(ctx context.Context, userID string) ([]*models.MealPlan, error) {
	if userID == "" {
		return nil, errors.New("userID cannot be empty for ListByUser operation")
	}
	iter := r.plans(userID).OrderBy("createdAt", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	plans := []*models.MealPlan{}
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list meal plans for user '%s': %w", userID, err)
		}
		var plan models.MealPlan
		if err := docSnap.DataTo(&plan); err != nil {
			return nil, fmt.Errorf("failed to decode meal plan '%s': %w", docSnap.Ref.ID, err)
		}
		plan.ID = docSnap.Ref.ID
		plans = append(plans, &plan)
	}
	return plans, nil
}

// Add stores a meal plan under its pre-generated ID.
func (r *firestoreMealPlanRepository) Add(ctx context.Context, userID string, plan *models.MealPlan) error {
	if userID == "" || plan.ID == "" {
		return errors.New("userID and plan ID are required for Add operation")
	}
	if _, err := r.plans(userID).Doc(plan.ID).Create(ctx, plan); err != nil {
		return fmt.Errorf("failed to save meal plan '%s' for user '%s': %w", plan.ID, userID, err)
	}
	return nil
}
