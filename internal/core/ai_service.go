package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"whatcanicook-backend-go/internal/models"
)

// ErrGeneration is returned when the completion collaborator fails or
// answers with something the caller cannot use. Surfaced per call as a
// user-visible retry prompt; there is no automatic retry.
var ErrGeneration = errors.New("generation failed")

// aiService implements AIService on top of a CompletionClient.
type aiService struct {
	completions CompletionClient
	logger      *zap.Logger
	now         func() time.Time
}

// NewAIService creates a new AIService instance.
func NewAIService(completions CompletionClient, logger *zap.Logger) AIService {
	return &aiService{
		completions: completions,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// GenerateRecipe asks for a single structured recipe built from the given
// ingredients, allowing common extras.
func (s *aiService) GenerateRecipe(ctx context.Context, ingredients []string) (*models.GeneratedRecipe, error) {
	if len(ingredients) == 0 {
		return nil, fmt.Errorf("%w: at least one ingredient is required", ErrGeneration)
	}
	ingredientList := strings.Join(ingredients, ", ")

	// The timestamp nudges the model away from repeating itself across
	// otherwise identical requests.
	system := fmt.Sprintf("You are a helpful chef that suggests recipes based on available ingredients. Current timestamp: %d. Always provide unique suggestions. Respond in JSON format with the following structure: { \"name\": string, \"cookTime\": number, \"servings\": number, \"ingredients\": string[], \"instructions\": string[] }", s.now().UnixMilli())
	prompt := fmt.Sprintf("Suggest a unique recipe I can make with some or all of these ingredients: %s. Include additional common ingredients if needed.", ingredientList)

	raw, err := s.completions.Complete(ctx, CompletionRequest{System: system, Prompt: prompt, JSONMode: true})
	if err != nil {
		return nil, s.generationErr("recipe", err)
	}

	var recipe models.GeneratedRecipe
	if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
		return nil, s.generationErr("recipe", fmt.Errorf("invalid recipe payload: %w", err))
	}
	if recipe.Name == "" || len(recipe.Instructions) == 0 {
		return nil, s.generationErr("recipe", errors.New("incomplete recipe payload"))
	}
	return &recipe, nil
}

// ChefAdvice returns free-form cooking guidance for the prompt.
func (s *aiService) ChefAdvice(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", ErrGeneration)
	}

	system := fmt.Sprintf("You are a professional chef providing detailed cooking instructions. Current timestamp: %d. Always provide unique suggestions. Format your response with clear sections for ingredients (with exact measurements) and step-by-step instructions.", s.now().UnixMilli())

	answer, err := s.completions.Complete(ctx, CompletionRequest{System: system, Prompt: prompt})
	if err != nil {
		return "", s.generationErr("chef advice", err)
	}
	return answer, nil
}

// GenerateMealPlan returns a 7-day plan with breakfast/lunch/dinner names
// per day.
func (s *aiService) GenerateMealPlan(ctx context.Context) ([]models.MealPlanDay, error) {
	system := fmt.Sprintf(`You are a nutritionist creating weekly meal plans. Current timestamp: %d. Always provide unique suggestions. Respond in JSON format with the following structure:
{"weeklyPlan": [{"breakfast": "Meal name", "lunch": "Meal name", "dinner": "Meal name"}]}
Generate 7 days of unique, creative meals.`, s.now().UnixMilli())

	raw, err := s.completions.Complete(ctx, CompletionRequest{
		System:   system,
		Prompt:   "Generate a balanced weekly meal plan with variety and nutrition in mind.",
		JSONMode: true,
	})
	if err != nil {
		return nil, s.generationErr("meal plan", err)
	}

	var payload struct {
		WeeklyPlan []models.MealPlanDay `json:"weeklyPlan"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, s.generationErr("meal plan", fmt.Errorf("invalid meal plan payload: %w", err))
	}
	if len(payload.WeeklyPlan) != 7 {
		return nil, s.generationErr("meal plan", fmt.Errorf("expected 7 days, got %d", len(payload.WeeklyPlan)))
	}
	return payload.WeeklyPlan, nil
}

// GenerateShoppingList returns a categorized shopping list covering the
// given meals.
func (s *aiService) GenerateShoppingList(ctx context.Context, meals []string) ([]models.ShoppingListSection, error) {
	if len(meals) == 0 {
		return nil, fmt.Errorf("%w: at least one meal is required", ErrGeneration)
	}

	system := fmt.Sprintf(`You are a helpful chef creating organized shopping lists. Current timestamp: %d. Given a list of meals and servings, create a categorized shopping list with exact quantities.
Respond in JSON format with the following structure:
{"shoppingList": [{"category": "Category name", "items": ["2 lbs chicken breast", "1 gallon milk"]}]}
Categories should include: Produce, Meat & Seafood, Dairy & Eggs, Pantry, Grains & Bread, Frozen, Condiments & Spices.
Always specify quantities in common measurements (cups, ounces, pounds, etc.).`, s.now().UnixMilli())
	prompt := fmt.Sprintf("Create a detailed shopping list with exact quantities for these meals: %s", strings.Join(meals, ", "))

	raw, err := s.completions.Complete(ctx, CompletionRequest{System: system, Prompt: prompt, JSONMode: true})
	if err != nil {
		return nil, s.generationErr("shopping list", err)
	}

	var payload struct {
		ShoppingList []models.ShoppingListSection `json:"shoppingList"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, s.generationErr("shopping list", fmt.Errorf("invalid shopping list payload: %w", err))
	}
	if len(payload.ShoppingList) == 0 {
		return nil, s.generationErr("shopping list", errors.New("empty shopping list payload"))
	}
	return payload.ShoppingList, nil
}

func (s *aiService) generationErr(what string, err error) error {
	s.logger.Warn("generation call failed", zap.String("kind", what), zap.Error(err))
	return fmt.Errorf("%w: %s: %v", ErrGeneration, what, err)
}
