package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func newAIFixture(t *testing.T, response string) (*fakeCompletionClient, AIService) {
	t.Helper()
	client := &fakeCompletionClient{response: response}
	return client, NewAIService(client, zap.NewNop())
}

func TestGenerateRecipeParsesStructuredPayload(t *testing.T) {
	client, svc := newAIFixture(t, `{
		"name": "Garlic Butter Pasta",
		"cookTime": 20,
		"servings": 2,
		"ingredients": ["pasta", "garlic", "butter"],
		"instructions": ["Boil pasta.", "Toss with garlic butter."]
	}`)

	recipe, err := svc.GenerateRecipe(context.Background(), []string{"pasta", "garlic"})
	if err != nil {
		t.Fatalf("GenerateRecipe returned error: %v", err)
	}
	if recipe.Name != "Garlic Butter Pasta" || recipe.CookTime != 20 || len(recipe.Instructions) != 2 {
		t.Fatalf("unexpected recipe: %+v", recipe)
	}

	if !client.lastReq.JSONMode {
		t.Fatal("recipe generation must request JSON output")
	}
	if !strings.Contains(client.lastReq.Prompt, "pasta, garlic") {
		t.Fatalf("prompt must name the ingredients, got %q", client.lastReq.Prompt)
	}
	if !strings.Contains(client.lastReq.System, "Current timestamp:") {
		t.Fatal("system prompt must carry the uniqueness timestamp")
	}
}

func TestGenerateRecipeRejectsIncompletePayload(t *testing.T) {
	_, svc := newAIFixture(t, `{"name": "", "instructions": []}`)

	_, err := svc.GenerateRecipe(context.Background(), []string{"pasta"})
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration for incomplete payload, got: %v", err)
	}
}

func TestGenerateRecipeRequiresIngredients(t *testing.T) {
	_, svc := newAIFixture(t, "")

	_, err := svc.GenerateRecipe(context.Background(), nil)
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration for empty ingredient list, got: %v", err)
	}
}

func TestChefAdviceReturnsFreeText(t *testing.T) {
	client, svc := newAIFixture(t, "Sear the steak hot and fast.")

	advice, err := svc.ChefAdvice(context.Background(), "How do I cook a steak?")
	if err != nil {
		t.Fatalf("ChefAdvice returned error: %v", err)
	}
	if advice != "Sear the steak hot and fast." {
		t.Fatalf("unexpected advice: %q", advice)
	}
	if client.lastReq.JSONMode {
		t.Fatal("chef advice must not request JSON output")
	}
}

func TestChefAdviceRequiresPrompt(t *testing.T) {
	_, svc := newAIFixture(t, "")

	if _, err := svc.ChefAdvice(context.Background(), "   "); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration for blank prompt, got: %v", err)
	}
}

func TestGenerateMealPlanRequiresSevenDays(t *testing.T) {
	_, svc := newAIFixture(t, `{"weeklyPlan": [
		{"breakfast": "Oats", "lunch": "Salad", "dinner": "Curry"},
		{"breakfast": "Eggs", "lunch": "Soup", "dinner": "Tacos"}
	]}`)

	_, err := svc.GenerateMealPlan(context.Background())
	if !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration for a short plan, got: %v", err)
	}
}

func TestGenerateMealPlanParsesFullWeek(t *testing.T) {
	var b strings.Builder
	b.WriteString(`{"weeklyPlan": [`)
	for i := 0; i < 7; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(`{"breakfast": "Oats", "lunch": "Salad", "dinner": "Curry"}`)
	}
	b.WriteString(`]}`)
	_, svc := newAIFixture(t, b.String())

	days, err := svc.GenerateMealPlan(context.Background())
	if err != nil {
		t.Fatalf("GenerateMealPlan returned error: %v", err)
	}
	if len(days) != 7 || days[0].Breakfast != "Oats" {
		t.Fatalf("unexpected plan: %+v", days)
	}
}

func TestGenerateShoppingListGroupsByCategory(t *testing.T) {
	_, svc := newAIFixture(t, `{"shoppingList": [
		{"category": "Produce", "items": ["2 avocados", "1 lb kale"]},
		{"category": "Pantry", "items": ["1 cup quinoa"]}
	]}`)

	sections, err := svc.GenerateShoppingList(context.Background(), []string{"Buddha Bowl"})
	if err != nil {
		t.Fatalf("GenerateShoppingList returned error: %v", err)
	}
	if len(sections) != 2 || sections[0].Category != "Produce" || len(sections[0].Items) != 2 {
		t.Fatalf("unexpected sections: %+v", sections)
	}
}

func TestGenerationWrapsProviderErrors(t *testing.T) {
	client, svc := newAIFixture(t, "")
	client.err = errors.New("rate limited")

	if _, err := svc.GenerateRecipe(context.Background(), []string{"pasta"}); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got: %v", err)
	}
	if _, err := svc.GenerateShoppingList(context.Background(), []string{"Curry"}); !errors.Is(err, ErrGeneration) {
		t.Fatalf("expected ErrGeneration, got: %v", err)
	}
}
