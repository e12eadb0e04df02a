package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"whatcanicook-backend-go/internal/core"
	"whatcanicook-backend-go/internal/models"
)

// AIHandler handles the LLM-backed generation endpoints. All routes here sit
// behind the premium gate.
type AIHandler struct {
	aiService core.AIService
}

// NewAIHandler creates a new AIHandler.
func NewAIHandler(ai core.AIService) *AIHandler {
	return &AIHandler{aiService: ai}
}

// GenerateRecipe handles POST /api/v1/ai/recipe.
func (h *AIHandler) GenerateRecipe(c *gin.Context) {
	var req models.SuggestRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	recipe, err := h.aiService.GenerateRecipe(c.Request.Context(), req.Ingredients)
	if err != nil {
		h.respondGenerationError(c, "GenerateRecipe", err)
		return
	}
	c.JSON(http.StatusOK, recipe)
}

// ChefAdvice handles POST /api/v1/ai/chef.
func (h *AIHandler) ChefAdvice(c *gin.Context) {
	var req models.ChefAdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	advice, err := h.aiService.ChefAdvice(c.Request.Context(), req.Prompt)
	if err != nil {
		h.respondGenerationError(c, "ChefAdvice", err)
		return
	}
	c.JSON(http.StatusOK, ChefAdviceResponse{Advice: advice})
}

// GenerateMealPlan handles POST /api/v1/ai/meal-plan.
func (h *AIHandler) GenerateMealPlan(c *gin.Context) {
	days, err := h.aiService.GenerateMealPlan(c.Request.Context())
	if err != nil {
		h.respondGenerationError(c, "GenerateMealPlan", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"days": days})
}

// GenerateShoppingList handles POST /api/v1/ai/shopping-list.
func (h *AIHandler) GenerateShoppingList(c *gin.Context) {
	var req models.ShoppingListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	sections, err := h.aiService.GenerateShoppingList(c.Request.Context(), req.Meals)
	if err != nil {
		h.respondGenerationError(c, "GenerateShoppingList", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

func (h *AIHandler) respondGenerationError(c *gin.Context, op string, err error) {
	log.Printf("%s: generation failed: %v", op, err)
	if errors.Is(err, core.ErrGeneration) {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: "Generation failed. Please try again.", Details: err.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Details: err.Error()})
}
