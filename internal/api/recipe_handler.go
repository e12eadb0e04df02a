package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"whatcanicook-backend-go/internal/core"
	"whatcanicook-backend-go/internal/middleware"
	"whatcanicook-backend-go/internal/models"
)

// RecipeHandler handles suggestion and recipe-book endpoints.
type RecipeHandler struct {
	recipeService core.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(rs core.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: rs}
}

// ListIngredients handles GET /api/v1/ingredients.
func (h *RecipeHandler) ListIngredients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ingredients": h.recipeService.CommonIngredients()})
}

// SuggestRecipes handles POST /api/v1/recipes/suggestions.
func (h *RecipeHandler) SuggestRecipes(c *gin.Context) {
	var req models.SuggestRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": h.recipeService.Suggest(req.Ingredients)})
}

// ListSaved handles GET /api/v1/recipes/saved.
func (h *RecipeHandler) ListSaved(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	recipesList, err := h.recipeService.ListSaved(c.Request.Context(), userID)
	if err != nil {
		log.Printf("ListSaved: failed for userID %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list saved recipes", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipesList})
}

// SaveRecipe handles POST /api/v1/recipes/saved.
func (h *RecipeHandler) SaveRecipe(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req models.SaveRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	recipe, err := h.recipeService.SaveRecipe(c.Request.Context(), userID, req)
	if err != nil {
		log.Printf("SaveRecipe: failed for userID %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save recipe", Details: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// DeleteSaved handles DELETE /api/v1/recipes/saved/:recipeId.
func (h *RecipeHandler) DeleteSaved(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	recipeID := c.Param("recipeId")

	if err := h.recipeService.DeleteSaved(c.Request.Context(), userID, recipeID); err != nil {
		if errors.Is(err, core.ErrRecipeNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Saved recipe not found"})
			return
		}
		log.Printf("DeleteSaved: failed for userID %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete saved recipe", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Recipe removed"})
}

// ListMealPlans handles GET /api/v1/meal-plans.
func (h *RecipeHandler) ListMealPlans(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)
	plans, err := h.recipeService.ListMealPlans(c.Request.Context(), userID)
	if err != nil {
		log.Printf("ListMealPlans: failed for userID %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list meal plans", Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mealPlans": plans})
}

// SaveMealPlan handles POST /api/v1/meal-plans.
func (h *RecipeHandler) SaveMealPlan(c *gin.Context) {
	userID := c.GetString(middleware.ContextUserID)

	var req models.SaveMealPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
		return
	}

	plan, err := h.recipeService.SaveMealPlan(c.Request.Context(), userID, req)
	if err != nil {
		log.Printf("SaveMealPlan: failed for userID %s: %v", userID, err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to save meal plan", Details: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, plan)
}
