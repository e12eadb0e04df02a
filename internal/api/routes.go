package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whatcanicook-backend-go/internal/config"
	"whatcanicook-backend-go/internal/core"
	"whatcanicook-backend-go/internal/db"
	"whatcanicook-backend-go/internal/middleware"
)

// SetupRoutes configures all the application routes with their handlers and
// middleware. Global middleware (Logging, Recovery, CORS) are applied to the
// router instance *before* this function is called, in main.go.
func SetupRoutes(
	router *gin.Engine,
	appConfig *config.Config,
	logger *zap.Logger,
	userService core.UserService,
	entitlementService core.EntitlementService,
	billingService core.BillingService,
	aiService core.AIService,
	recipeService core.RecipeService,
	poller *core.StatusPoller,
) {
	// The Firebase Auth client must be available after db.InitFirestore().
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firebaseAuthClient == nil {
		logger.Fatal("CRITICAL_SETUP_ERROR: Firebase Auth client is not initialized. AuthMiddleware cannot be created, and routes will not be set up.")
		panic("Firebase Auth client is nil during route setup. Ensure db.InitFirestore() was called and succeeded.")
	}
	authMW := middleware.NewAuthMiddleware(firebaseAuthClient)

	authHandler := NewAuthHandler(userService, poller)
	userHandler := NewUserHandler(userService)
	premiumHandler := NewPremiumHandler(userService, entitlementService, poller, appConfig.VerifyInterval, logger)
	billingHandler := NewBillingHandler(billingService, userService)
	aiHandler := NewAIHandler(aiService)
	recipeHandler := NewRecipeHandler(recipeService)

	apiV1 := router.Group("/api/v1")
	{
		// --- Account and Session Endpoints ---
		// POST /api/v1/auth/signup is public: the account does not exist yet.
		apiV1.POST("/auth/signup", authHandler.SignUp)
		apiV1.POST("/auth/signout", authMW.VerifyToken(), authHandler.SignOut)

		userGroup := apiV1.Group("/users", authMW.VerifyToken())
		{
			// Called after client-side Firebase sign-in to ensure the backend
			// profile exists and reconcile the cached premium flag.
			userGroup.POST("/initialize", authHandler.InitializeSession)
			userGroup.GET("/me", userHandler.GetCurrentUserProfile)
			userGroup.PATCH("/me/preferences", userHandler.UpdatePreferences)
		}

		// --- Premium Status ---
		apiV1.GET("/premium/status", authMW.VerifyToken(), premiumHandler.GetStatus)

		// --- Billing Endpoints ---
		billingGroup := apiV1.Group("/billing")
		{
			billingGroup.POST("/create-checkout-session", authMW.VerifyToken(), billingHandler.CreateCheckoutSession)
			billingGroup.POST("/finalize", authMW.VerifyToken(), billingHandler.FinalizePayment)

			// Public webhook endpoint (no authMW here). Stripe authenticates
			// webhooks via signature, handled by the service.
			billingGroup.POST("/webhooks/stripe", billingHandler.HandleStripeWebhook)
		}

		// --- Free Suggestion Endpoints ---
		// The static matcher and the ingredient catalog are the free tier;
		// they require no account at all.
		apiV1.GET("/ingredients", recipeHandler.ListIngredients)
		apiV1.POST("/recipes/suggestions", recipeHandler.SuggestRecipes)

		// --- Premium Endpoints ---
		// Everything below requires a verified premium entitlement.
		premiumGate := premiumHandler.RequirePremium()

		aiGroup := apiV1.Group("/ai", authMW.VerifyToken(), premiumGate)
		{
			aiGroup.POST("/recipe", aiHandler.GenerateRecipe)
			aiGroup.POST("/chef", aiHandler.ChefAdvice)
			aiGroup.POST("/meal-plan", aiHandler.GenerateMealPlan)
			aiGroup.POST("/shopping-list", aiHandler.GenerateShoppingList)
		}

		savedGroup := apiV1.Group("/recipes/saved", authMW.VerifyToken(), premiumGate)
		{
			savedGroup.GET("", recipeHandler.ListSaved)
			savedGroup.POST("", recipeHandler.SaveRecipe)
			savedGroup.DELETE("/:recipeId", recipeHandler.DeleteSaved)
		}

		mealPlanGroup := apiV1.Group("/meal-plans", authMW.VerifyToken(), premiumGate)
		{
			mealPlanGroup.GET("", recipeHandler.ListMealPlans)
			mealPlanGroup.POST("", recipeHandler.SaveMealPlan)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP", "message": "WhatCanICook backend is healthy."})
	})

	logger.Info("API routes configured successfully under /api/v1 and /health.")
}
