package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"whatcanicook-backend-go/internal/accounts"
	"whatcanicook-backend-go/internal/ai"
	"whatcanicook-backend-go/internal/api"
	"whatcanicook-backend-go/internal/cache"
	"whatcanicook-backend-go/internal/config"
	"whatcanicook-backend-go/internal/core"
	"whatcanicook-backend-go/internal/db"
	"whatcanicook-backend-go/internal/mail"
	"whatcanicook-backend-go/internal/middleware"
	"whatcanicook-backend-go/internal/payments"
)

func main() {
	// --- 1. Initialize Logger (Zap) ---
	zapLogger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer zapLogger.Sync()
	zapLogger.Info("Zap logger initialized successfully.")

	// --- 2. Load Application Configuration ---
	appConfig, err := config.LoadConfig()
	if err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to load application configuration", zap.Error(err))
	}
	zapLogger.Info("Application configuration loaded successfully.")

	// --- 3. Initialize Firebase Admin SDK (includes Firestore and Auth clients) ---
	initCtx, cancelInitCtx := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInitCtx()
	if err := db.InitFirestore(initCtx, appConfig); err != nil {
		zapLogger.Fatal("CRITICAL_ERROR: Failed to initialize Firestore and Firebase Admin SDK", zap.Error(err))
	}
	zapLogger.Info("Firebase Admin SDK (Firestore, Auth) initialized successfully.")

	firestoreClient := db.GetFirestoreClient()
	firebaseAuthClient := db.GetFirebaseAuthClient()
	if firestoreClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firestore client is nil after initialization. Application cannot start.")
	}
	if firebaseAuthClient == nil {
		zapLogger.Fatal("CRITICAL_ERROR: Firebase Auth client is nil after initialization. Application cannot start.")
	}
	defer firestoreClient.Close()

	// --- 4. Initialize Repositories ---
	userRepo := db.NewFirestoreUserRepository(firestoreClient)
	grantRepo := db.NewFirestorePremiumGrantRepository(firestoreClient)
	auditRepo := db.NewFirestoreAuditRepository(firestoreClient)
	savedRecipeRepo := db.NewFirestoreSavedRecipeRepository(firestoreClient)
	mealPlanRepo := db.NewFirestoreMealPlanRepository(firestoreClient)
	zapLogger.Info("Repositories initialized successfully.")

	// --- 5. Initialize Collaborator Clients ---
	stripeProvider := payments.NewStripeProvider(appConfig.StripeSecretKey, appConfig.StripeWebhookSecret)
	openaiClient := ai.NewOpenAIClient(appConfig.OpenAIAPIKey, appConfig.OpenAIModel, appConfig.OpenAITemp)
	accountCreator := accounts.NewFirebaseAccountCreator(firebaseAuthClient)

	// Optional premium snapshot cache. The app runs fine without it.
	var snapshotCache cache.Cache
	if appConfig.RedisAddr != "" {
		snapshotCache, err = cache.NewRedisCache(initCtx, cache.RedisConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		})
		if err != nil {
			zapLogger.Fatal("CRITICAL_ERROR: Failed to connect to Redis", zap.Error(err), zap.String("addr", appConfig.RedisAddr))
		}
		zapLogger.Info("Redis snapshot cache connected.", zap.String("addr", appConfig.RedisAddr))
	} else {
		zapLogger.Warn("Redis snapshot cache DISABLED: REDIS_ADDR is not configured.")
	}

	// Optional payment confirmation mail.
	var mailer core.Mailer
	if appConfig.SendGridAPIKey != "" {
		mailer = mail.NewSendGridMailer(appConfig.SendGridAPIKey, appConfig.MailFrom)
		zapLogger.Info("SendGrid mailer enabled.", zap.String("from", appConfig.MailFrom))
	} else {
		zapLogger.Warn("Payment confirmation mail DISABLED: SENDGRID_API_KEY is not configured.")
	}

	// --- 6. Initialize Services ---
	auditService := core.NewAuditService(auditRepo)
	entitlementService := core.NewEntitlementService(userRepo, grantRepo, auditService, zapLogger)
	userService := core.NewUserService(userRepo, accountCreator, entitlementService, auditService, zapLogger)
	billingService := core.NewBillingService(
		userRepo,
		grantRepo,
		entitlementService,
		stripeProvider,
		snapshotCache,
		mailer,
		auditService,
		core.BillingConfig{PriceID: appConfig.StripePriceID, ClientURL: appConfig.ClientURL},
		zapLogger,
	)
	aiService := core.NewAIService(openaiClient, zapLogger)
	recipeService := core.NewRecipeService(savedRecipeRepo, mealPlanRepo)
	zapLogger.Info("Core services initialized successfully.")

	// --- 7. Start the Premium Status Poller ---
	poller := core.NewStatusPoller(entitlementService, appConfig.VerifyInterval, zapLogger)
	defer poller.StopAll()
	zapLogger.Info("Premium status poller ready.", zap.Duration("interval", appConfig.VerifyInterval))

	// --- 8. Setup Gin HTTP Engine ---
	if strings.ToLower(appConfig.GinMode) == "release" {
		gin.SetMode(gin.ReleaseMode)
		zapLogger.Info("Gin mode set to 'release'.")
	} else {
		gin.SetMode(gin.DebugMode)
		zapLogger.Info("Gin mode set to 'debug'.")
	}
	router := gin.New()

	// --- 9. Apply Global Middleware (Order is important) ---
	router.Use(middleware.RequestLogger(zapLogger))
	router.Use(middleware.RecoveryMiddleware(zapLogger))

	if appConfig.ClientURL != "" {
		router.Use(middleware.CORSMiddleware(appConfig))
		zapLogger.Info("CORS Middleware enabled", zap.String("clientURL", appConfig.ClientURL))
	} else {
		zapLogger.Warn("CORS Middleware SKIPPED: CLIENT_URL is not configured. API might not be accessible from a web frontend.")
	}

	// --- 10. Setup API Routes ---
	api.SetupRoutes(
		router,
		appConfig,
		zapLogger,
		userService,
		entitlementService,
		billingService,
		aiService,
		recipeService,
		poller,
	)

	// --- 11. Configure and Start HTTP Server ---
	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:    serverAddr,
		Handler: router,
	}

	zapLogger.Info("Starting HTTP server...", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// --- 12. Graceful Shutdown Handling ---
	quitChannel := make(chan os.Signal, 1)
	signal.Notify(quitChannel, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quitChannel
	zapLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	zapLogger.Info("Attempting graceful shutdown of HTTP server...")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLogger.Fatal("Server forced to shutdown due to error during graceful shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting gracefully.")
}
