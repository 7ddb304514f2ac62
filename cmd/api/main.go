package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spendbook/internal/config"
	"spendbook/internal/handlers"
	"spendbook/internal/logger"
	"spendbook/internal/middleware"
	"spendbook/internal/notify"
	"spendbook/internal/services"
	"spendbook/internal/session"
	"spendbook/internal/store"
	"spendbook/internal/syncer"
	"spendbook/internal/validator"

	_ "spendbook/internal/docs" // Import swagger docs
)

// @title           Spendbook API
// @version         1.0
// @description     Spendbook keeps a per-user expense document in sync between a local cache and a remote store, with normalization on every load.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	// Remote document store (Postgres, one row per user).
	remoteDB, err := store.OpenPostgres(appConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to remote database: %w", err)
	}
	remote := store.NewRemote(remoteDB)

	// Local cache (SQLite key-value file, written before every remote write).
	kv, err := store.OpenSQLiteKV(appConfig.CachePath)
	if err != nil {
		return fmt.Errorf("failed to open local cache: %w", err)
	}
	cache := store.NewCache(kv)

	feed := notify.NewFeed()
	syncClient := syncer.New(cache, remote, feed, appConfig.SyncDebounce)
	provider := session.NewLocalProvider(remoteDB)

	controller := services.NewDocumentService(provider, cache, syncClient, feed)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	controller.Start(ctx)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(controller)
	documentHandler := handlers.NewDocumentHandler(controller, feed)
	transactionHandler := handlers.NewTransactionHandler(controller)
	accountHandler := handlers.NewAccountHandler(controller)
	categoryHandler := handlers.NewCategoryHandler(controller)
	budgetHandler := handlers.NewBudgetHandler(controller)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 group
	v1 := router.Group("/api/v1")

	// Public routes: auth, plus reads, which work against the cached
	// document even before sign-in.
	auth := v1.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.GET("/session", authHandler.GetSession)

	v1.GET("/document", documentHandler.GetDocument)
	v1.GET("/document/summary", documentHandler.GetSummary)
	v1.GET("/document/notifications", documentHandler.GetNotifications)
	v1.GET("/transactions", transactionHandler.GetTransactions)
	v1.GET("/accounts", accountHandler.GetAccounts)
	v1.GET("/categories", categoryHandler.GetCategories)
	v1.GET("/budgets", budgetHandler.GetBudgets)

	// Protected routes: every mutation requires the active session's token.
	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(controller.Gate()))

	protected.PUT("/document/settings", documentHandler.UpdateSettings)
	protected.POST("/document/import", documentHandler.ImportDocument)
	protected.GET("/document/export", documentHandler.ExportDocument)
	protected.DELETE("/document", documentHandler.ClearDocument)

	transactions := protected.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	accounts := protected.Group("/accounts")
	accounts.POST("", accountHandler.CreateAccount)
	accounts.PUT("/:id", accountHandler.UpdateAccount)
	accounts.DELETE("/:id", accountHandler.DeleteAccount)

	categories := protected.Group("/categories")
	categories.POST("", categoryHandler.CreateCategory)
	categories.PUT("/:id", categoryHandler.UpdateCategory)
	categories.DELETE("/:id", categoryHandler.DeleteCategory)

	budgets := protected.Group("/budgets")
	budgets.POST("", budgetHandler.CreateBudget)
	budgets.PUT("/:id", budgetHandler.UpdateBudget)
	budgets.DELETE("/:id", budgetHandler.DeleteBudget)

	srv := &http.Server{Addr: ":" + appConfig.Port, Handler: router}

	go func() {
		<-ctx.Done()
		// Push any pending debounced write before the listener closes.
		syncClient.Flush()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnf("server shutdown: %v", err)
		}
	}()

	log.Infof("Starting Spendbook backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
