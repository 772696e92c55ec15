package main

import (
	"log"
	"os"

	"github.com/bookhaven/pos-api/internal/application/service"
	"github.com/bookhaven/pos-api/internal/config"
	"github.com/bookhaven/pos-api/internal/infrastructure/database"
	"github.com/bookhaven/pos-api/internal/infrastructure/repository"
	"github.com/bookhaven/pos-api/internal/presentation/http/handler"
	"github.com/bookhaven/pos-api/internal/presentation/http/routes"
	"github.com/bookhaven/pos-api/pkg/email"
	"github.com/bookhaven/pos-api/pkg/oauth"
	"github.com/bookhaven/pos-api/pkg/printer"
	"github.com/bookhaven/pos-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	billRepo := repository.NewBillRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	idempotencyRepo := repository.NewIdempotencyRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	// Initialize email service
	emailService := email.NewEmailService(email.EmailConfig{
		SMTPHost:     cfg.Email.SMTPHost,
		SMTPPort:     cfg.Email.SMTPPort,
		SMTPUsername: cfg.Email.SMTPUsername,
		SMTPPassword: cfg.Email.SMTPPassword,
		FromName:     cfg.Email.FromName,
		FromEmail:    cfg.Email.FromEmail,
	})

	// Initialize Google OAuth service
	googleOAuthService := oauth.NewGoogleOAuthService(oauth.GoogleOAuthConfig{
		ClientID:           cfg.OAuth.GoogleClientID,
		ClientSecret:       cfg.OAuth.GoogleClientSecret,
		RedirectURL:        cfg.OAuth.GoogleRedirectURL,
		FrontendSuccessURL: cfg.OAuth.FrontendSuccessURL,
		FrontendErrorURL:   cfg.OAuth.FrontendErrorURL,
	})

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtManager, googleOAuthService)
	bookService := service.NewBookService(bookRepo, categoryRepo)
	categoryService := service.NewCategoryService(categoryRepo)
	customerService := service.NewCustomerService(customerRepo, billRepo)
	cartService := service.NewCartService(bookRepo)
	checkoutService := service.NewCheckoutService(billRepo, bookRepo, cartService, emailService, settingsRepo)
	billService := service.NewBillService(billRepo)
	settingsService := service.NewSettingsService(settingsRepo)
	dashboardService := service.NewDashboardService(analyticsRepo, bookRepo, billRepo)
	reportService := service.NewReportService(analyticsRepo, bookRepo)

	// Initialize thermal printer
	thermalPrinter, err := printer.NewPrinterFromConfig(
		cfg.Printer.Type,
		cfg.Printer.USBPath,
		cfg.Printer.Address,
	)
	if err != nil {
		log.Printf("Warning: Failed to initialize printer: %v", err)
		thermalPrinter = printer.NewNullPrinter()
	}
	printerService := service.NewPrinterService(thermalPrinter, billRepo, settingsRepo, cfg.Printer.Type)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Book:      handler.NewBookHandler(bookService),
		Category:  handler.NewCategoryHandler(categoryService),
		Customer:  handler.NewCustomerHandler(customerService),
		POS:       handler.NewPOSHandler(cartService, checkoutService, customerService),
		Bill:      handler.NewBillHandler(billService),
		Settings:  handler.NewSettingsHandler(settingsService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Report:    handler.NewReportHandler(reportService),
		Printer:   handler.NewPrinterHandler(printerService),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{
		JWTManager:      jwtManager,
		Cfg:             cfg,
		IdempotencyRepo: idempotencyRepo,
	})

	// Get port from environment or use default
	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
