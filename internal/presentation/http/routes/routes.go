package routes

import (
	"time"

	"github.com/bookhaven/pos-api/internal/config"
	domainRepo "github.com/bookhaven/pos-api/internal/domain/repository"
	"github.com/bookhaven/pos-api/internal/presentation/http/handler"
	"github.com/bookhaven/pos-api/internal/presentation/http/middleware"
	"github.com/bookhaven/pos-api/pkg/utils"
	"github.com/gin-gonic/gin"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Auth      *handler.AuthHandler
	Book      *handler.BookHandler
	Category  *handler.CategoryHandler
	Customer  *handler.CustomerHandler
	POS       *handler.POSHandler
	Bill      *handler.BillHandler
	Settings  *handler.SettingsHandler
	Dashboard *handler.DashboardHandler
	Report    *handler.ReportHandler
	Printer   *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	JWTManager      *utils.JWTManager
	Cfg             *config.Config
	IdempotencyRepo domainRepo.IdempotencyRepository
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": deps.Cfg.App.Name,
		})
	})

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Public routes (no authentication required)
		registerAuthRoutes(v1, h)

		// Protected routes (authentication required)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.JWTManager))

		// Per-user rate limiter
		rateLimiter := middleware.NewUserRateLimiter(middleware.RateLimiterConfig{
			RequestsPerSecond: float64(deps.Cfg.RateLimit.Requests) / float64(deps.Cfg.RateLimit.Duration),
			BurstSize:         deps.Cfg.RateLimit.Requests,
			CleanupInterval:   5 * time.Minute,
			EntryTTL:          10 * time.Minute,
		})
		protected.Use(rateLimiter.Middleware())

		registerProtectedRoutes(protected, h, deps)
	}

	return router
}

func registerAuthRoutes(v1 *gin.RouterGroup, h *Handlers) {
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/register", h.Auth.Register)
		auth.POST("/refresh", h.Auth.Refresh)
		// Google OAuth routes
		auth.GET("/google", h.Auth.GoogleLogin)
		auth.GET("/google/callback", h.Auth.GoogleCallback)
	}
}

func registerProtectedRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	// Profile routes
	protected.GET("/profile", h.Auth.Me)
	protected.PUT("/profile", h.Auth.UpdateProfile)
	protected.PUT("/profile/password", h.Auth.ChangePassword)

	// Store settings
	protected.GET("/settings/store", h.Settings.Get)
	protected.PUT("/settings/store", h.Settings.Update)

	// Dashboard
	protected.GET("/dashboard", h.Dashboard.Stats)

	registerBookRoutes(protected, h)
	registerCategoryRoutes(protected, h)
	registerCustomerRoutes(protected, h)
	registerPOSRoutes(protected, h, deps)
	registerBillRoutes(protected, h)
	registerReportRoutes(protected, h)
	registerPrinterRoutes(protected, h)
}

func registerBookRoutes(protected *gin.RouterGroup, h *Handlers) {
	books := protected.Group("/books")
	{
		books.GET("", h.Book.List)
		books.POST("", h.Book.Create)
		books.GET("/low-stock", h.Book.LowStock)
		books.GET("/:id", h.Book.Get)
		books.PUT("/:id", h.Book.Update)
		books.DELETE("/:id", h.Book.Delete)
	}
}

func registerCategoryRoutes(protected *gin.RouterGroup, h *Handlers) {
	categories := protected.Group("/categories")
	{
		categories.GET("", h.Category.List)
		categories.POST("", h.Category.Create)
		categories.GET("/:id", h.Category.Get)
		categories.PUT("/:id", h.Category.Update)
		categories.DELETE("/:id", h.Category.Delete)
	}
}

func registerCustomerRoutes(protected *gin.RouterGroup, h *Handlers) {
	customers := protected.Group("/customers")
	{
		customers.GET("", h.Customer.List)
		customers.POST("", h.Customer.Create)
		customers.GET("/:id", h.Customer.Get)
		customers.PUT("/:id", h.Customer.Update)
		customers.DELETE("/:id", h.Customer.Delete)
		customers.GET("/:id/bills", h.Customer.Bills)
	}
}

func registerPOSRoutes(protected *gin.RouterGroup, h *Handlers, deps *Deps) {
	pos := protected.Group("/pos")
	{
		pos.GET("/cart", h.POS.GetCart)
		pos.POST("/cart/items", h.POS.AddItem)
		pos.PUT("/cart/items/:bookId/quantity", h.POS.ChangeQuantity)
		pos.PUT("/cart/items/:bookId/discount", h.POS.UpdateDiscount)
		pos.DELETE("/cart/items/:bookId", h.POS.RemoveItem)
		pos.PUT("/cart/discount", h.POS.SetGlobalDiscount)
		pos.PUT("/cart/payment-method", h.POS.SetPaymentMethod)
		pos.PUT("/cart/customer", h.POS.SelectCustomer)
		pos.DELETE("/cart", h.POS.ClearCart)
		pos.POST("/cart/refresh-stock", h.POS.RefreshStock)
		pos.GET("/next-invoice-number", h.POS.NextInvoiceNumber)

		// Checkout accepts an Idempotency-Key so a retried request after a
		// network failure does not commit the sale twice.
		idempotency := middleware.Idempotency(middleware.IdempotencyConfig{
			Repo: deps.IdempotencyRepo,
		})
		pos.POST("/checkout", idempotency, h.POS.Checkout)
	}
}

func registerBillRoutes(protected *gin.RouterGroup, h *Handlers) {
	bills := protected.Group("/bills")
	{
		bills.GET("", h.Bill.List)
		bills.GET("/:id", h.Bill.Get)
		bills.GET("/invoice/:number", h.Bill.GetByInvoiceNumber)
		bills.POST("/:id/cancel", h.Bill.Cancel)
	}
}

func registerReportRoutes(protected *gin.RouterGroup, h *Handlers) {
	reports := protected.Group("/reports")
	{
		reports.GET("/sales", h.Report.Sales)
		reports.GET("/customers", h.Report.Customers)
		reports.GET("/inventory", h.Report.Inventory)
	}
}

func registerPrinterRoutes(protected *gin.RouterGroup, h *Handlers) {
	printer := protected.Group("/printer")
	{
		printer.GET("/status", h.Printer.Status)
		printer.POST("/test", h.Printer.Test)
		printer.POST("/print/:id", h.Printer.PrintBill)
	}
}
