package server

import (
	"go-jewelry-store/internal/config"
	"go-jewelry-store/internal/handler"
	"go-jewelry-store/internal/middleware"
	"go-jewelry-store/internal/model"
	"go-jewelry-store/internal/service"
	"go-jewelry-store/internal/ws"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// Services is everything the HTTP layer talks to.
type Services struct {
	Auth      service.AuthService
	Products  service.ProductService
	Orders    service.OrderService
	Expenses  service.ExpenseService
	Dashboard service.DashboardService
	Hub       *ws.Hub
}

// New builds the Fiber app with every route mounted under /api.
func New(cfg *config.Config, svc Services) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ErrorHandler: handler.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, OPTIONS",
	}))

	authHandler := handler.NewAuthHandler(svc.Auth)
	productHandler := handler.NewProductHandler(svc.Products)
	orderHandler := handler.NewOrderHandler(svc.Orders)
	expenseHandler := handler.NewExpenseHandler(svc.Expenses)
	dashboardHandler := handler.NewDashboardHandler(svc.Dashboard)

	api := app.Group("/api")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"success": true, "status": "ok"})
	})

	// Storefront
	api.Get("/products", productHandler.ListPublic)
	api.Get("/products/:id", productHandler.GetPublic)
	api.Post("/orders", middleware.RateLimit(cfg.Limits.OrderMax, cfg.Limits.OrderWindow, "Too many orders, please try again later"), orderHandler.Create)
	api.Get("/orders/track/:code", orderHandler.Track)

	admin := api.Group("/admin")

	// Auth
	auth := admin.Group("/auth")
	auth.Post("/login", middleware.RateLimit(cfg.Limits.LoginMax, cfg.Limits.LoginWindow, "Too many login attempts, please try again later"), authHandler.Login)

	requireAuth := middleware.RequireAuth(svc.Auth)
	superAdmin := middleware.RequireRole(model.RoleSuperAdmin)

	auth.Get("/profile", requireAuth, authHandler.Profile)
	auth.Get("/verify", requireAuth, authHandler.Verify)
	auth.Post("/logout", requireAuth, authHandler.Logout)
	auth.Put("/password", requireAuth, authHandler.ChangePassword)
	auth.Post("/create-admin", requireAuth, superAdmin, authHandler.CreateAdmin)
	auth.Put("/admin/:id", requireAuth, superAdmin, authHandler.UpdateAdmin)
	auth.Get("/admins", requireAuth, superAdmin, authHandler.ListAdmins)

	// Live notifications authenticate with ?token= since browsers cannot set
	// headers on websocket requests.
	if svc.Hub != nil {
		wsHandler := handler.NewWSHandler(svc.Hub)
		admin.Get("/ws", wsHandler.RequireUpgrade, middleware.RequireQueryToken(svc.Auth), wsHandler.Stream())
	}

	// Products
	products := admin.Group("/products", requireAuth)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.Get)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Orders
	orders := admin.Group("/orders", requireAuth)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.Get)
	orders.Put("/:id", orderHandler.Update)
	orders.Put("/:id/status", orderHandler.UpdateStatus)
	orders.Delete("/:id", superAdmin, orderHandler.Delete)

	// Expenses
	expenses := admin.Group("/expenses", requireAuth)
	expenses.Get("/", expenseHandler.List)
	expenses.Post("/", expenseHandler.Create)
	expenses.Get("/summary", expenseHandler.Summary)
	expenses.Put("/:id", expenseHandler.Update)
	expenses.Delete("/:id", expenseHandler.Delete)

	// Dashboard
	dashboard := admin.Group("/dashboard", requireAuth)
	dashboard.Get("/stats", dashboardHandler.GetDashboardStats)
	dashboard.Get("/sales", dashboardHandler.GetSalesMovement)

	return app
}
