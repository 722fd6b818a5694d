package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-stock-management/internal/config"
	"go-stock-management/internal/handler"
	applogger "go-stock-management/internal/logger"
	"go-stock-management/internal/middleware"
	"go-stock-management/internal/model"
	"go-stock-management/internal/repository"
	"go-stock-management/internal/service"
	"go-stock-management/internal/ws"
	"go-stock-management/pkg/database"
	"go-stock-management/pkg/jwt"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zlog, err := applogger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Connect(cfg.Database)
	if err != nil {
		zlog.Fatal("database connection failed", zap.Error(err))
	}
	if err := db.AutoMigrate(
		&model.Supplier{},
		&model.Product{},
		&model.StockTransaction{},
		&model.User{},
	); err != nil {
		zlog.Fatal("auto migration failed", zap.Error(err))
	}

	wsHub := ws.NewHub()
	go wsHub.Run()

	tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessExpiry)

	productRepo := repository.NewProductRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	txRepo := repository.NewTransactionRepo(db)
	userRepo := repository.NewUserRepo(db)
	dashRepo := repository.NewDashboardRepo(db)

	ledgerService := service.NewLedgerService(productRepo, txRepo, db, wsHub, zlog)
	productService := service.NewProductService(productRepo, supplierRepo, txRepo, wsHub, zlog)
	supplierService := service.NewSupplierService(supplierRepo, productRepo, zlog)
	dashService := service.NewDashboardService(dashRepo, zlog)
	authService := service.NewAuthService(userRepo, tokens, zlog)

	txHandler := handler.NewTransactionHandler(ledgerService)
	productHandler := handler.NewProductHandler(productService)
	supplierHandler := handler.NewSupplierHandler(supplierService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		AppName: "Stock Management API v1.0",
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORS.Origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "healthy"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/token", authHandler.Login)
	auth.Get("/me", middleware.RequireAuth(userRepo, tokens), authHandler.Me)
	auth.Post("/logout", authHandler.Logout)
	auth.Post("/refresh", middleware.RequireAuth(userRepo, tokens), authHandler.Refresh)

	protected := api.Group("", middleware.RequireAuth(userRepo, tokens))

	protected.Get("/products", productHandler.GetProducts)
	protected.Post("/products", productHandler.CreateProduct)
	protected.Get("/products/categories", productHandler.GetCategories)
	protected.Get("/products/low-stock-report", productHandler.GetLowStockReport)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Put("/products/:id", productHandler.UpdateProduct)
	protected.Delete("/products/:id", middleware.RequireRole("admin"), productHandler.DeleteProduct)

	protected.Get("/suppliers", supplierHandler.GetSuppliers)
	protected.Post("/suppliers", supplierHandler.CreateSupplier)
	protected.Get("/suppliers/:id", supplierHandler.GetSupplier)
	protected.Put("/suppliers/:id", supplierHandler.UpdateSupplier)
	protected.Delete("/suppliers/:id", middleware.RequireRole("admin"), supplierHandler.DeleteSupplier)
	protected.Get("/suppliers/:id/products", supplierHandler.GetSupplierProducts)

	protected.Get("/transactions", txHandler.GetTransactions)
	protected.Post("/transactions", txHandler.CreateTransaction)
	protected.Get("/transactions/summary", txHandler.GetSummary)
	protected.Get("/transactions/:id", txHandler.GetTransaction)
	protected.Put("/transactions/:id", txHandler.UpdateTransaction)
	protected.Delete("/transactions/:id", middleware.RequireRole("admin"), txHandler.DeleteTransaction)

	protected.Get("/dashboard", dashHandler.GetDashboard)
	protected.Get("/dashboard/transaction-trends", dashHandler.GetTransactionTrends)
	protected.Get("/dashboard/value-breakdown", dashHandler.GetValueBreakdown)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		addr := ":" + cfg.Server.Port
		zlog.Info("starting server", zap.String("addr", addr), zap.String("env", cfg.Server.Env))
		if err := app.Listen(addr); err != nil {
			zlog.Panic("server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		zlog.Fatal("server forced to shutdown", zap.Error(err))
	}
}
