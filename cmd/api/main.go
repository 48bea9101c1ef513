package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go-jewelry-store/internal/captcha"
	"go-jewelry-store/internal/config"
	"go-jewelry-store/internal/repository"
	"go-jewelry-store/internal/server"
	"go-jewelry-store/internal/service"
	"go-jewelry-store/internal/ws"
	"go-jewelry-store/pkg/database"
	"go-jewelry-store/pkg/jwt"
	"go-jewelry-store/pkg/logging"
	"go-jewelry-store/pkg/password"

	log "github.com/sirupsen/logrus"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("Invalid configuration")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.Database.DSN())
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.Close(db)

	if cfg.AutoMigrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.WithError(err).Fatal("Migration failed")
		}
	}

	// 3. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run(ctx)

	// 4. Dependency Injection (Wiring Layers)
	adminRepo := repository.NewAdminRepo(db)
	productRepo := repository.NewProductRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	sequenceRepo := repository.NewSequenceRepo(db)
	expenseRepo := repository.NewExpenseRepo(db)
	dashRepo := repository.NewDashboardRepo(db)
	transactor := repository.NewTransactor(db)

	hasher := password.NewArgon2Hasher(password.Params{
		Memory:      cfg.Argon2.MemoryKiB,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
	})
	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	if err != nil {
		log.WithError(err).Fatal("Invalid JWT settings")
	}

	authService, err := service.NewAuthService(adminRepo, hasher, tokens)
	if err != nil {
		log.WithError(err).Fatal("Failed to initialise auth service")
	}
	seedAdmin(ctx, authService, cfg.Seed)

	allocator := service.NewCodeAllocator(sequenceRepo, cfg.Orders.AllocationAttempts)
	if !cfg.Captcha.Enabled {
		log.Warn("Human verification is DISABLED for public orders (CAPTCHA_ENABLED=false)")
	}

	app := server.New(cfg, server.Services{
		Auth:      authService,
		Products:  service.NewProductService(productRepo, allocator, transactor),
		Orders:    service.NewOrderService(orderRepo, productRepo, allocator, transactor, captcha.NewVerifier(&cfg.Captcha), ws.NewOrderNotifier(wsHub), cfg.Orders),
		Expenses:  service.NewExpenseService(expenseRepo),
		Dashboard: service.NewDashboardService(dashRepo),
		Hub:       wsHub,
	})

	// 5. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.WithError(err).Error("Server stopped")
			stop()
		}
	}()

	<-ctx.Done()

	log.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
	}
	log.Info("Server exited")
}

// seedAdmin creates the first super_admin from SEED_ADMIN_* when both email and
// password are set. An existing admin with that email is left untouched.
func seedAdmin(ctx context.Context, auth service.AuthService, seed config.Seed) {
	if seed.AdminEmail == "" || seed.AdminPassword == "" {
		return
	}
	admin, created, err := auth.SeedSuperAdmin(ctx, seed.AdminEmail, seed.AdminName, seed.AdminPassword)
	if err != nil {
		log.WithError(err).Warn("Failed to seed super admin")
		return
	}
	if created {
		log.WithField("email", admin.Email).Info("Super admin created")
	}
}
