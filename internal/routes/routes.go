// Package routes defines the API routing configuration. It wires the
// repositories, services and handlers together and groups routes by
// authentication requirement.
package routes

import (
	"azurewallet/internal/config"
	"azurewallet/internal/handlers"
	"azurewallet/internal/middleware"
	"azurewallet/internal/repositories"
	"azurewallet/internal/services/auth"
	"azurewallet/internal/services/ledger"
	"azurewallet/internal/services/points"
	"azurewallet/internal/services/scheduler"
	"azurewallet/internal/services/voucher"

	"github.com/gofiber/fiber/v2"
)

// Deps carries the shared state the routes are built on.
type Deps struct {
	Accounts  repositories.AccountRepository
	Vouchers  repositories.VoucherRepository
	Audit     repositories.AuditLog
	Scheduler scheduler.Service
	Vouchersv voucher.Service
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, deps Deps) {
	adminPassphrase := config.GetEnv("ADMIN_PASSPHRASE", "admin123")

	authService := auth.NewService(deps.Accounts, deps.Audit, adminPassphrase)
	pointsService := points.NewService(deps.Accounts, deps.Audit)
	ledgerService := ledger.NewService(deps.Accounts, deps.Audit, pointsService)

	authHandler := handlers.NewAuthHandler(authService)
	walletHandler := handlers.NewWalletHandler(deps.Accounts, deps.Audit, ledgerService, pointsService)
	voucherHandler := handlers.NewVoucherHandler(deps.Vouchersv)
	adminHandler := handlers.NewAdminHandler(deps.Accounts, deps.Audit, deps.Vouchersv, deps.Scheduler)

	app.Get("/health", handlers.HealthCheck)

	api := app.Group("/api")

	// Public endpoints (no auth required)
	api.Post("/register", authHandler.Register)
	api.Post("/login", authHandler.Login)
	api.Post("/admin/login", authHandler.AdminLogin)

	authMiddleware := middleware.NewAuthMiddleware(deps.Accounts)
	protected := api.Use(authMiddleware.Handler)

	// Wallet routes
	wallet := protected.Group("/wallet")
	wallet.Get("/", walletHandler.GetWallet)
	wallet.Post("/deposit", walletHandler.Deposit)
	wallet.Post("/withdraw", walletHandler.Withdraw)
	wallet.Post("/pay", walletHandler.PayOnline)
	wallet.Post("/transfer", walletHandler.Transfer)

	// Points and vouchers
	protected.Post("/points/redeem", walletHandler.RedeemPoints)
	protected.Get("/vouchers", voucherHandler.ListMine)
	protected.Post("/vouchers/redeem", voucherHandler.Redeem)

	// Transaction history
	protected.Get("/transactions", walletHandler.GetTransactions)

	// Admin surface
	admin := protected.Group("/admin", middleware.AdminOnly)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Delete("/users/:username", adminHandler.DeleteUser)
	admin.Get("/summary", adminHandler.Summary)
	admin.Get("/revenue", adminHandler.Revenue)
	admin.Get("/log", adminHandler.ActivityLog)
	admin.Post("/scheduler/run", adminHandler.RunScheduler)
	admin.Post("/vouchers/generate", adminHandler.GenerateVouchers)
}
