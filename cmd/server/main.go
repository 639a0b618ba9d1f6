// Package main is the entry point for the application. It loads the
// account set from the data directory, wires the services, runs the daily
// scheduler (once at startup, then on an in-process cron), and serves the
// HTTP API.
package main

import (
	"log"
	"time"

	"azurewallet/internal/config"
	"azurewallet/internal/repositories"
	"azurewallet/internal/routes"
	"azurewallet/internal/services/scheduler"
	"azurewallet/internal/services/voucher"
	"azurewallet/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/robfig/cron/v3"
)

func main() {
	config.LoadEnv()

	dataDir, err := repositories.EnsureDataDir(config.DataDir())
	if err != nil {
		log.Fatalf("failed to prepare data directory: %v", err)
	}

	accounts, err := repositories.NewAccountRepository(dataDir)
	if err != nil {
		log.Fatalf("failed to load accounts: %v", err)
	}
	vouchers := repositories.NewVoucherRepository(dataDir)
	audit := repositories.NewAuditLog(dataDir)

	voucherService := voucher.NewService(accounts, vouchers, audit)
	schedulerService := scheduler.NewService(accounts, audit, voucherService)

	// First tick always fires: the guard starts at yesterday.
	if _, err := schedulerService.Tick(time.Now()); err != nil {
		log.Printf("startup scheduler run: %v", err)
	}
	showStartupSummary(accounts, vouchers, audit)

	cronRunner := cron.New()
	if _, err := cronRunner.AddFunc(scheduler.CronSpec, func() {
		if _, err := schedulerService.Tick(time.Now()); err != nil {
			log.Printf("scheduled run: %v", err)
		}
	}); err != nil {
		log.Fatalf("failed to schedule daily run: %v", err)
	}
	cronRunner.Start()
	defer cronRunner.Stop()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
	}))

	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	for _, path := range []string{"/api/register", "/api/login", "/api/admin/login"} {
		app.Use(path, limiter.New(limiter.Config{
			Max:        5,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
					"error": "Too many requests. Please try again later.",
				})
			},
		}))
	}

	routes.SetupRoutes(app, routes.Deps{
		Accounts:  accounts,
		Vouchers:  vouchers,
		Audit:     audit,
		Scheduler: schedulerService,
		Vouchersv: voucherService,
	})

	log.Fatal(app.Listen(":" + config.GetEnv("PORT", "3000")))
}

func showStartupSummary(accounts repositories.AccountRepository, vouchers repositories.VoucherRepository, audit repositories.AuditLog) {
	voucherCount, err := vouchers.Count()
	if err != nil {
		log.Printf("counting vouchers: %v", err)
	}
	revenue, err := audit.TotalRevenue()
	if err != nil {
		log.Printf("reading revenue: %v", err)
	}
	accounts.Lock()
	userCount := accounts.Count()
	accounts.Unlock()
	log.Printf("users found: %d", userCount)
	log.Printf("active vouchers: %d", voucherCount)
	log.Printf("total system revenue: PHP %s", utils.FormatAmount(revenue))
}
