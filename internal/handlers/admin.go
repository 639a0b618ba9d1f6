package handlers

import (
	"log"
	"time"

	"azurewallet/internal/repositories"
	"azurewallet/internal/services/scheduler"
	"azurewallet/internal/services/voucher"
	"azurewallet/internal/utils"
	"azurewallet/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler backs the administrative surface: account inspection and
// removal, system counters, and the manual scheduler / voucher triggers.
// Every action lands in the admin activity log.
type AdminHandler struct {
	accounts         repositories.AccountRepository
	audit            repositories.AuditLog
	voucherService   voucher.Service
	schedulerService scheduler.Service
}

func NewAdminHandler(accounts repositories.AccountRepository, audit repositories.AuditLog, voucherSvc voucher.Service, schedulerSvc scheduler.Service) *AdminHandler {
	return &AdminHandler{
		accounts:         accounts,
		audit:            audit,
		voucherService:   voucherSvc,
		schedulerService: schedulerSvc,
	}
}

func (h *AdminHandler) logAction(action string) {
	if err := h.audit.AdminAction(action); err != nil {
		log.Printf("logging admin action: %v", err)
	}
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	h.logAction("Viewed all users.")
	h.accounts.Lock()
	defer h.accounts.Unlock()
	return utils.Success(c, fiber.Map{"users": h.accounts.All()})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	username := validation.NormalizeUsername(c.Params("username"))
	h.accounts.Lock()
	defer h.accounts.Unlock()
	if !h.accounts.Delete(username) {
		return utils.NotFound(c, "user not found")
	}
	h.logAction("Deleted user: " + username)

	if err := h.accounts.Save(); err != nil {
		return utils.Success(c, fiber.Map{
			"message": "user deleted",
			"warning": "operation did not persist",
		})
	}
	return utils.Success(c, fiber.Map{"message": "user deleted"})
}

func (h *AdminHandler) Summary(c *fiber.Ctx) error {
	voucherCount, err := h.voucherService.Count()
	if err != nil {
		return utils.InternalError(c, "failed to count vouchers")
	}
	revenue, err := h.audit.TotalRevenue()
	if err != nil {
		return utils.InternalError(c, "failed to read revenue")
	}
	lastRun, err := h.schedulerService.LastRun()
	if err != nil {
		return utils.InternalError(c, "failed to read scheduler log")
	}

	h.logAction("Viewed system summary.")
	h.accounts.Lock()
	totalUsers := h.accounts.Count()
	h.accounts.Unlock()
	return utils.Success(c, fiber.Map{
		"total_users":        totalUsers,
		"active_vouchers":    voucherCount,
		"last_scheduler_run": lastRun,
		"total_revenue":      revenue,
	})
}

func (h *AdminHandler) Revenue(c *fiber.Ctx) error {
	revenue, err := h.audit.TotalRevenue()
	if err != nil {
		return utils.InternalError(c, "failed to read revenue")
	}
	h.logAction("Viewed system revenue.")
	return utils.Success(c, fiber.Map{
		"total_revenue": revenue,
		"formatted":     "PHP " + utils.FormatAmount(revenue),
	})
}

func (h *AdminHandler) ActivityLog(c *fiber.Ctx) error {
	lines, err := h.audit.AdminLog()
	if err != nil {
		return utils.InternalError(c, "failed to read admin log")
	}
	return utils.Success(c, fiber.Map{"log": lines})
}

func (h *AdminHandler) RunScheduler(c *fiber.Ctx) error {
	ran, err := h.schedulerService.Tick(time.Now())
	if err != nil && !ran {
		return utils.InternalError(c, "scheduler run failed")
	}
	h.logAction("Scheduler manually executed.")
	if !ran {
		return utils.Success(c, fiber.Map{"message": "scheduler already ran today"})
	}
	if err != nil {
		// The day still counts as run: a failed sweep is a durability
		// warning, not a retry signal.
		return utils.Success(c, fiber.Map{
			"message": "scheduler executed",
			"warning": err.Error(),
		})
	}
	return utils.Success(c, fiber.Map{"message": "scheduler executed"})
}

func (h *AdminHandler) GenerateVouchers(c *fiber.Ctx) error {
	minted, err := h.voucherService.GenerateMonthly()
	if err != nil {
		return utils.InternalError(c, "voucher generation failed")
	}
	h.logAction("Manually generated vouchers for all users.")
	return utils.Success(c, fiber.Map{
		"message": "vouchers generated",
		"minted":  minted,
	})
}
