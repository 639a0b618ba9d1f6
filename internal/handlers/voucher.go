package handlers

import (
	"errors"

	"azurewallet/internal/repositories"
	"azurewallet/internal/services/voucher"
	"azurewallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type VoucherHandler struct {
	voucherService voucher.Service
}

func NewVoucherHandler(voucherSvc voucher.Service) *VoucherHandler {
	return &VoucherHandler{voucherService: voucherSvc}
}

func (h *VoucherHandler) ListMine(c *fiber.Ctx) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	vouchers, err := h.voucherService.ListFor(claims.Username)
	if err != nil {
		return utils.InternalError(c, "failed to read vouchers")
	}
	return utils.Success(c, fiber.Map{"vouchers": vouchers})
}

func (h *VoucherHandler) Redeem(c *fiber.Ctx) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Code string `json:"code"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}
	if input.Code == "" {
		return utils.BadRequest(c, "voucher code is required")
	}

	value, err := h.voucherService.Redeem(claims.Username, input.Code)
	switch {
	case err == nil:
		return utils.Success(c, fiber.Map{
			"message": "voucher redeemed successfully",
			"value":   value,
		})
	case errors.Is(err, voucher.ErrVoucherExpired):
		return utils.Gone(c, "voucher expired")
	case errors.Is(err, voucher.ErrVoucherNotFound):
		return utils.NotFound(c, "invalid voucher code")
	case errors.Is(err, repositories.ErrAccountNotFound):
		return utils.NotFound(c, "account not found")
	case errors.Is(err, voucher.ErrNotPersisted):
		return utils.Success(c, fiber.Map{
			"message": "voucher redeemed successfully",
			"value":   value,
			"warning": "operation did not persist",
		})
	default:
		return utils.InternalError(c, "failed to redeem voucher")
	}
}
