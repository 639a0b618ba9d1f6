package handlers

import (
	"errors"

	"azurewallet/internal/models"
	"azurewallet/internal/repositories"
	"azurewallet/internal/services/ledger"
	"azurewallet/internal/services/points"
	"azurewallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type WalletHandler struct {
	accounts      repositories.AccountRepository
	audit         repositories.AuditLog
	ledgerService ledger.Service
	pointsService points.Service
}

func NewWalletHandler(accounts repositories.AccountRepository, audit repositories.AuditLog, ledgerSvc ledger.Service, pointsSvc points.Service) *WalletHandler {
	return &WalletHandler{
		accounts:      accounts,
		audit:         audit,
		ledgerService: ledgerSvc,
		pointsService: pointsSvc,
	}
}

// sessionClaims pulls the authenticated session out of the request context.
func sessionClaims(c *fiber.Ctx) (*models.SessionClaims, error) {
	claims, ok := c.Locals("claims").(*models.SessionClaims)
	if !ok || claims == nil {
		return nil, fiber.ErrUnauthorized
	}
	return claims, nil
}

type amountInput struct {
	Amount float64 `json:"amount"`
}

func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	h.accounts.Lock()
	defer h.accounts.Unlock()

	acct, ok := h.accounts.Get(claims.Username)
	if !ok {
		return utils.NotFound(c, "account not found")
	}
	return utils.Success(c, fiber.Map{
		"account": acct,
		"limits":  acct.Limits(),
	})
}

func (h *WalletHandler) Deposit(c *fiber.Ctx) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input amountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	receipt, err := h.ledgerService.Deposit(claims.Username, input.Amount)
	return respondLedger(c, receipt, err)
}

func (h *WalletHandler) Withdraw(c *fiber.Ctx) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input amountInput
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	receipt, err := h.ledgerService.Withdraw(claims.Username, input.Amount)
	return respondLedger(c, receipt, err)
}

func (h *WalletHandler) PayOnline(c *fiber.Ctx) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Merchant string  `json:"merchant"`
		Amount   float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	receipt, err := h.ledgerService.PayOnline(claims.Username, input.Merchant, input.Amount)
	return respondLedger(c, receipt, err)
}

func (h *WalletHandler) Transfer(c *fiber.Ctx) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Recipient string  `json:"recipient"`
		Amount    float64 `json:"amount"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	receipt, err := h.ledgerService.Transfer(claims.Username, input.Recipient, input.Amount)
	return respondLedger(c, receipt, err)
}

func (h *WalletHandler) RedeemPoints(c *fiber.Ctx) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	var input struct {
		Points int `json:"points"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	result, err := h.pointsService.Redeem(claims.Username, input.Points)
	switch {
	case err == nil:
		return utils.Success(c, fiber.Map{
			"redeemed": input.Points,
			"value":    result.Value,
			"balance":  result.Balance,
			"points":   result.Points,
		})
	case errors.Is(err, points.ErrInvalidPoints):
		return utils.BadRequest(c, "invalid points")
	case errors.Is(err, repositories.ErrAccountNotFound):
		return utils.NotFound(c, "account not found")
	case errors.Is(err, points.ErrNotPersisted):
		return utils.Success(c, fiber.Map{
			"redeemed": input.Points,
			"value":    result.Value,
			"balance":  result.Balance,
			"points":   result.Points,
			"warning":  "operation did not persist",
		})
	default:
		return utils.InternalError(c, "failed to redeem points")
	}
}

func (h *WalletHandler) GetTransactions(c *fiber.Ctx) error {
	claims, err := sessionClaims(c)
	if err != nil {
		return utils.Unauthorized(c, "invalid claims")
	}

	lines, err := h.audit.TransactionsFor(claims.Username)
	if err != nil {
		return utils.InternalError(c, "failed to read transactions")
	}
	return utils.Success(c, fiber.Map{"transactions": lines})
}

// respondLedger maps ledger outcomes to HTTP. A persistence failure after a
// successful mutation is a durability warning, not an error status.
func respondLedger(c *fiber.Ctx, receipt *ledger.Receipt, err error) error {
	if err == nil {
		return utils.Success(c, fiber.Map{"receipt": receipt})
	}
	if errors.Is(err, ledger.ErrNotPersisted) {
		return utils.Success(c, fiber.Map{
			"receipt": receipt,
			"warning": "operation did not persist",
		})
	}

	var limitErr *ledger.LimitExceededError
	switch {
	case errors.As(err, &limitErr):
		return utils.BadRequest(c, limitErr.Error())
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return utils.BadRequest(c, "insufficient balance")
	case errors.Is(err, ledger.ErrSelfTransfer):
		return utils.BadRequest(c, "cannot send money to yourself")
	case errors.Is(err, ledger.ErrMerchantRequired):
		return utils.BadRequest(c, "merchant name is required")
	case errors.Is(err, repositories.ErrAccountNotFound):
		return utils.NotFound(c, "account not found")
	default:
		return utils.InternalError(c, "operation failed")
	}
}
