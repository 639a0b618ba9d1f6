package handlers

import (
	"errors"

	"azurewallet/internal/repositories"
	"azurewallet/internal/services/auth"
	"azurewallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService auth.Service
}

func NewAuthHandler(authService auth.Service) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Mobile   string `json:"mobile"`
		PIN      string `json:"pin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	acct, err := h.authService.Register(input.Username, input.Mobile, input.PIN)
	switch {
	case err == nil:
		return utils.Respond(c, fiber.StatusCreated, fiber.Map{
			"message": "registration successful",
			"account": acct,
		})
	case errors.Is(err, repositories.ErrUsernameTaken):
		return utils.BadRequest(c, "username already exists")
	case errors.Is(err, auth.ErrNotPersisted):
		return utils.Respond(c, fiber.StatusCreated, fiber.Map{
			"message": "registration successful",
			"account": acct,
			"warning": "operation did not persist",
		})
	default:
		return utils.BadRequest(c, err.Error())
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		PIN      string `json:"pin"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	acct, token, err := h.authService.Login(input.Username, input.PIN)
	if err != nil {
		var locked *auth.LockedError
		if errors.As(err, &locked) {
			return utils.Locked(c, locked.Error())
		}
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return utils.Unauthorized(c, "invalid username or PIN")
		}
		return utils.InternalError(c, "login failed")
	}

	return utils.Success(c, fiber.Map{
		"token":   token,
		"account": acct,
	})
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var input struct {
		Passphrase string `json:"passphrase"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "invalid request format")
	}

	token, err := h.authService.AdminLogin(input.Passphrase)
	if err != nil {
		return utils.Unauthorized(c, "access denied")
	}
	return utils.Success(c, fiber.Map{"token": token})
}
