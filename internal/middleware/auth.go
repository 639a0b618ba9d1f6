// Package middleware provides the authentication middleware for the fiber
// routes: bearer-token validation for user sessions and the admin-role gate.
package middleware

import (
	"log"
	"strings"

	"azurewallet/internal/models"
	"azurewallet/internal/repositories"
	"azurewallet/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware validates session tokens and adds the claims to the
// request context.
type AuthMiddleware struct {
	accounts repositories.AccountRepository
}

func NewAuthMiddleware(accounts repositories.AccountRepository) *AuthMiddleware {
	return &AuthMiddleware{accounts: accounts}
}

// Handler checks for a Bearer token, validates its signature and expiry,
// and confirms the session's account still exists (admin sessions carry no
// account). Claims land in c.Locals("claims").
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return utils.Unauthorized(c, "missing authorization header")
	}
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return utils.Unauthorized(c, "invalid authorization format")
	}

	claims, err := utils.ParseSessionToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		log.Printf("token validation error: %v", err)
		return utils.Unauthorized(c, "invalid token")
	}

	if !claims.IsAdmin() {
		m.accounts.Lock()
		_, ok := m.accounts.Get(claims.Username)
		m.accounts.Unlock()
		if !ok {
			log.Printf("account %q from token not found", claims.Username)
			return utils.Unauthorized(c, "invalid token")
		}
	}

	c.Locals("claims", claims)
	return c.Next()
}

// AdminOnly verifies that the request carries admin claims.
func AdminOnly(c *fiber.Ctx) error {
	claims, ok := c.Locals("claims").(*models.SessionClaims)
	if !ok || claims == nil {
		return utils.Unauthorized(c, "invalid claims")
	}
	if !claims.IsAdmin() {
		return utils.Forbidden(c, "insufficient permissions")
	}
	return c.Next()
}
