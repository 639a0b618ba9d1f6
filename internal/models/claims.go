package models

import "github.com/golang-jwt/jwt/v5"

// Session roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// SessionClaims is the JWT payload for an authenticated session. The admin
// session carries no username; it is identified by role alone.
type SessionClaims struct {
	jwt.RegisteredClaims
	Username string `json:"username,omitempty"`
	Role     string `json:"role"`
}

// IsAdmin reports whether the session may use the admin surface.
func (c *SessionClaims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
