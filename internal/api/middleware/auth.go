package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ballotbox/ballot/internal/backend"
)

// Context keys set by Auth.
const (
	ClaimsKey  = "claims"
	SubjectKey = "subject"
	RoleKey    = "role"
)

// RevocationChecker reports whether a token id was revoked.
type RevocationChecker interface {
	IsRevoked(jti string) bool
}

// Auth validates the JWT and injects claims into context. revoked may be
// nil.
func Auth(jwtSecret string, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := backend.ParseToken(parts[1], jwtSecret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}
			if revoked != nil && revoked.IsRevoked(claims.ID) {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(ClaimsKey, claims)
			c.Set(SubjectKey, claims.Subject)
			c.Set(RoleKey, string(claims.Role))

			return next(c)
		}
	}
}
