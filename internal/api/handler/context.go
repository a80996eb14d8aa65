package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ballotbox/ballot/internal/api/middleware"
	"github.com/ballotbox/ballot/internal/backend"
)

// ctxClaims extracts the claims injected by the Auth middleware. A token
// without a subject is structurally valid but unusable, so it is rejected
// with 401.
func ctxClaims(c echo.Context) (*backend.Claims, error) {
	claims, _ := c.Get(middleware.ClaimsKey).(*backend.Claims)
	if claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "Authentication required")
	}
	if claims.Subject == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "token missing subject")
	}
	return claims, nil
}
