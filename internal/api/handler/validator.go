package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ballotbox/ballot/internal/core/domain"
)

// echoValidator lets Echo call c.Validate(req) with the struct-tag rules
// shared with the client.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() echo.Validator {
	return echoValidator{}
}

// Validate satisfies the echo.Validator interface.
func (echoValidator) Validate(i any) error {
	if err := domain.ValidateStruct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// bindAndValidate decodes the JSON body into req and validates it.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
