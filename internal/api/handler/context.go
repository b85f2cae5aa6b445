package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/expensetrack/expense-api/internal/api/metrics"
	"github.com/expensetrack/expense-api/internal/api/middleware"
	"github.com/expensetrack/expense-api/internal/core/domain"
)

var errInvalidPayload = echo.NewHTTPError(http.StatusBadRequest, "invalid payload")

// bindAndValidate decodes the request body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return errInvalidPayload
	}
	return c.Validate(req)
}

// currentPrincipal returns the principal resolved by the Auth middleware.
func currentPrincipal(c echo.Context) (*domain.Principal, error) {
	return middleware.PrincipalFrom(c)
}

// observe records the outcome of a resource operation.
func observe(resource, op string, err error) {
	metrics.ResourceOperationsTotal.WithLabelValues(resource, op, outcome(err)).Inc()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrCategoryNotFound), errors.Is(err, domain.ErrExpenseNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrBadCategory),
		errors.Is(err, domain.ErrCategoryNameTaken):
		return "invalid"
	default:
		return "error"
	}
}
