package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/expensetrack/expense-api/internal/api/metrics"
	"github.com/expensetrack/expense-api/internal/core/domain"
	"github.com/expensetrack/expense-api/internal/core/ports"
)

const principalKey = "principal"

// Auth resolves the bearer token into a principal and stores it on the
// context. Every failure is a plain 401 so callers cannot tell a bad
// signature from a deleted account.
func Auth(resolver ports.PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthAttemptsTotal.WithLabelValues("authenticate", "missing_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				metrics.AuthAttemptsTotal.WithLabelValues("authenticate", "bad_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			principal, err := resolver.Resolve(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				metrics.AuthAttemptsTotal.WithLabelValues("authenticate", "rejected").Inc()
				return err
			}

			metrics.AuthAttemptsTotal.WithLabelValues("authenticate", "ok").Inc()
			SetPrincipal(c, principal)
			return next(c)
		}
	}
}

// SetPrincipal stores the resolved principal on the request context.
func SetPrincipal(c echo.Context, p *domain.Principal) {
	c.Set(principalKey, p)
}

// PrincipalFrom returns the principal stored by Auth, or ErrUnauthenticated
// when the route was not wrapped.
func PrincipalFrom(c echo.Context) (*domain.Principal, error) {
	p, ok := c.Get(principalKey).(*domain.Principal)
	if !ok || p == nil {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}
