package http

import (
	"github.com/labstack/echo/v4"

	"github.com/expensetrack/expense-api/internal/infrastructure/http/handlers"
)

// RegisterProbes mounts the liveness and readiness endpoints. They never
// require authentication.
func RegisterProbes(e *echo.Echo, checks ...handlers.Check) {
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(checks...)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
}
