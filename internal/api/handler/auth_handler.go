package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/expensetrack/expense-api/internal/api/metrics"
	"github.com/expensetrack/expense-api/internal/core/domain"
	"github.com/expensetrack/expense-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account. No token is issued; the caller logs in next.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  principalResponse
// @Failure      400   {object}  map[string]any
// @Failure      500   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return err
	}

	principal, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		result := "error"
		switch {
		case errors.Is(err, domain.ErrPrincipalExists):
			result = "conflict"
		case errors.Is(err, domain.ErrInvalidInput):
			result = "invalid"
		}
		metrics.AuthAttemptsTotal.WithLabelValues("register", result).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "ok").Inc()
	return c.JSON(http.StatusOK, toPrincipalResponse(principal))
}

// Login authenticates by email and password and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "invalid").Inc()
		return err
	}

	token, principal, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		result := "error"
		if errors.Is(err, domain.ErrInvalidCredentials) {
			result = "invalid_credentials"
		}
		metrics.AuthAttemptsTotal.WithLabelValues("login", result).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "ok").Inc()
	return c.JSON(http.StatusOK, loginResponse{
		Token:     token,
		TokenType: "Bearer",
		Principal: toPrincipalResponse(principal),
	})
}

// Me returns the principal behind the bearer token.
//
// @Summary      Current principal
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  principalResponse
// @Failure      401   {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPrincipalResponse(principal))
}
