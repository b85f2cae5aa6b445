package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/expensetrack/expense-api/internal/core/ports"
)

const resourceExpense = "expense"

// ExpenseHandler handles HTTP requests for the caller's expenses.
type ExpenseHandler struct {
	service ports.ExpenseService
}

func NewExpenseHandler(service ports.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// List returns the caller's expenses, newest first.
//
// @Summary      List expenses
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   expenseResponse
// @Failure      401  {object}  map[string]string
// @Router       /expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	details, err := h.service.List(c.Request().Context(), principal)
	observe(resourceExpense, "list", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExpenseListResponse(details))
}

// Get returns a single expense.
//
// @Summary      Get expense
// @Tags         expenses
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Expense ID"
// @Success      200  {object}  expenseResponse
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /expenses/{id} [get]
func (h *ExpenseHandler) Get(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), c.Param("id"), principal)
	observe(resourceExpense, "get", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExpenseResponse(detail))
}

// Create records an expense against one of the caller's categories.
//
// @Summary      Create expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      expenseRequest  true  "Expense"
// @Success      201   {object}  expenseResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	input, err := h.bindInput(c)
	if err != nil {
		observe(resourceExpense, "create", err)
		return err
	}

	detail, err := h.service.Create(c.Request().Context(), principal, input)
	observe(resourceExpense, "create", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toExpenseResponse(detail))
}

// Update replaces the fields of one of the caller's expenses.
//
// @Summary      Update expense
// @Tags         expenses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Expense ID"
// @Param        body  body      expenseRequest  true  "Expense"
// @Success      200   {object}  expenseResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /expenses/{id} [put]
func (h *ExpenseHandler) Update(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	input, err := h.bindInput(c)
	if err != nil {
		observe(resourceExpense, "update", err)
		return err
	}

	detail, err := h.service.Update(c.Request().Context(), c.Param("id"), principal, input)
	observe(resourceExpense, "update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toExpenseResponse(detail))
}

// Delete removes one of the caller's expenses.
//
// @Summary      Delete expense
// @Tags         expenses
// @Security     BearerAuth
// @Param        id   path  string  true  "Expense ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /expenses/{id} [delete]
func (h *ExpenseHandler) Delete(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), c.Param("id"), principal)
	observe(resourceExpense, "delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ExpenseHandler) bindInput(c echo.Context) (ports.ExpenseInput, error) {
	var req expenseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return ports.ExpenseInput{}, err
	}
	return toExpenseInput(req)
}
