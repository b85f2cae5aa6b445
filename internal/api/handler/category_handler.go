package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/expensetrack/expense-api/internal/core/ports"
)

const resourceCategory = "category"

// CategoryHandler handles HTTP requests for the caller's categories.
type CategoryHandler struct {
	service ports.CategoryService
}

func NewCategoryHandler(service ports.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

// List returns the caller's categories.
//
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   categoryResponse
// @Failure      401  {object}  map[string]string
// @Router       /categories [get]
func (h *CategoryHandler) List(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	cats, err := h.service.List(c.Request().Context(), principal)
	observe(resourceCategory, "list", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryListResponse(cats))
}

// Create adds a category owned by the caller.
//
// @Summary      Create category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      categoryRequest  true  "Category"
// @Success      201   {object}  categoryResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /categories [post]
func (h *CategoryHandler) Create(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		observe(resourceCategory, "create", err)
		return err
	}

	cat, err := h.service.Create(c.Request().Context(), principal, req.Name)
	observe(resourceCategory, "create", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCategoryResponse(cat))
}

// Update renames one of the caller's categories.
//
// @Summary      Rename category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Category ID"
// @Param        body  body      categoryRequest  true  "Category"
// @Success      200   {object}  categoryResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /categories/{id} [put]
func (h *CategoryHandler) Update(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		observe(resourceCategory, "update", err)
		return err
	}

	cat, err := h.service.Update(c.Request().Context(), c.Param("id"), principal, req.Name)
	observe(resourceCategory, "update", err)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCategoryResponse(cat))
}

// Delete removes one of the caller's categories together with its expenses.
//
// @Summary      Delete category
// @Tags         categories
// @Security     BearerAuth
// @Param        id   path  string  true  "Category ID"
// @Success      204
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /categories/{id} [delete]
func (h *CategoryHandler) Delete(c echo.Context) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}

	err = h.service.Delete(c.Request().Context(), c.Param("id"), principal)
	observe(resourceCategory, "delete", err)
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
