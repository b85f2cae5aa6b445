package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/expensetrack/expense-api/internal/core/domain"
	"github.com/expensetrack/expense-api/internal/core/ports"
)

type CategoryService struct {
	categories ports.CategoryRepository
	expenses   ports.ExpenseRepository
	log        zerolog.Logger
}

func NewCategoryService(categories ports.CategoryRepository, expenses ports.ExpenseRepository, log zerolog.Logger) *CategoryService {
	return &CategoryService{categories: categories, expenses: expenses, log: log}
}

func (s *CategoryService) List(ctx context.Context, principal *domain.Principal) ([]*domain.Category, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	cats, err := s.categories.ListByOwner(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CategoryService) Create(ctx context.Context, principal *domain.Principal, name string) (*domain.Category, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	name, err := validCategoryName(name)
	if err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, principal.ID, name); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cat := &domain.Category{
		Name:      name,
		OwnerID:   principal.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.categories.Create(ctx, cat); err != nil {
		if errors.Is(err, domain.ErrCategoryNameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info().Str("principal_id", principal.ID).Str("category_id", cat.ID).Msg("category created")
	return cat, nil
}

// Update renames a category. Renaming to the current name is a no-op.
func (s *CategoryService) Update(ctx context.Context, id string, principal *domain.Principal, name string) (*domain.Category, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	name, err := validCategoryName(name)
	if err != nil {
		return nil, err
	}

	cat, err := s.owned(ctx, id, principal)
	if err != nil {
		return nil, err
	}
	if cat.Name == name {
		return cat, nil
	}

	if err := s.ensureNameFree(ctx, principal.ID, name); err != nil {
		return nil, err
	}

	cat.Name = name
	cat.UpdatedAt = time.Now().UTC()
	if err := s.categories.Update(ctx, cat); err != nil {
		if errors.Is(err, domain.ErrCategoryNameTaken) || errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.log.Info().Str("principal_id", principal.ID).Str("category_id", cat.ID).Msg("category renamed")
	return cat, nil
}

// Delete removes the category and cascades to its expenses. Expenses go
// first so that no expense is ever left pointing at a missing category.
func (s *CategoryService) Delete(ctx context.Context, id string, principal *domain.Principal) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	cat, err := s.owned(ctx, id, principal)
	if err != nil {
		return err
	}

	removed, err := s.expenses.DeleteByCategory(ctx, cat.ID)
	if err != nil {
		return fmt.Errorf("delete category expenses: %w", err)
	}
	if err := s.categories.Delete(ctx, cat.ID); err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return err
		}
		return fmt.Errorf("delete category: %w", err)
	}

	s.log.Info().
		Str("principal_id", principal.ID).
		Str("category_id", cat.ID).
		Int64("expenses_removed", removed).
		Msg("category deleted")
	return nil
}

// owned loads a category and applies the existence -> ownership ordering.
func (s *CategoryService) owned(ctx context.Context, id string, principal *domain.Principal) (*domain.Category, error) {
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	if err := authorize(principal, cat.OwnerID); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) ensureNameFree(ctx context.Context, ownerID, name string) error {
	_, err := s.categories.FindByOwnerAndName(ctx, ownerID, name)
	switch {
	case err == nil:
		return domain.ErrCategoryNameTaken
	case errors.Is(err, domain.ErrCategoryNotFound):
		return nil
	default:
		return fmt.Errorf("check category name: %w", err)
	}
}

func validCategoryName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.NewValidationError("name is required")
	}
	if utf8.RuneCountInString(name) > domain.MaxCategoryNameLen {
		return "", domain.NewValidationError(fmt.Sprintf("name must be at most %d characters", domain.MaxCategoryNameLen))
	}
	return name, nil
}
