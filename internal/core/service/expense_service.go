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

type ExpenseService struct {
	expenses   ports.ExpenseRepository
	categories ports.CategoryRepository
	log        zerolog.Logger
}

func NewExpenseService(expenses ports.ExpenseRepository, categories ports.CategoryRepository, log zerolog.Logger) *ExpenseService {
	return &ExpenseService{expenses: expenses, categories: categories, log: log}
}

func (s *ExpenseService) List(ctx context.Context, principal *domain.Principal) ([]ports.ExpenseDetail, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}

	items, err := s.expenses.ListByOwner(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	cats, err := s.categories.ListByOwner(ctx, principal.ID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: categories: %w", err)
	}

	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}

	out := make([]ports.ExpenseDetail, 0, len(items))
	for _, e := range items {
		// ListByOwner is already owner-scoped; never return a foreign row.
		if !principal.Owns(e.OwnerID) {
			continue
		}
		out = append(out, ports.ExpenseDetail{Expense: *e, CategoryName: names[e.CategoryID]})
	}
	return out, nil
}

func (s *ExpenseService) Get(ctx context.Context, id string, principal *domain.Principal) (*ports.ExpenseDetail, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	exp, err := s.owned(ctx, id, principal)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, exp, nil), nil
}

// Create files a new expense for principal. The category must exist and be
// owned by principal, otherwise domain.ErrBadCategory.
func (s *ExpenseService) Create(ctx context.Context, principal *domain.Principal, in ports.ExpenseInput) (*ports.ExpenseDetail, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	in, err := validExpenseInput(in)
	if err != nil {
		return nil, err
	}

	cat, err := s.categoryFor(ctx, principal, in.CategoryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	exp := &domain.Expense{
		Amount:      in.Amount,
		Date:        in.Date,
		Description: in.Description,
		CategoryID:  cat.ID,
		OwnerID:     principal.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.expenses.Create(ctx, exp); err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}

	s.log.Info().
		Str("principal_id", principal.ID).
		Str("expense_id", exp.ID).
		Str("category_id", cat.ID).
		Msg("expense created")
	return s.detail(ctx, exp, cat), nil
}

// Update replaces the mutable fields of an expense. The target category is
// re-checked against principal even when it is unchanged.
func (s *ExpenseService) Update(ctx context.Context, id string, principal *domain.Principal, in ports.ExpenseInput) (*ports.ExpenseDetail, error) {
	if principal == nil {
		return nil, domain.ErrUnauthenticated
	}
	in, err := validExpenseInput(in)
	if err != nil {
		return nil, err
	}

	exp, err := s.owned(ctx, id, principal)
	if err != nil {
		return nil, err
	}
	cat, err := s.categoryFor(ctx, principal, in.CategoryID)
	if err != nil {
		return nil, err
	}

	exp.Amount = in.Amount
	exp.Date = in.Date
	exp.Description = in.Description
	exp.CategoryID = cat.ID
	exp.UpdatedAt = time.Now().UTC()
	if err := s.expenses.Update(ctx, exp); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update expense: %w", err)
	}

	s.log.Info().Str("principal_id", principal.ID).Str("expense_id", exp.ID).Msg("expense updated")
	return s.detail(ctx, exp, cat), nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string, principal *domain.Principal) error {
	if principal == nil {
		return domain.ErrUnauthenticated
	}
	exp, err := s.owned(ctx, id, principal)
	if err != nil {
		return err
	}
	if err := s.expenses.Delete(ctx, exp.ID); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return err
		}
		return fmt.Errorf("delete expense: %w", err)
	}

	s.log.Info().Str("principal_id", principal.ID).Str("expense_id", exp.ID).Msg("expense deleted")
	return nil
}

func (s *ExpenseService) owned(ctx context.Context, id string, principal *domain.Principal) (*domain.Expense, error) {
	exp, err := s.expenses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("find expense: %w", err)
	}
	if err := authorize(principal, exp.OwnerID); err != nil {
		return nil, err
	}
	return exp, nil
}

// categoryFor collapses "no such category" and "someone else's category" into
// domain.ErrBadCategory.
func (s *ExpenseService) categoryFor(ctx context.Context, principal *domain.Principal, categoryID string) (*domain.Category, error) {
	cat, err := s.categories.FindByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, domain.ErrBadCategory
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	if !principal.Owns(cat.OwnerID) {
		return nil, domain.ErrBadCategory
	}
	return cat, nil
}

func (s *ExpenseService) detail(ctx context.Context, exp *domain.Expense, cat *domain.Category) *ports.ExpenseDetail {
	d := &ports.ExpenseDetail{Expense: *exp}
	if cat == nil {
		found, err := s.categories.FindByID(ctx, exp.CategoryID)
		if err != nil {
			s.log.Warn().Err(err).Str("expense_id", exp.ID).Msg("category lookup for expense failed")
			return d
		}
		cat = found
	}
	d.CategoryName = cat.Name
	return d
}

func validExpenseInput(in ports.ExpenseInput) (ports.ExpenseInput, error) {
	if !in.Amount.IsPositive() {
		return in, domain.NewValidationError("amount must be greater than 0")
	}
	if !in.Amount.Equal(in.Amount.Truncate(domain.AmountScale)) {
		return in, domain.NewValidationError(fmt.Sprintf("amount must have at most %d decimal places", domain.AmountScale))
	}
	if in.Date.IsZero() {
		return in, domain.NewValidationError("date is required")
	}
	in.CategoryID = strings.TrimSpace(in.CategoryID)
	if in.CategoryID == "" {
		return in, domain.NewValidationError("category_id is required")
	}
	in.Description = strings.TrimSpace(in.Description)
	if utf8.RuneCountInString(in.Description) > domain.MaxDescriptionLen {
		return in, domain.NewValidationError(fmt.Sprintf("description must be at most %d characters", domain.MaxDescriptionLen))
	}

	y, m, d := in.Date.Date()
	in.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return in, nil
}
