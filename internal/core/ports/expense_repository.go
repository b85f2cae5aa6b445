package ports

import (
	"context"

	"github.com/expensetrack/expense-api/internal/core/domain"
)

// ExpenseRepository persists expenses.
type ExpenseRepository interface {
	Create(ctx context.Context, e *domain.Expense) error
	// FindByID returns domain.ErrExpenseNotFound when no expense has this id,
	// regardless of owner.
	FindByID(ctx context.Context, id string) (*domain.Expense, error)
	// ListByOwner returns the owner's expenses, newest date first.
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Expense, error)
	Update(ctx context.Context, e *domain.Expense) error
	Delete(ctx context.Context, id string) error
	DeleteByCategory(ctx context.Context, categoryID string) (int64, error)
}
