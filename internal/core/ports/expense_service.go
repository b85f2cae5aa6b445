package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/expensetrack/expense-api/internal/core/domain"
)

// ExpenseInput carries the mutable fields of an expense. Ownership is never
// part of the input; it always comes from the resolved principal.
type ExpenseInput struct {
	Amount      decimal.Decimal
	Date        time.Time
	Description string
	CategoryID  string
}

// ExpenseDetail is an expense together with the name of its category.
type ExpenseDetail struct {
	domain.Expense
	CategoryName string
}

// ExpenseService is the ownership-scoped expense API.
type ExpenseService interface {
	List(ctx context.Context, principal *domain.Principal) ([]ExpenseDetail, error)
	Get(ctx context.Context, id string, principal *domain.Principal) (*ExpenseDetail, error)
	Create(ctx context.Context, principal *domain.Principal, input ExpenseInput) (*ExpenseDetail, error)
	Update(ctx context.Context, id string, principal *domain.Principal, input ExpenseInput) (*ExpenseDetail, error)
	Delete(ctx context.Context, id string, principal *domain.Principal) error
}
