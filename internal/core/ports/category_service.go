package ports

import (
	"context"

	"github.com/expensetrack/expense-api/internal/core/domain"
)

// CategoryService is the ownership-scoped category API. Every call takes the
// resolved principal; checks run existence, then ownership, then uniqueness.
type CategoryService interface {
	List(ctx context.Context, principal *domain.Principal) ([]*domain.Category, error)
	Create(ctx context.Context, principal *domain.Principal, name string) (*domain.Category, error)
	Update(ctx context.Context, id string, principal *domain.Principal, name string) (*domain.Category, error)
	// Delete removes the category together with every expense filed under it.
	Delete(ctx context.Context, id string, principal *domain.Principal) error
}
