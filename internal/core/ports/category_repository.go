package ports

import (
	"context"

	"github.com/expensetrack/expense-api/internal/core/domain"
)

// CategoryRepository persists categories. (owner_id, name) is unique; Create
// and Update report a collision as domain.ErrCategoryNameTaken.
type CategoryRepository interface {
	Create(ctx context.Context, c *domain.Category) error
	// FindByID returns domain.ErrCategoryNotFound when no category has this id,
	// regardless of owner.
	FindByID(ctx context.Context, id string) (*domain.Category, error)
	FindByOwnerAndName(ctx context.Context, ownerID, name string) (*domain.Category, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Category, error)
	Update(ctx context.Context, c *domain.Category) error
	Delete(ctx context.Context, id string) error
}
