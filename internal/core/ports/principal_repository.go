package ports

import (
	"context"

	"github.com/expensetrack/expense-api/internal/core/domain"
)

// PrincipalLookup resolves a principal by its id. A caching implementation
// may keep serving a removed principal until its entry expires or is
// dropped through PrincipalForgetter.
type PrincipalLookup interface {
	FindByID(ctx context.Context, id string) (*domain.Principal, error)
}

// PrincipalForgetter evicts a principal from a lookup cache. Anything that
// deletes or disables a principal must call it.
type PrincipalForgetter interface {
	Forget(ctx context.Context, id string) error
}

// PrincipalRepository is the credential store. Email and username are unique;
// Create reports a collision as *domain.ConflictError.
type PrincipalRepository interface {
	PrincipalLookup
	FindByEmail(ctx context.Context, email string) (*domain.Principal, error)
	FindByUsername(ctx context.Context, username string) (*domain.Principal, error)
	Create(ctx context.Context, p *domain.Principal) (*domain.Principal, error)
}
