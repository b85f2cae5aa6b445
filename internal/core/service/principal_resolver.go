package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/expensetrack/expense-api/internal/core/domain"
	"github.com/expensetrack/expense-api/internal/core/ports"
)

// PrincipalResolver turns a bearer token into the principal it was minted for.
type PrincipalResolver struct {
	tokens     ports.TokenService
	principals ports.PrincipalLookup
}

func NewPrincipalResolver(tokens ports.TokenService, principals ports.PrincipalLookup) *PrincipalResolver {
	return &PrincipalResolver{tokens: tokens, principals: principals}
}

// Resolve returns domain.ErrUnauthenticated for an invalid token and for a
// token whose principal no longer exists. Store failures are returned wrapped.
func (r *PrincipalResolver) Resolve(ctx context.Context, token string) (*domain.Principal, error) {
	id, err := r.tokens.Verify(token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}

	principal, err := r.principals.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve principal: %w", err)
	}
	return principal, nil
}
