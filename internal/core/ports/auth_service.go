package ports

import (
	"context"

	"github.com/expensetrack/expense-api/internal/core/domain"
)

// RegisterInput carries the fields of a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.Principal, error)
	Login(ctx context.Context, email, password string) (string, *domain.Principal, error)
}

// TokenService turns a principal id into a bearer token and back. Verify
// returns domain.ErrInvalidToken for every kind of rejection.
type TokenService interface {
	Mint(principalID string) (string, error)
	Verify(token string) (string, error)
}

// PasswordHasher is a one-way hash with a matching compare.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// PrincipalResolver recovers the calling principal from a bearer token.
type PrincipalResolver interface {
	Resolve(ctx context.Context, token string) (*domain.Principal, error)
}
