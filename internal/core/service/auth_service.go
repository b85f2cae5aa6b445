package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/expensetrack/expense-api/internal/core/domain"
	"github.com/expensetrack/expense-api/internal/core/ports"
)

// dummyPassword is hashed once so that a login for an unknown email costs the
// same bcrypt comparison as a login with a wrong password.
const dummyPassword = "expense-api-timing-equaliser"

// AuthService implements registration and login.
type AuthService struct {
	repo      ports.PrincipalRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenService
	log       zerolog.Logger
	dummyHash string
}

func NewAuthService(repo ports.PrincipalRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	dummy, _ := hasher.Hash(dummyPassword)
	return &AuthService{
		repo:      repo,
		hasher:    hasher,
		tokens:    tokens,
		log:       log,
		dummyHash: dummy,
	}
}

// Register creates a principal. Username and email must both be unused; a
// collision yields *domain.ConflictError naming every colliding field. No
// token is issued.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Principal, error) {
	username := strings.TrimSpace(in.Username)
	email := normalizeEmail(in.Email)
	if username == "" || email == "" || in.Password == "" {
		return nil, domain.NewValidationError("username, email and password are required")
	}

	var taken []string
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		taken = append(taken, "username")
	} else if !errors.Is(err, domain.ErrPrincipalNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		taken = append(taken, "email")
	} else if !errors.Is(err, domain.ErrPrincipalNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}
	if len(taken) > 0 {
		return nil, &domain.ConflictError{Fields: taken}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	created, err := s.repo.Create(ctx, &domain.Principal{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		// A concurrent registration can still lose the race at the unique index.
		if errors.Is(err, domain.ErrPrincipalExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Str("principal_id", created.ID).Msg("principal registered")
	return created, nil
}

// Login checks the password for email and returns a bearer token bound to the
// principal id. Unknown email and wrong password both return
// domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Principal, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	principal, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrPrincipalNotFound) {
			_ = s.hasher.Compare(s.dummyHash, password)
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("login: %w", err)
	}

	if s.hasher.Compare(principal.PasswordHash, password) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Mint(principal.ID)
	if err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}

	s.log.Debug().Str("principal_id", principal.ID).Msg("login succeeded")
	return token, principal, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
