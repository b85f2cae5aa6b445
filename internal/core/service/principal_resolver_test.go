package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/expensetrack/expense-api/internal/core/domain"
)

func TestPrincipalResolver_Resolve(t *testing.T) {
	repo := newStubPrincipalRepo()
	alice, _ := repo.Create(context.Background(), &domain.Principal{Username: "alice", Email: "alice@example.com"})
	tokens := NewTokenService("secret", "expense-api", time.Hour)
	resolver := NewPrincipalResolver(tokens, repo)

	token, _ := tokens.Mint(alice.ID)
	p, err := resolver.Resolve(context.Background(), token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p.ID != alice.ID || p.Email != "alice@example.com" {
		t.Fatalf("unexpected principal: %+v", p)
	}
}

func TestPrincipalResolver_InvalidTokenSkipsStore(t *testing.T) {
	repo := newStubPrincipalRepo()
	resolver := NewPrincipalResolver(NewTokenService("secret", "", time.Hour), repo)

	if _, err := resolver.Resolve(context.Background(), "garbage"); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
	if repo.lookups != 0 {
		t.Fatalf("store must not be consulted for an invalid token, got %d lookups", repo.lookups)
	}
}

func TestPrincipalResolver_DeletedPrincipal(t *testing.T) {
	repo := newStubPrincipalRepo()
	tokens := NewTokenService("secret", "", time.Hour)
	resolver := NewPrincipalResolver(tokens, repo)

	token, _ := tokens.Mint("p-gone")
	if _, err := resolver.Resolve(context.Background(), token); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestPrincipalResolver_StoreFailure(t *testing.T) {
	repo := newStubPrincipalRepo()
	repo.findErr = errors.New("db unavailable")
	tokens := NewTokenService("secret", "", time.Hour)
	resolver := NewPrincipalResolver(tokens, repo)

	token, _ := tokens.Mint("p1")
	_, err := resolver.Resolve(context.Background(), token)
	if err == nil || errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected store error, got %v", err)
	}
}
