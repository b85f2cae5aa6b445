package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/expensetrack/expense-api/internal/api/middleware"
	"github.com/expensetrack/expense-api/internal/core/domain"
	"github.com/expensetrack/expense-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, input ports.RegisterInput) (*domain.Principal, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.Principal, error)
}

func (s *stubAuthService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Principal, error) {
	return s.registerFn(ctx, input)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Principal, error) {
	return s.loginFn(ctx, email, password)
}

// newTestContext builds an echo context with the validator wired, as the router does.
func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.Principal, error) {
			if input.Username != "alice" || input.Email != "alice@example.com" || input.Password != "secret1" {
				t.Fatalf("unexpected args: %+v", input)
			}
			return &domain.Principal{
				ID:           "p1",
				Username:     input.Username,
				Email:        input.Email,
				PasswordHash: "hash",
				CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/auth/register",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "p1" || resp["username"] != "alice" || resp["email"] != "alice@example.com" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, leaked := resp["password_hash"]; leaked {
		t.Fatalf("password hash must never be serialised")
	}
	if strings.Contains(rec.Body.String(), "token") {
		t.Fatalf("registration must not issue a token")
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.Principal, error) {
			return nil, &domain.ConflictError{Fields: []string{"email"}}
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/api/auth/register",
		`{"username":"bob","email":"alice@example.com","password":"secret1"}`)

	err := handler.Register(c)
	var conflict *domain.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected ConflictError, got %v", err)
	}
	if len(conflict.Fields) != 1 || conflict.Fields[0] != "email" {
		t.Fatalf("unexpected fields: %v", conflict.Fields)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.Principal, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/api/auth/register", "not-json")

	err := handler.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Register_ValidationFailure(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, input ports.RegisterInput) (*domain.Principal, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, _ := newTestContext(http.MethodPost, "/api/auth/register",
		`{"username":"al","email":"not-an-email","password":"123"}`)

	err := handler.Register(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	for _, want := range []string{"username", "email", "password"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %q", want, err.Error())
		}
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Principal, error) {
			if email != "alice@example.com" || password != "secret1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.Principal{ID: "p1", Username: "alice", Email: email}, nil
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"secret1"}`)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Token != "token123" || resp.TokenType != "Bearer" || resp.Principal.ID != "p1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.Principal, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub)

	c, rec := newTestContext(http.MethodPost, "/api/auth/login",
		`{"email":"alice@example.com","password":"wrong"}`)

	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if rec.Body.Len() != 0 {
		t.Fatalf("handler must leave rendering to the error handler")
	}
}

func TestAuthHandler_Me(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, rec := newTestContext(http.MethodGet, "/api/auth/me", "")
	middleware.SetPrincipal(c, &domain.Principal{ID: "p1", Username: "alice", Email: "alice@example.com"})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"username":"alice"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthHandler_Me_WithoutPrincipal(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{})

	c, _ := newTestContext(http.MethodGet, "/api/auth/me", "")

	if err := handler.Me(c); !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}
