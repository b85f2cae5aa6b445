package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expensetrack/expense-api/internal/core/domain"
	"github.com/expensetrack/expense-api/internal/core/ports"
	"github.com/expensetrack/expense-api/internal/infrastructure/http/handlers"
)

var routerAlice = &domain.Principal{ID: "p1", Username: "alice", Email: "alice@example.com"}

type tokenResolver map[string]*domain.Principal

func (r tokenResolver) Resolve(_ context.Context, token string) (*domain.Principal, error) {
	if p, ok := r[token]; ok {
		return p, nil
	}
	return nil, domain.ErrUnauthenticated
}

type noopAuth struct{}

func (noopAuth) Register(context.Context, ports.RegisterInput) (*domain.Principal, error) {
	return nil, &domain.ConflictError{Fields: []string{"username"}}
}

func (noopAuth) Login(context.Context, string, string) (string, *domain.Principal, error) {
	return "", nil, domain.ErrInvalidCredentials
}

type forbiddenCategories struct{}

func (forbiddenCategories) List(_ context.Context, p *domain.Principal) ([]*domain.Category, error) {
	return []*domain.Category{{ID: "c1", Name: "Food", OwnerID: p.ID}}, nil
}

func (forbiddenCategories) Create(context.Context, *domain.Principal, string) (*domain.Category, error) {
	return nil, domain.ErrCategoryNameTaken
}

func (forbiddenCategories) Update(context.Context, string, *domain.Principal, string) (*domain.Category, error) {
	return nil, domain.ErrForbidden
}

func (forbiddenCategories) Delete(context.Context, string, *domain.Principal) error {
	return domain.ErrCategoryNotFound
}

type emptyExpenses struct{}

func (emptyExpenses) List(context.Context, *domain.Principal) ([]ports.ExpenseDetail, error) {
	return nil, nil
}

func (emptyExpenses) Get(context.Context, string, *domain.Principal) (*ports.ExpenseDetail, error) {
	return nil, domain.ErrExpenseNotFound
}

func (emptyExpenses) Create(context.Context, *domain.Principal, ports.ExpenseInput) (*ports.ExpenseDetail, error) {
	return nil, domain.ErrBadCategory
}

func (emptyExpenses) Update(context.Context, string, *domain.Principal, ports.ExpenseInput) (*ports.ExpenseDetail, error) {
	return nil, domain.ErrForbidden
}

func (emptyExpenses) Delete(context.Context, string, *domain.Principal) error {
	return nil
}

func newTestRouter() *echo.Echo {
	return NewRouter(Services{
		Auth:       noopAuth{},
		Resolver:   tokenResolver{"alice-token": routerAlice},
		Categories: forbiddenCategories{},
		Expenses:   emptyExpenses{},
		Probes: []handlers.Check{{
			Name: "mongodb",
			Ping: func(context.Context) error { return nil },
		}},
	}, zerolog.Nop())
}

func serve(e *echo.Echo, method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	e := newTestRouter()

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/categories"},
		{http.MethodPost, "/api/categories"},
		{http.MethodPut, "/api/categories/c1"},
		{http.MethodDelete, "/api/categories/c1"},
		{http.MethodGet, "/api/expenses"},
		{http.MethodGet, "/api/expenses/e1"},
		{http.MethodPost, "/api/expenses"},
		{http.MethodPut, "/api/expenses/e1"},
		{http.MethodDelete, "/api/expenses/e1"},
	} {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, serve(e, route.method, route.path, "", "").Code)
			assert.Equal(t, http.StatusUnauthorized, serve(e, route.method, route.path, "forged", "").Code)
		})
	}
}

func TestRouter_StatusMapping(t *testing.T) {
	e := newTestRouter()

	tests := []struct {
		name, method, path, body string
		code                     int
	}{
		{"list categories", http.MethodGet, "/api/categories", "", http.StatusOK},
		{"name conflict", http.MethodPost, "/api/categories", `{"name":"Food"}`, http.StatusBadRequest},
		{"rename foreign", http.MethodPut, "/api/categories/c9", `{"name":"Rent"}`, http.StatusForbidden},
		{"delete missing", http.MethodDelete, "/api/categories/c9", "", http.StatusNotFound},
		{"get missing expense", http.MethodGet, "/api/expenses/e9", "", http.StatusNotFound},
		{"bad category", http.MethodPost, "/api/expenses", `{"amount":1,"date":"2024-01-01","category_id":"c9"}`, http.StatusBadRequest},
		{"update foreign expense", http.MethodPut, "/api/expenses/e9", `{"amount":1,"date":"2024-01-01","category_id":"c1"}`, http.StatusForbidden},
		{"delete expense", http.MethodDelete, "/api/expenses/e1", "", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(e, tt.method, tt.path, "alice-token", tt.body)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_AuthRoutesArePublic(t *testing.T) {
	e := newTestRouter()

	rec := serve(e, http.MethodPost, "/api/auth/login", "", `{"email":"alice@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"invalid credentials"}`, rec.Body.String())

	rec = serve(e, http.MethodPost, "/api/auth/register", "",
		`{"username":"alice","email":"alice@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"fields":["username"]`)
}

func TestRouter_Me(t *testing.T) {
	rec := serve(newTestRouter(), http.MethodGet, "/api/auth/me", "alice-token", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"p1","username":"alice","email":"alice@example.com"}`, rec.Body.String())
}

func TestRouter_OperationalEndpoints(t *testing.T) {
	e := newTestRouter()

	rec := serve(e, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/metrics", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(e, http.MethodGet, "/api/categories", "", "")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
