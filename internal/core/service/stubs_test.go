package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/expensetrack/expense-api/internal/core/domain"
)

var discardLogger = zerolog.Nop()

// ---------------------------------------------------------------------------
// In-memory stub repositories. Each enforces the same unique constraints the
// Mongo indexes do.
// ---------------------------------------------------------------------------

type stubPrincipalRepo struct {
	byID    map[string]*domain.Principal
	nextID  int
	findErr error
	// lookups counts FindByID calls.
	lookups int
}

func newStubPrincipalRepo() *stubPrincipalRepo {
	return &stubPrincipalRepo{byID: make(map[string]*domain.Principal)}
}

func clonePrincipal(p *domain.Principal) *domain.Principal {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

func (r *stubPrincipalRepo) Create(_ context.Context, p *domain.Principal) (*domain.Principal, error) {
	var taken []string
	for _, u := range r.byID {
		if u.Username == p.Username {
			taken = append(taken, "username")
		}
		if u.Email == p.Email {
			taken = append(taken, "email")
		}
	}
	if len(taken) > 0 {
		return nil, &domain.ConflictError{Fields: taken}
	}
	r.nextID++
	stored := clonePrincipal(p)
	stored.ID = fmt.Sprintf("p%d", r.nextID)
	r.byID[stored.ID] = stored
	return clonePrincipal(stored), nil
}

func (r *stubPrincipalRepo) FindByID(_ context.Context, id string) (*domain.Principal, error) {
	r.lookups++
	if r.findErr != nil {
		return nil, r.findErr
	}
	p, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrPrincipalNotFound
	}
	return clonePrincipal(p), nil
}

func (r *stubPrincipalRepo) FindByEmail(_ context.Context, email string) (*domain.Principal, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, p := range r.byID {
		if p.Email == email {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

func (r *stubPrincipalRepo) FindByUsername(_ context.Context, username string) (*domain.Principal, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, p := range r.byID {
		if p.Username == username {
			return clonePrincipal(p), nil
		}
	}
	return nil, domain.ErrPrincipalNotFound
}

type stubCategoryRepo struct {
	byID      map[string]*domain.Category
	nextID    int
	createErr error
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{byID: make(map[string]*domain.Category)}
}

func (r *stubCategoryRepo) nameTaken(ownerID, name, exceptID string) bool {
	for _, c := range r.byID {
		if c.OwnerID == ownerID && c.Name == name && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *stubCategoryRepo) Create(_ context.Context, c *domain.Category) error {
	if r.createErr != nil {
		return r.createErr
	}
	if r.nameTaken(c.OwnerID, c.Name, "") {
		return domain.ErrCategoryNameTaken
	}
	r.nextID++
	c.ID = fmt.Sprintf("c%d", r.nextID)
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id string) (*domain.Category, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCategoryNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCategoryRepo) FindByOwnerAndName(_ context.Context, ownerID, name string) (*domain.Category, error) {
	for _, c := range r.byID {
		if c.OwnerID == ownerID && c.Name == name {
			clone := *c
			return &clone, nil
		}
	}
	return nil, domain.ErrCategoryNotFound
}

func (r *stubCategoryRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, c := range r.byID {
		if c.OwnerID == ownerID {
			clone := *c
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *domain.Category) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCategoryNotFound
	}
	if r.nameTaken(c.OwnerID, c.Name, c.ID) {
		return domain.ErrCategoryNameTaken
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCategoryNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubExpenseRepo struct {
	byID      map[string]*domain.Expense
	nextID    int
	createErr error
	// leak makes ListByOwner ignore the owner filter.
	leak bool
}

func newStubExpenseRepo() *stubExpenseRepo {
	return &stubExpenseRepo{byID: make(map[string]*domain.Expense)}
}

func (r *stubExpenseRepo) Create(_ context.Context, e *domain.Expense) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	e.ID = fmt.Sprintf("e%d", r.nextID)
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubExpenseRepo) FindByID(_ context.Context, id string) (*domain.Expense, error) {
	e, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrExpenseNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubExpenseRepo) ListByOwner(_ context.Context, ownerID string) ([]*domain.Expense, error) {
	var out []*domain.Expense
	for _, e := range r.byID {
		if r.leak || e.OwnerID == ownerID {
			clone := *e
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r *stubExpenseRepo) Update(_ context.Context, e *domain.Expense) error {
	if _, ok := r.byID[e.ID]; !ok {
		return domain.ErrExpenseNotFound
	}
	clone := *e
	r.byID[e.ID] = &clone
	return nil
}

func (r *stubExpenseRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *stubExpenseRepo) DeleteByCategory(_ context.Context, categoryID string) (int64, error) {
	var n int64
	for id, e := range r.byID {
		if e.CategoryID == categoryID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}
