package service

import "github.com/expensetrack/expense-api/internal/core/domain"

// authorize is the single ownership gate for reads and writes: the record
// exists (the caller already loaded it) and belongs to principal.
func authorize(principal *domain.Principal, ownerID string) error {
	if !principal.Owns(ownerID) {
		return domain.ErrForbidden
	}
	return nil
}
