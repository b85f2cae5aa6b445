package handler

import (
	"fmt"
	"time"

	"github.com/expensetrack/expense-api/internal/core/domain"
	"github.com/expensetrack/expense-api/internal/core/ports"
)

func toPrincipalResponse(p *domain.Principal) principalResponse {
	resp := principalResponse{ID: p.ID, Username: p.Username, Email: p.Email}
	if !p.CreatedAt.IsZero() {
		resp.CreatedAt = p.CreatedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func toCategoryResponse(c *domain.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name}
}

func toCategoryListResponse(cats []*domain.Category) []categoryResponse {
	out := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryResponse(c))
	}
	return out
}

func toExpenseInput(req expenseRequest) (ports.ExpenseInput, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return ports.ExpenseInput{}, domain.NewValidationError(fmt.Sprintf("date %q is not formatted as YYYY-MM-DD", req.Date))
	}
	return ports.ExpenseInput{
		Amount:      req.Amount,
		Date:        date,
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}, nil
}

func toExpenseResponse(d *ports.ExpenseDetail) expenseResponse {
	return expenseResponse{
		ID:           d.ID,
		Amount:       d.Amount.StringFixed(domain.AmountScale),
		Date:         d.Date.UTC().Format(dateLayout),
		Description:  d.Description,
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
	}
}

func toExpenseListResponse(details []ports.ExpenseDetail) []expenseResponse {
	out := make([]expenseResponse, 0, len(details))
	for i := range details {
		out = append(out, toExpenseResponse(&details[i]))
	}
	return out
}
