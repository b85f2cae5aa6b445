package handler

import "github.com/shopspring/decimal"

const dateLayout = "2006-01-02"

// --- Auth ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type principalResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at,omitempty"`
}

type loginResponse struct {
	Token     string            `json:"token"`
	TokenType string            `json:"token_type"`
	Principal principalResponse `json:"principal"`
}

// --- Categories ---

type categoryRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type categoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// --- Expenses ---

// expenseRequest accepts the amount as a JSON number or a decimal string.
type expenseRequest struct {
	Amount      decimal.Decimal `json:"amount"       swaggertype:"string" example:"12.50"`
	Date        string          `json:"date"         validate:"required,datetime=2006-01-02" example:"2024-01-01"`
	Description string          `json:"description"  validate:"max=255"`
	CategoryID  string          `json:"category_id"  validate:"required"`
}

type expenseResponse struct {
	ID           string `json:"id"`
	Amount       string `json:"amount" example:"12.50"`
	Date         string `json:"date"   example:"2024-01-01"`
	Description  string `json:"description,omitempty"`
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
}
