package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// MaxDescriptionLen bounds the free-text description of an expense, in runes.
	MaxDescriptionLen = 255
	// AmountScale is the number of fractional digits an amount may carry.
	AmountScale = 2
)

// Expense is a single spending record. CategoryID always references a
// category owned by OwnerID.
type Expense struct {
	ID          string          `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	CategoryID  string          `json:"category_id"`
	OwnerID     string          `json:"owner_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
