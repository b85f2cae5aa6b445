package domain

import "time"

// MaxCategoryNameLen bounds the length of a category name, in runes.
const MaxCategoryNameLen = 100

// Category groups expenses. Name is unique per owner (case-sensitive).
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
