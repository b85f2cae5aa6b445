package domain

import "time"

// Principal is a registered account. Email is the login key.
type Principal struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Owns reports whether ownerID designates this principal.
func (p *Principal) Owns(ownerID string) bool {
	return p != nil && p.ID != "" && p.ID == ownerID
}
