package models

import (
	"time"

	"github.com/google/uuid"
)

// Family is the tenant-like grouping that scopes data visibility and
// permissions for its member users.
type Family struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}
