package models

import (
	"time"

	"github.com/google/uuid"
)

// Competitor is a company whose employees must never be persisted as
// prospects, regardless of persona fit.
type Competitor struct {
	ID          uuid.UUID `json:"id"`
	ClientID    uuid.UUID `json:"client_id"`
	CompanyName string    `json:"company_name"`
	CompanyURL  string    `json:"company_url,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
