package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is one tenant of the engine. Radars, personas, competitors, and
// prospects are all client-scoped.
type Client struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
