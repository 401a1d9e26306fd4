package models

import (
	"time"

	"github.com/google/uuid"
)

// Generation is a cached keyword generation for one normalized URL.
// Rows are append-only; the most recently inserted row for a URL wins.
type Generation struct {
	ID          uuid.UUID    `json:"id"`
	URL         string       `json:"url"`
	Suggestions []Suggestion `json:"suggestions"`
	CreatedAt   time.Time    `json:"created_at"`
}
