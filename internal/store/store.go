// Package store defines the result cache used by the keyword pipeline and
// an in-process implementation of it. Durable implementations live in
// internal/db (Postgres) and internal/docstore (MongoDB).
package store

import (
	"context"
	"errors"

	"seokeys/internal/models"
)

// ErrGenerationNotFound is returned when no generation is cached for a URL.
var ErrGenerationNotFound = errors.New("generation not found")

// Store is an append-only cache of generations keyed by normalized URL.
type Store interface {
	// GetGenerationByURL returns the most recently saved generation whose
	// URL equals url exactly, or ErrGenerationNotFound.
	GetGenerationByURL(ctx context.Context, url string) (*models.Generation, error)

	// SaveGeneration appends a new generation. Existing rows for the same
	// URL are left alone; the newest one wins on the next lookup.
	SaveGeneration(ctx context.Context, url string, suggestions []models.Suggestion) (*models.Generation, error)

	// CountURLs returns the number of distinct cached URLs.
	CountURLs(ctx context.Context) (int64, error)

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
