package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"seokeys/internal/models"
	"seokeys/internal/store"
)

var _ store.Store = (*DB)(nil)

// GetGenerationByURL returns the most recently inserted generation for url.
func (d *DB) GetGenerationByURL(ctx context.Context, url string) (*models.Generation, error) {
	var g models.Generation
	err := d.Pool.QueryRow(ctx, `
		SELECT id, url, suggestions, created_at
		FROM keyword_generations
		WHERE url = $1
		ORDER BY seq DESC
		LIMIT 1
	`, url).Scan(&g.ID, &g.URL, &g.Suggestions, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, store.ErrGenerationNotFound
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return &g, nil
}

// SaveGeneration inserts a new generation row. Duplicate URLs are allowed.
func (d *DB) SaveGeneration(ctx context.Context, url string, suggestions []models.Suggestion) (*models.Generation, error) {
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}

	g := models.Generation{
		ID:          uuid.New(),
		URL:         url,
		Suggestions: suggestions,
	}
	err := d.Pool.QueryRow(ctx, `
		INSERT INTO keyword_generations (id, url, suggestions)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`, g.ID, g.URL, g.Suggestions).Scan(&g.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save generation: %w", err)
	}
	return &g, nil
}

// CountURLs returns the number of distinct cached URLs.
func (d *DB) CountURLs(ctx context.Context) (int64, error) {
	var n int64
	err := d.Pool.QueryRow(ctx, `SELECT COUNT(DISTINCT url) FROM keyword_generations`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count cached urls: %w", err)
	}
	return n, nil
}
