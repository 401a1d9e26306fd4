package mock

import (
	"context"

	"seokeys/internal/models"
	"seokeys/internal/store"
)

var _ store.Store = (*Store)(nil)

// Store is a mock implementation of store.Store.
type Store struct {
	GetGenerationByURLFn func(ctx context.Context, url string) (*models.Generation, error)
	SaveGenerationFn     func(ctx context.Context, url string, suggestions []models.Suggestion) (*models.Generation, error)
	CountURLsFn          func(ctx context.Context) (int64, error)
	PingFn               func(ctx context.Context) error
}

func (s *Store) GetGenerationByURL(ctx context.Context, url string) (*models.Generation, error) {
	return s.GetGenerationByURLFn(ctx, url)
}

func (s *Store) SaveGeneration(ctx context.Context, url string, suggestions []models.Suggestion) (*models.Generation, error) {
	return s.SaveGenerationFn(ctx, url, suggestions)
}

func (s *Store) CountURLs(ctx context.Context) (int64, error) {
	return s.CountURLsFn(ctx)
}

func (s *Store) Ping(ctx context.Context) error {
	return s.PingFn(ctx)
}
