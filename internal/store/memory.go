package store

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"seokeys/internal/models"
)

var _ Store = (*Memory)(nil)

// Memory is a Store kept in process memory. Entries are lost on restart.
type Memory struct {
	mu   sync.RWMutex
	rows []models.Generation
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// GetGenerationByURL returns the newest generation for url.
func (m *Memory) GetGenerationByURL(ctx context.Context, url string) (*models.Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].URL == url {
			g := m.rows[i]
			g.Suggestions = slices.Clone(g.Suggestions)
			return &g, nil
		}
	}
	return nil, ErrGenerationNotFound
}

// SaveGeneration appends a generation for url.
func (m *Memory) SaveGeneration(ctx context.Context, url string, suggestions []models.Suggestion) (*models.Generation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g := models.Generation{
		ID:          uuid.New(),
		URL:         url,
		Suggestions: slices.Clone(suggestions),
		CreatedAt:   time.Now().UTC(),
	}

	m.mu.Lock()
	m.rows = append(m.rows, g)
	m.mu.Unlock()

	return &g, nil
}

// CountURLs returns the number of distinct URLs stored.
func (m *Memory) CountURLs(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{}, len(m.rows))
	for _, r := range m.rows {
		seen[r.URL] = struct{}{}
	}
	return int64(len(seen)), nil
}

// Ping always succeeds.
func (m *Memory) Ping(ctx context.Context) error {
	return nil
}
