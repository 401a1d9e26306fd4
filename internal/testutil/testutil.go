// Package testutil provides test utilities and helpers.
package testutil

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"seokeys/internal/db"
	"seokeys/internal/models"
)

// TestDB creates a test database connection and returns a cleanup function.
// Uses TEST_DATABASE_URL and skips the test when it is not set.
func TestDB(t *testing.T) (*db.DB, func()) {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("Skipping integration test: TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := db.New(ctx, connString)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := database.RunMigrations(connString); err != nil {
		database.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	cleanupTestData(ctx, database.Pool)

	cleanup := func() {
		cleanupTestData(ctx, database.Pool)
		database.Close()
	}

	return database, cleanup
}

// cleanupTestData removes all test data from the database.
func cleanupTestData(ctx context.Context, pool *pgxpool.Pool) {
	pool.Exec(ctx, "DELETE FROM keyword_generations")
}

// Suggestions returns six valid suggestions whose keywords start with prefix.
func Suggestions(prefix string) []models.Suggestion {
	out := make([]models.Suggestion, 0, models.SuggestionCount)
	for i := 0; i < models.SuggestionCount; i++ {
		out = append(out, models.Suggestion{
			Keyword:    prefix + " " + strings.Repeat("k", i+1),
			Intent:     models.Intents[i%len(models.Intents)],
			TitleIdea:  "How to " + prefix,
			Difficulty: float64(15 + i*10),
			Volume:     float64(1000 * (i + 1)),
		})
	}
	return out
}
