package docstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"seokeys/internal/docstore"
	"seokeys/internal/store"
	"seokeys/internal/testutil"
)

func testStore(t *testing.T) *docstore.Store {
	t.Helper()

	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("Skipping integration test: TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := docstore.New(ctx, uri, "seokeys_test", docstore.DefaultCollection)
	require.NoError(t, err)

	_, err = s.Collection.DeleteMany(ctx, bson.D{})
	require.NoError(t, err)

	t.Cleanup(func() {
		_, _ = s.Collection.DeleteMany(context.Background(), bson.D{})
		_ = s.Close(context.Background())
	})
	return s
}

func TestStore(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	_, err := s.GetGenerationByURL(ctx, "https://example.com")
	assert.ErrorIs(t, err, store.ErrGenerationNotFound)

	_, err = s.SaveGeneration(ctx, "https://example.com", testutil.Suggestions("first"))
	require.NoError(t, err)
	second, err := s.SaveGeneration(ctx, "https://example.com", testutil.Suggestions("second"))
	require.NoError(t, err)

	got, err := s.GetGenerationByURL(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)
	assert.Equal(t, testutil.Suggestions("second"), got.Suggestions)

	n, err := s.CountURLs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
