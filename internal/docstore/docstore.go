// Package docstore implements the generation cache on MongoDB.
package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"seokeys/internal/models"
	"seokeys/internal/store"
)

// DefaultCollection is the collection generations are written to.
const DefaultCollection = "keyword_generations"

var _ store.Store = (*Store)(nil)

// Store keeps generations as documents in a MongoDB collection.
type Store struct {
	Client     *mongo.Client
	Collection *mongo.Collection
}

// document is the stored shape of a generation.
type document struct {
	ObjectID    primitive.ObjectID  `bson:"_id,omitempty"`
	ID          string              `bson:"id"`
	URL         string              `bson:"url"`
	Suggestions []models.Suggestion `bson:"suggestions"`
	CreatedAt   time.Time           `bson:"created_at"`
}

// New connects to MongoDB and ensures the lookup index exists.
func New(ctx context.Context, uri, database, collection string) (*Store, error) {
	if collection == "" {
		collection = DefaultCollection
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &Store{
		Client:     client,
		Collection: client.Database(database).Collection(collection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "url", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create url index: %w", err)
	}
	return nil
}

// GetGenerationByURL returns the most recently inserted generation for url.
func (s *Store) GetGenerationByURL(ctx context.Context, url string) (*models.Generation, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	var doc document
	err := s.Collection.FindOne(ctx, bson.M{"url": url}, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, store.ErrGenerationNotFound
		}
		return nil, fmt.Errorf("failed to get generation: %w", err)
	}
	return doc.generation()
}

// SaveGeneration inserts a new generation document.
func (s *Store) SaveGeneration(ctx context.Context, url string, suggestions []models.Suggestion) (*models.Generation, error) {
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}

	doc := document{
		ObjectID:    primitive.NewObjectID(),
		ID:          uuid.NewString(),
		URL:         url,
		Suggestions: suggestions,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if _, err := s.Collection.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to save generation: %w", err)
	}
	return doc.generation()
}

// CountURLs returns the number of distinct cached URLs.
func (s *Store) CountURLs(ctx context.Context) (int64, error) {
	urls, err := s.Collection.Distinct(ctx, "url", bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count cached urls: %w", err)
	}
	return int64(len(urls)), nil
}

// Ping checks that the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func (d document) generation() (*models.Generation, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("invalid generation id %q: %w", d.ID, err)
	}
	return &models.Generation{
		ID:          id,
		URL:         d.URL,
		Suggestions: d.Suggestions,
		CreatedAt:   d.CreatedAt,
	}, nil
}
