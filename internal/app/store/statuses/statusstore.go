// Package statuses provides access to the user_statuses collection, the
// durable mirror of the in-memory status registry.
//
// The collection is keyed by the platform user id and holds exactly one
// row per user. It is never read on the hot path; the registry hydrates
// from it once at startup and mirrors every mutation into it.
package statuses

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Record is one persisted user status row.
type Record struct {
	UserID string `bson:"_id"`
	Status string `bson:"status"`
}

// Store provides access to the user_statuses collection.
type Store struct {
	c *mongo.Collection
}

// New creates a new status store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_statuses")}
}

// Upsert writes the current status for a user, replacing any previous row.
func (s *Store) Upsert(ctx context.Context, userID, status string) error {
	filter := bson.M{"_id": userID}
	update := bson.M{"$set": bson.M{"status": status}}

	opts := options.Update().SetUpsert(true)
	_, err := s.c.UpdateOne(ctx, filter, update, opts)
	return err
}

// Delete removes a user's row. Deleting an absent row is not an error.
func (s *Store) Delete(ctx context.Context, userID string) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": userID})
	return err
}

// LoadAll returns every persisted row. Used once at startup to hydrate
// the registry.
func (s *Store) LoadAll(ctx context.Context) ([]Record, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Count returns the number of persisted rows. Used by the drift audit job.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}
