// Package mongostore implements the user directory and movie store on MongoDB.
// IDs are ObjectID hex strings, so they compare with SQL-backed UUIDs the same
// way: as canonical strings.
package mongostore

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/joestump/movies/internal/store"
)

const (
	usersCollection  = "users"
	moviesCollection = "movies"
)

// EnsureIndexes creates the unique username/email indexes. It plays the role
// of the SQL migrations for MongoDB and is safe to run on every start.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	_, err = db.Collection(moviesCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdBy", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create movie indexes: %w", err)
	}
	return nil
}

// objectID parses a hex id. Malformed ids cannot match any document, so they
// map to store.ErrNotFound rather than a distinct error.
func objectID(id string) (bson.ObjectID, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.ObjectID{}, store.ErrNotFound
	}
	return oid, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}
