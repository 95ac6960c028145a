package mongo

import (
	"context"
	"errors"

	"vfcarvalho/meu-treino/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const userCollectionName = "users"

// mongoUserRepository implements repository.UserRepository.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new User repository backed by MongoDB.
// User documents are keyed by the identity provider's uid (_id field) and
// are written by external tooling, never by this application.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// GetDoc fetches the user's document. A user that has never had a document
// written is perfectly normal, so a miss returns an empty map, not an error.
func (r *mongoUserRepository) GetDoc(ctx context.Context, userID string) (map[string]any, error) {
	var doc bson.M
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return map[string]any{}, nil
		}
		return nil, err
	}

	out := make(map[string]any, len(doc))
	for k, v := range doc {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out, nil
}
