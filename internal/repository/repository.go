package repository

import (
	"context"

	"vfcarvalho/meu-treino/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository reads the per-user document from the store. The document
// is opaque to this application; there is no write path for it.
type UserRepository interface {
	// GetDoc returns the user's document as a plain map, or an empty map
	// when no document exists. A missing document is not an error.
	GetDoc(ctx context.Context, userID string) (map[string]any, error)
}

// ExerciseRepository is the per-user exercise store. Every operation is
// scoped by userID; no call can reach another user's records.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, userID string, id primitive.ObjectID) (*domain.Exercise, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Exercise, error)
	// SetDone marks the exercise complete. There is no way back to
	// not-done. Returns ErrNotFound when no owned record matches.
	SetDone(ctx context.Context, userID string, id primitive.ObjectID) error
	SetVideoObjectKey(ctx context.Context, userID string, id primitive.ObjectID, key string) error
	// Delete removes the record. Deleting an id that is already gone is
	// a no-op success, matching the backing store's own delete contract.
	Delete(ctx context.Context, userID string, id primitive.ObjectID) error
}
