package mongo

import (
	"context"
	"errors"
	"time"

	"vfcarvalho/meu-treino/internal/domain"
	"vfcarvalho/meu-treino/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the database.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" || exercise.UserID == "" {
		return primitive.NilObjectID, errors.New("exercise name and user ID are required")
	}

	exercise.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	exercise.CreatedAt = now
	exercise.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}

	return insertedID, nil
}

// GetByID retrieves an exercise, scoped to its owner.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, userID string, id primitive.ObjectID) (*domain.Exercise, error) {
	var exercise domain.Exercise
	filter := bson.M{"_id": id, "userId": userID}

	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// ListByUser retrieves all exercises owned by the given user, newest first.
// Every call re-reads the store; there is no caching layer.
func (r *mongoExerciseRepository) ListByUser(ctx context.Context, userID string) ([]domain.Exercise, error) {
	exercises := []domain.Exercise{}
	filter := bson.M{"userId": userID}

	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}

	return exercises, nil
}

// SetDone marks an exercise complete via a partial merge. Updating an id
// that does not exist (or is owned by someone else) is ErrNotFound.
// Marking an already-done exercise again matches but modifies nothing,
// which is fine: done is a one-way flag.
func (r *mongoExerciseRepository) SetDone(ctx context.Context, userID string, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "userId": userID}
	update := bson.M{
		"$set": bson.M{
			"done":      true,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// SetVideoObjectKey records the storage key of an uploaded demo video.
func (r *mongoExerciseRepository) SetVideoObjectKey(ctx context.Context, userID string, id primitive.ObjectID, key string) error {
	filter := bson.M{"_id": id, "userId": userID}
	update := bson.M{
		"$set": bson.M{
			"videoObjectKey": key,
			"updatedAt":      time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an exercise, ensuring it belongs to the given user.
// A DeletedCount of zero is not an error: the record is equally gone
// whether this call removed it or it never existed.
func (r *mongoExerciseRepository) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	filter := bson.M{"_id": id, "userId": userID}

	_, err := r.collection.DeleteOne(ctx, filter)
	return err
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Every query is scoped by owner.
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
		{
			// List order: newest first within a user.
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_created_at"),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
