package service

import (
	"context"
	"errors"
	"fmt"

	"vfcarvalho/meu-treino/internal/domain"
	"vfcarvalho/meu-treino/internal/repository"
	"vfcarvalho/meu-treino/internal/storage"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrValidationFailed     = errors.New("exercise validation failed")
	ErrVideoStorageDisabled = errors.New("video storage is not configured")
)

// CreateExerciseInput carries the user-supplied fields of a new exercise.
// Load step of 2.5 kg is a form hint only; any non-negative load is accepted.
type CreateExerciseInput struct {
	Group    domain.Group
	Name     string
	Load     float64
	VideoURL string
}

// VideoUpload is the response to a presigned-upload request.
type VideoUpload struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

// --- Service Interface ---
type ExerciseService interface {
	List(ctx context.Context, userID string) ([]domain.Exercise, error)
	Create(ctx context.Context, userID string, input CreateExerciseInput) (*domain.Exercise, error)
	// Complete marks the exercise done. Done is a one-way flag: there is
	// no unmark operation, and completing twice is not an error.
	Complete(ctx context.Context, userID string, id primitive.ObjectID) error
	Delete(ctx context.Context, userID string, id primitive.ObjectID) error

	// Video upload flow (only when storage is configured): request a
	// presigned PUT URL, upload directly, then confirm with AttachVideo.
	RequestVideoUpload(ctx context.Context, userID string, id primitive.ObjectID, contentType string) (*VideoUpload, error)
	AttachVideo(ctx context.Context, userID string, id primitive.ObjectID, objectKey string) error
	// ResolveVideoURL returns a viewable URL for the exercise's video:
	// the external link as-is, or a presigned GET for an uploaded object.
	ResolveVideoURL(ctx context.Context, ex *domain.Exercise) string
}

// --- Service Implementation ---

type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	fileStorage  storage.FileStorage // nil when video storage is disabled
}

// NewExerciseService creates a new instance of exerciseService.
// fileStorage may be nil; video operations then report storage as disabled.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, fileStorage storage.FileStorage) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		fileStorage:  fileStorage,
	}
}

func (s *exerciseService) List(ctx context.Context, userID string) ([]domain.Exercise, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	return s.exerciseRepo.ListByUser(ctx, userID)
}

func (s *exerciseService) Create(ctx context.Context, userID string, input CreateExerciseInput) (*domain.Exercise, error) {
	if userID == "" {
		return nil, errors.New("user ID is required to create an exercise")
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidationFailed)
	}
	if !input.Group.Valid() {
		return nil, fmt.Errorf("%w: group must be A, B or C", ErrValidationFailed)
	}
	if input.Load < 0 {
		return nil, fmt.Errorf("%w: load cannot be negative", ErrValidationFailed)
	}

	exercise := &domain.Exercise{
		UserID:   userID,
		Group:    input.Group,
		Name:     input.Name,
		Load:     input.Load,
		VideoURL: input.VideoURL,
		Done:     false,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	exercise.ID = exerciseID
	return exercise, nil
}

func (s *exerciseService) Complete(ctx context.Context, userID string, id primitive.ObjectID) error {
	if userID == "" || id == primitive.NilObjectID {
		return errors.New("user ID and exercise ID are required")
	}

	err := s.exerciseRepo.SetDone(ctx, userID, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}

func (s *exerciseService) Delete(ctx context.Context, userID string, id primitive.ObjectID) error {
	if userID == "" || id == primitive.NilObjectID {
		return errors.New("user ID and exercise ID are required")
	}

	// If a demo video was uploaded, clean up the object too. The record
	// lookup doubles as the ownership check; an absent record means the
	// delete below is a no-op anyway.
	var objectKey string
	if existing, err := s.exerciseRepo.GetByID(ctx, userID, id); err == nil {
		objectKey = existing.VideoObjectKey
	}

	if err := s.exerciseRepo.Delete(ctx, userID, id); err != nil {
		return err
	}

	if objectKey != "" && s.fileStorage != nil {
		// Best effort: a leaked object must not fail the delete.
		if err := s.fileStorage.DeleteObject(ctx, objectKey); err != nil {
			log.Warn().Err(err).Str("key", objectKey).Msg("orphaned video object left behind")
		}
	}
	return nil
}

func (s *exerciseService) RequestVideoUpload(ctx context.Context, userID string, id primitive.ObjectID, contentType string) (*VideoUpload, error) {
	if s.fileStorage == nil {
		return nil, ErrVideoStorageDisabled
	}

	// Verify the exercise exists and belongs to the caller before handing
	// out an upload URL.
	if _, err := s.exerciseRepo.GetByID(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}

	objectKey := fmt.Sprintf("videos/%s/%s/%s", userID, id.Hex(), uuid.NewString())
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &VideoUpload{UploadURL: uploadURL, ObjectKey: objectKey}, nil
}

func (s *exerciseService) AttachVideo(ctx context.Context, userID string, id primitive.ObjectID, objectKey string) error {
	if s.fileStorage == nil {
		return ErrVideoStorageDisabled
	}
	if objectKey == "" {
		return fmt.Errorf("%w: object key is required", ErrValidationFailed)
	}

	err := s.exerciseRepo.SetVideoObjectKey(ctx, userID, id, objectKey)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrExerciseNotFound
	}
	return err
}

func (s *exerciseService) ResolveVideoURL(ctx context.Context, ex *domain.Exercise) string {
	if ex.VideoObjectKey != "" && s.fileStorage != nil {
		url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, ex.VideoObjectKey, storage.DefaultPresignedURLExpiry)
		if err != nil {
			log.Warn().Err(err).Str("key", ex.VideoObjectKey).Msg("could not presign video URL")
			return ""
		}
		return url
	}
	return ex.VideoURL
}
