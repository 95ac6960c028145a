package service

import (
	"context"
	"errors"

	"vfcarvalho/meu-treino/internal/repository"
)

// UserService exposes the per-user document for display on the home page.
// The document is read-only here; whatever fields it carries are shown as-is.
type UserService interface {
	Profile(ctx context.Context, userID string) (map[string]any, error)
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) Profile(ctx context.Context, userID string) (map[string]any, error) {
	if userID == "" {
		return nil, errors.New("user ID cannot be empty")
	}
	return s.userRepo.GetDoc(ctx, userID)
}
