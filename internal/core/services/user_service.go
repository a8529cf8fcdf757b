package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type UserService struct {
	repo     ports.UserRepository
	pollRepo ports.PollRepository
}

func NewUserService(repo ports.UserRepository, pollRepo ports.PollRepository) ports.UserService {
	return &UserService{
		repo:     repo,
		pollRepo: pollRepo,
	}
}

func (s *UserService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}

	count, err := s.pollRepo.CountByCreator(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count polls: %w", err)
	}

	return &domain.UserProfile{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		CreatedAt:         user.CreatedAt,
		CreatedPollsCount: count,
	}, nil
}
