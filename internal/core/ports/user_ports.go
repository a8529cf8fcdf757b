package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
)

type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Create(ctx context.Context, user *domain.User) error
}

type UserService interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error)
}
