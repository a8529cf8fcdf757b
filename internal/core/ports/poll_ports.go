package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	// Update overwrites the poll's fields and replaces its full option set.
	Update(ctx context.Context, poll *domain.Poll) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	// GetAggregate reads the poll, its options and all its votes in one consistent snapshot.
	GetAggregate(ctx context.Context, id uuid.UUID) (*domain.PollAggregate, error)
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
	List(ctx context.Context, filter ListPollsFilter) ([]*domain.Poll, int, error)
	ListVotedBy(ctx context.Context, voter domain.VoterKey, limit, offset int) ([]*domain.Poll, int, error)
	CountByCreator(ctx context.Context, userID uuid.UUID) (int, error)
}

type ListPollsFilter struct {
	Now    time.Time
	Query  string
	Limit  int
	Offset int
}

type CreatePollInput struct {
	UserID      *uuid.UUID
	Title       string
	Description string
	IsPublic    bool
	ExpiresAt   *time.Time
	Options     []string
}

type UpdatePollInput struct {
	ID          uuid.UUID
	UserID      *uuid.UUID
	Title       string
	Description string
	IsPublic    bool
	ExpiresAt   *time.Time
	Options     []string
}

type ListPollsInput struct {
	Page     int
	PageSize int
	Query    string
}

type PollService interface {
	Create(ctx context.Context, input CreatePollInput) (*domain.Poll, error)
	Update(ctx context.Context, input UpdatePollInput) (*domain.Poll, error)
	Delete(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error
	GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	ListPolls(ctx context.Context, input ListPollsInput) (domain.Page[*domain.Poll], error)
	ListVotedPolls(ctx context.Context, voter domain.VoterKey, input ListPollsInput) (domain.Page[*domain.Poll], error)
}
