package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
)

type VoteRepository interface {
	// FindByVoter returns nil when the voter has not voted on the poll.
	FindByVoter(ctx context.Context, pollID uuid.UUID, voter domain.VoterKey) (*domain.Vote, error)
	// SaveVote returns domain.ErrAlreadyVoted when the voter already holds a vote on the poll.
	SaveVote(ctx context.Context, vote *domain.Vote) error
	UpdateOption(ctx context.Context, voteID, optionID uuid.UUID) error
}

type VoteInput struct {
	PollID   uuid.UUID
	OptionID uuid.UUID
	Voter    domain.VoterKey
}

// VotePolicy decides what happens when a voter votes again on the same poll.
type VotePolicy string

const (
	VotePolicyChange VotePolicy = "change"
	VotePolicyReject VotePolicy = "reject"
)

type VoteService interface {
	Vote(ctx context.Context, input VoteInput) (*domain.Vote, error)
	MyVote(ctx context.Context, pollID uuid.UUID, voter domain.VoterKey) (*uuid.UUID, error)
}
