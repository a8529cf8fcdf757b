package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type voteService struct {
	pollRepo ports.PollRepository
	voteRepo ports.VoteRepository
	policy   ports.VotePolicy
	now      func() time.Time
}

func NewVoteService(pollRepo ports.PollRepository, voteRepo ports.VoteRepository, policy ports.VotePolicy) ports.VoteService {
	if policy != ports.VotePolicyReject {
		policy = ports.VotePolicyChange
	}
	return &voteService{
		pollRepo: pollRepo,
		voteRepo: voteRepo,
		policy:   policy,
		now:      time.Now,
	}
}

func (s *voteService) Vote(ctx context.Context, input ports.VoteInput) (*domain.Vote, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if poll.IsExpired(now) {
		return nil, domain.ErrPollExpired
	}

	if !poll.HasOption(input.OptionID) {
		return nil, domain.ErrInvalidOption
	}

	if input.Voter.IsZero() {
		return nil, domain.ErrUnauthenticated
	}

	existing, err := s.voteRepo.FindByVoter(ctx, poll.ID, input.Voter)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing vote: %w", err)
	}

	if existing != nil {
		if s.policy == ports.VotePolicyReject {
			return nil, domain.ErrAlreadyVoted
		}
		if existing.OptionID == input.OptionID {
			return existing, nil
		}
		if err := s.voteRepo.UpdateOption(ctx, existing.ID, input.OptionID); err != nil {
			return nil, err
		}
		existing.OptionID = input.OptionID
		return existing, nil
	}

	vote := &domain.Vote{
		ID:        uuid.New(),
		PollID:    poll.ID,
		OptionID:  input.OptionID,
		Voter:     input.Voter,
		CreatedAt: now,
	}

	// A concurrent first vote from the same voter loses on the unique index.
	if err := s.voteRepo.SaveVote(ctx, vote); err != nil {
		if errors.Is(err, domain.ErrAlreadyVoted) {
			return nil, domain.ErrAlreadyVoted
		}
		return nil, err
	}

	return vote, nil
}

func (s *voteService) MyVote(ctx context.Context, pollID uuid.UUID, voter domain.VoterKey) (*uuid.UUID, error) {
	poll, err := s.pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if voter.IsZero() {
		return nil, nil
	}

	vote, err := s.voteRepo.FindByVoter(ctx, poll.ID, voter)
	if err != nil {
		return nil, fmt.Errorf("failed to look up vote: %w", err)
	}
	if vote == nil {
		return nil, nil
	}
	return &vote.OptionID, nil
}
