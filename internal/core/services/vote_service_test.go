package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestPoll(expiresAt *time.Time) *domain.Poll {
	id := uuid.New()
	return &domain.Poll{
		ID:        id,
		Title:     "Test Poll",
		CreatedAt: fixedNow.Add(-time.Hour),
		ExpiresAt: expiresAt,
		IsPublic:  true,
		Options: []domain.PollOption{
			{ID: uuid.New(), PollID: id, Text: "Option 1"},
			{ID: uuid.New(), PollID: id, Text: "Option 2"},
		},
	}
}

func newVoteServiceForTest(policy ports.VotePolicy) (*voteService, *mockPollRepository, *mockVoteRepository) {
	pollRepo := new(mockPollRepository)
	voteRepo := new(mockVoteRepository)
	svc := NewVoteService(pollRepo, voteRepo, policy).(*voteService)
	svc.now = func() time.Time { return fixedNow }
	return svc, pollRepo, voteRepo
}

func TestVote_PollNotFound(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	pollID := uuid.New()
	pollRepo.On("GetByID", mock.Anything, pollID).Return(nil, domain.ErrPollNotFound)

	_, err := svc.Vote(context.Background(), ports.VoteInput{
		PollID:   pollID,
		OptionID: uuid.New(),
		Voter:    domain.AnonymousVoter("10.0.0.1"),
	})

	assert.ErrorIs(t, err, domain.ErrPollNotFound)
	voteRepo.AssertNotCalled(t, "SaveVote", mock.Anything, mock.Anything)
}

func TestVote_ExpiredBeforeOptionCheck(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	past := fixedNow.Add(-time.Minute)
	poll := newTestPoll(&past)
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)

	// an option from nowhere still reports expiry first
	_, err := svc.Vote(context.Background(), ports.VoteInput{
		PollID:   poll.ID,
		OptionID: uuid.New(),
		Voter:    domain.AnonymousVoter("10.0.0.1"),
	})

	assert.ErrorIs(t, err, domain.ErrPollExpired)
	voteRepo.AssertNotCalled(t, "FindByVoter", mock.Anything, mock.Anything, mock.Anything)
}

func TestVote_ExpiryEqualToNowIsOpen(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	poll := newTestPoll(&fixedNow)
	voter := domain.AnonymousVoter("10.0.0.1")
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)
	voteRepo.On("FindByVoter", mock.Anything, poll.ID, voter).Return(nil, nil)
	voteRepo.On("SaveVote", mock.Anything, mock.AnythingOfType("*domain.Vote")).Return(nil)

	vote, err := svc.Vote(context.Background(), ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID, Voter: voter})

	require.NoError(t, err)
	assert.Equal(t, poll.Options[0].ID, vote.OptionID)
}

func TestVote_InvalidOption(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	poll := newTestPoll(nil)
	other := newTestPoll(nil)
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)

	_, err := svc.Vote(context.Background(), ports.VoteInput{
		PollID:   poll.ID,
		OptionID: other.Options[0].ID,
		Voter:    domain.AnonymousVoter("10.0.0.1"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidOption)
	voteRepo.AssertNotCalled(t, "FindByVoter", mock.Anything, mock.Anything, mock.Anything)
}

func TestVote_ReplacedOptionIsInvalid(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	original := newTestPoll(nil)
	replaced := *original
	replaced.Options = []domain.PollOption{
		{ID: uuid.New(), PollID: original.ID, Text: "New 1"},
		{ID: uuid.New(), PollID: original.ID, Text: "New 2"},
	}
	pollRepo.On("GetByID", mock.Anything, original.ID).Return(&replaced, nil)

	_, err := svc.Vote(context.Background(), ports.VoteInput{
		PollID:   original.ID,
		OptionID: original.Options[0].ID,
		Voter:    domain.AnonymousVoter("10.0.0.1"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidOption)
	voteRepo.AssertNotCalled(t, "SaveVote", mock.Anything, mock.Anything)
	voteRepo.AssertNotCalled(t, "UpdateOption", mock.Anything, mock.Anything, mock.Anything)
}

func TestVote_NoVoterIdentity(t *testing.T) {
	svc, pollRepo, _ := newVoteServiceForTest(ports.VotePolicyChange)
	poll := newTestPoll(nil)
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)

	_, err := svc.Vote(context.Background(), ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID})

	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestVote_InsertsFirstVote(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	poll := newTestPoll(nil)
	userID := uuid.New()
	voter := domain.AuthenticatedVoter(userID)
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)
	voteRepo.On("FindByVoter", mock.Anything, poll.ID, voter).Return(nil, nil)
	voteRepo.On("SaveVote", mock.Anything, mock.MatchedBy(func(v *domain.Vote) bool {
		id, ok := v.Voter.UserID()
		return ok && id == userID && v.PollID == poll.ID && v.OptionID == poll.Options[1].ID
	})).Return(nil)

	vote, err := svc.Vote(context.Background(), ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[1].ID, Voter: voter})

	require.NoError(t, err)
	assert.Equal(t, fixedNow, vote.CreatedAt)
	voteRepo.AssertExpectations(t)
}

func TestVote_ChangePolicyUpdatesExistingVote(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	poll := newTestPoll(nil)
	voter := domain.AnonymousVoter("10.0.0.1")
	existing := &domain.Vote{ID: uuid.New(), PollID: poll.ID, OptionID: poll.Options[0].ID, Voter: voter}
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)
	voteRepo.On("FindByVoter", mock.Anything, poll.ID, voter).Return(existing, nil)
	voteRepo.On("UpdateOption", mock.Anything, existing.ID, poll.Options[1].ID).Return(nil)

	vote, err := svc.Vote(context.Background(), ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[1].ID, Voter: voter})

	require.NoError(t, err)
	assert.Equal(t, existing.ID, vote.ID)
	assert.Equal(t, poll.Options[1].ID, vote.OptionID)
	voteRepo.AssertNotCalled(t, "SaveVote", mock.Anything, mock.Anything)
	voteRepo.AssertExpectations(t)
}

func TestVote_ChangePolicySameOptionIsNoop(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	poll := newTestPoll(nil)
	voter := domain.AnonymousVoter("10.0.0.1")
	existing := &domain.Vote{ID: uuid.New(), PollID: poll.ID, OptionID: poll.Options[0].ID, Voter: voter}
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)
	voteRepo.On("FindByVoter", mock.Anything, poll.ID, voter).Return(existing, nil)

	vote, err := svc.Vote(context.Background(), ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID, Voter: voter})

	require.NoError(t, err)
	assert.Equal(t, existing, vote)
	voteRepo.AssertNotCalled(t, "UpdateOption", mock.Anything, mock.Anything, mock.Anything)
}

func TestVote_RejectPolicy(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyReject)
	poll := newTestPoll(nil)
	voter := domain.AnonymousVoter("10.0.0.1")
	existing := &domain.Vote{ID: uuid.New(), PollID: poll.ID, OptionID: poll.Options[0].ID, Voter: voter}
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)
	voteRepo.On("FindByVoter", mock.Anything, poll.ID, voter).Return(existing, nil)

	_, err := svc.Vote(context.Background(), ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[1].ID, Voter: voter})

	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
	voteRepo.AssertNotCalled(t, "UpdateOption", mock.Anything, mock.Anything, mock.Anything)
}

func TestVote_ConcurrentInsertSurfacesAlreadyVoted(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	poll := newTestPoll(nil)
	voter := domain.AnonymousVoter("10.0.0.1")
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)
	voteRepo.On("FindByVoter", mock.Anything, poll.ID, voter).Return(nil, nil)
	voteRepo.On("SaveVote", mock.Anything, mock.Anything).Return(domain.ErrAlreadyVoted)

	_, err := svc.Vote(context.Background(), ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID, Voter: voter})

	assert.ErrorIs(t, err, domain.ErrAlreadyVoted)
}

func TestVote_StorageErrorPropagates(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	poll := newTestPoll(nil)
	voter := domain.AnonymousVoter("10.0.0.1")
	boom := errors.New("connection reset")
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)
	voteRepo.On("FindByVoter", mock.Anything, poll.ID, voter).Return(nil, boom)

	_, err := svc.Vote(context.Background(), ports.VoteInput{PollID: poll.ID, OptionID: poll.Options[0].ID, Voter: voter})

	assert.ErrorIs(t, err, boom)
}

func TestNewVoteService_DefaultsToChangePolicy(t *testing.T) {
	svc := NewVoteService(new(mockPollRepository), new(mockVoteRepository), "").(*voteService)
	assert.Equal(t, ports.VotePolicyChange, svc.policy)
}

func TestMyVote(t *testing.T) {
	svc, pollRepo, voteRepo := newVoteServiceForTest(ports.VotePolicyChange)
	poll := newTestPoll(nil)
	voter := domain.AnonymousVoter("10.0.0.1")
	stranger := domain.AnonymousVoter("10.0.0.2")
	pollRepo.On("GetByID", mock.Anything, poll.ID).Return(poll, nil)
	voteRepo.On("FindByVoter", mock.Anything, poll.ID, voter).
		Return(&domain.Vote{ID: uuid.New(), PollID: poll.ID, OptionID: poll.Options[1].ID, Voter: voter}, nil)
	voteRepo.On("FindByVoter", mock.Anything, poll.ID, stranger).Return(nil, nil)

	optionID, err := svc.MyVote(context.Background(), poll.ID, voter)
	require.NoError(t, err)
	require.NotNil(t, optionID)
	assert.Equal(t, poll.Options[1].ID, *optionID)

	optionID, err = svc.MyVote(context.Background(), poll.ID, stranger)
	require.NoError(t, err)
	assert.Nil(t, optionID)
}

func TestMyVote_PollNotFound(t *testing.T) {
	svc, pollRepo, _ := newVoteServiceForTest(ports.VotePolicyChange)
	pollID := uuid.New()
	pollRepo.On("GetByID", mock.Anything, pollID).Return(nil, domain.ErrPollNotFound)

	_, err := svc.MyVote(context.Background(), pollID, domain.AnonymousVoter("10.0.0.1"))

	assert.ErrorIs(t, err, domain.ErrPollNotFound)
}
