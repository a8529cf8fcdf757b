package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type mockPollRepository struct {
	mock.Mock
}

func (m *mockPollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	return m.Called(ctx, poll).Error(0)
}

func (m *mockPollRepository) Update(ctx context.Context, poll *domain.Poll) error {
	return m.Called(ctx, poll).Error(0)
}

func (m *mockPollRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	args := m.Called(ctx, id)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollRepository) GetAggregate(ctx context.Context, id uuid.UUID) (*domain.PollAggregate, error) {
	args := m.Called(ctx, id)
	agg, _ := args.Get(0).(*domain.PollAggregate)
	return agg, args.Error(1)
}

func (m *mockPollRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	ids, _ := args.Get(0).([]uuid.UUID)
	return ids, args.Error(1)
}

func (m *mockPollRepository) List(ctx context.Context, filter ports.ListPollsFilter) ([]*domain.Poll, int, error) {
	args := m.Called(ctx, filter)
	polls, _ := args.Get(0).([]*domain.Poll)
	return polls, args.Int(1), args.Error(2)
}

func (m *mockPollRepository) ListVotedBy(ctx context.Context, voter domain.VoterKey, limit, offset int) ([]*domain.Poll, int, error) {
	args := m.Called(ctx, voter, limit, offset)
	polls, _ := args.Get(0).([]*domain.Poll)
	return polls, args.Int(1), args.Error(2)
}

func (m *mockPollRepository) CountByCreator(ctx context.Context, userID uuid.UUID) (int, error) {
	args := m.Called(ctx, userID)
	return args.Int(0), args.Error(1)
}

type mockVoteRepository struct {
	mock.Mock
}

func (m *mockVoteRepository) FindByVoter(ctx context.Context, pollID uuid.UUID, voter domain.VoterKey) (*domain.Vote, error) {
	args := m.Called(ctx, pollID, voter)
	vote, _ := args.Get(0).(*domain.Vote)
	return vote, args.Error(1)
}

func (m *mockVoteRepository) SaveVote(ctx context.Context, vote *domain.Vote) error {
	return m.Called(ctx, vote).Error(0)
}

func (m *mockVoteRepository) UpdateOption(ctx context.Context, voteID, optionID uuid.UUID) error {
	return m.Called(ctx, voteID, optionID).Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

type mockAuthRepository struct {
	mock.Mock
}

func (m *mockAuthRepository) StoreRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockAuthRepository) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	args := m.Called(ctx, tokenHash)
	token, _ := args.Get(0).(*domain.RefreshToken)
	return token, args.Error(1)
}

func (m *mockAuthRepository) RevokeRefreshToken(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// plainHasher treats "hashed:"+password as the hash of password.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) bool { return hash == "hashed:"+password }

type stubTokens struct{}

func (stubTokens) Issue(user *domain.User) (string, error) { return "access-" + user.ID.String(), nil }

func (stubTokens) Validate(string) (*ports.AccessClaims, error) { return nil, domain.ErrInvalidToken }
