package http

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type mockPollService struct {
	mock.Mock
}

func (m *mockPollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	args := m.Called(ctx, input)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollService) Update(ctx context.Context, input ports.UpdatePollInput) (*domain.Poll, error) {
	args := m.Called(ctx, input)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollService) Delete(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *mockPollService) GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	args := m.Called(ctx, id)
	poll, _ := args.Get(0).(*domain.Poll)
	return poll, args.Error(1)
}

func (m *mockPollService) ListPolls(ctx context.Context, input ports.ListPollsInput) (domain.Page[*domain.Poll], error) {
	args := m.Called(ctx, input)
	page, _ := args.Get(0).(domain.Page[*domain.Poll])
	return page, args.Error(1)
}

func (m *mockPollService) ListVotedPolls(ctx context.Context, voter domain.VoterKey, input ports.ListPollsInput) (domain.Page[*domain.Poll], error) {
	args := m.Called(ctx, voter, input)
	page, _ := args.Get(0).(domain.Page[*domain.Poll])
	return page, args.Error(1)
}

type mockVoteService struct {
	mock.Mock
}

func (m *mockVoteService) Vote(ctx context.Context, input ports.VoteInput) (*domain.Vote, error) {
	args := m.Called(ctx, input)
	vote, _ := args.Get(0).(*domain.Vote)
	return vote, args.Error(1)
}

func (m *mockVoteService) MyVote(ctx context.Context, pollID uuid.UUID, voter domain.VoterKey) (*uuid.UUID, error) {
	args := m.Called(ctx, pollID, voter)
	id, _ := args.Get(0).(*uuid.UUID)
	return id, args.Error(1)
}

type mockResultsService struct {
	mock.Mock
}

func (m *mockResultsService) GetResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error) {
	args := m.Called(ctx, pollID)
	res, _ := args.Get(0).(*domain.PollResults)
	return res, args.Error(1)
}

func (m *mockResultsService) SummarizeAll(ctx context.Context) ([]domain.PollResults, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).([]domain.PollResults)
	return res, args.Error(1)
}

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, input ports.RegisterInput) (*ports.AuthResult, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*ports.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, input ports.LoginInput) (*ports.AuthResult, error) {
	args := m.Called(ctx, input)
	res, _ := args.Get(0).(*ports.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (*ports.AuthResult, error) {
	args := m.Called(ctx, refreshToken)
	res, _ := args.Get(0).(*ports.AuthResult)
	return res, args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, refreshToken string) error {
	return m.Called(ctx, refreshToken).Error(0)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetProfile(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	args := m.Called(ctx, id)
	profile, _ := args.Get(0).(*domain.UserProfile)
	return profile, args.Error(1)
}

// staticTokens accepts "valid-<uuid>" as a token for that user.
type staticTokens struct{}

func (staticTokens) Issue(user *domain.User) (string, error) { return "valid-" + user.ID.String(), nil }

func (staticTokens) Validate(token string) (*ports.AccessClaims, error) {
	const prefix = "valid-"
	if len(token) <= len(prefix) || token[:len(prefix)] != prefix {
		return nil, domain.ErrInvalidToken
	}
	id, err := uuid.Parse(token[len(prefix):])
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	return &ports.AccessClaims{UserID: id, Username: "alice", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

type stubLimiter struct {
	allow bool
	err   error
	keys  []string
}

func (l *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.keys = append(l.keys, key)
	return l.allow, l.err
}

func (l *stubLimiter) Limit() int { return 10 }

func (l *stubLimiter) Window() time.Duration { return time.Minute }
