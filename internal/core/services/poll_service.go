package services

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

const (
	maxTitleLength  = 200
	maxOptionLength = 200
	maxPageSize     = 100
)

type pollService struct {
	repo ports.PollRepository
	now  func() time.Time
}

func NewPollService(repo ports.PollRepository) ports.PollService {
	return &pollService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *pollService) Create(ctx context.Context, input ports.CreatePollInput) (*domain.Poll, error) {
	if input.UserID == nil || *input.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	title, options, err := validatePollFields(input.Title, input.Options)
	if err != nil {
		return nil, err
	}

	pollID := uuid.New()
	poll := &domain.Poll{
		ID:          pollID,
		Title:       title,
		Description: strings.TrimSpace(input.Description),
		CreatedAt:   s.now(),
		ExpiresAt:   input.ExpiresAt,
		IsPublic:    input.IsPublic,
		CreatedByID: *input.UserID,
		Options:     newOptions(pollID, options),
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, err
	}

	// reload to resolve the creator's username
	return s.repo.GetByID(ctx, pollID)
}

func (s *pollService) Update(ctx context.Context, input ports.UpdatePollInput) (*domain.Poll, error) {
	if input.UserID == nil || *input.UserID == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}

	poll, err := s.repo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !poll.OwnedBy(*input.UserID) {
		return nil, domain.ErrForbidden
	}

	title, options, err := validatePollFields(input.Title, input.Options)
	if err != nil {
		return nil, err
	}

	poll.Title = title
	poll.Description = strings.TrimSpace(input.Description)
	poll.IsPublic = input.IsPublic
	poll.ExpiresAt = input.ExpiresAt
	poll.Options = newOptions(poll.ID, options)

	if err := s.repo.Update(ctx, poll); err != nil {
		return nil, err
	}

	return poll, nil
}

func (s *pollService) Delete(ctx context.Context, id uuid.UUID, userID *uuid.UUID) error {
	if userID == nil || *userID == uuid.Nil {
		return domain.ErrUnauthenticated
	}

	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !poll.OwnedBy(*userID) {
		return domain.ErrForbidden
	}

	return s.repo.Delete(ctx, id)
}

func (s *pollService) GetPoll(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	poll, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !poll.IsPublic && poll.IsExpired(s.now()) {
		return nil, domain.ErrPollExpired
	}

	return poll, nil
}

func (s *pollService) ListPolls(ctx context.Context, input ports.ListPollsInput) (domain.Page[*domain.Poll], error) {
	if err := validatePaging(input); err != nil {
		return domain.Page[*domain.Poll]{}, err
	}

	polls, total, err := s.repo.List(ctx, ports.ListPollsFilter{
		Now:    s.now(),
		Query:  strings.TrimSpace(input.Query),
		Limit:  input.PageSize,
		Offset: (input.Page - 1) * input.PageSize,
	})
	if err != nil {
		return domain.Page[*domain.Poll]{}, err
	}

	return domain.NewPage(polls, input.Page, input.PageSize, total), nil
}

func (s *pollService) ListVotedPolls(ctx context.Context, voter domain.VoterKey, input ports.ListPollsInput) (domain.Page[*domain.Poll], error) {
	if err := validatePaging(input); err != nil {
		return domain.Page[*domain.Poll]{}, err
	}
	if voter.IsZero() {
		return domain.Page[*domain.Poll]{}, domain.ErrUnauthenticated
	}

	polls, total, err := s.repo.ListVotedBy(ctx, voter, input.PageSize, (input.Page-1)*input.PageSize)
	if err != nil {
		return domain.Page[*domain.Poll]{}, err
	}

	return domain.NewPage(polls, input.Page, input.PageSize, total), nil
}

func validatePollFields(title string, rawOptions []string) (string, []string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", nil, domain.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return "", nil, domain.NewValidationError("Title must be at most 200 characters")
	}

	options := make([]string, 0, len(rawOptions))
	for _, opt := range rawOptions {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		if utf8.RuneCountInString(opt) > maxOptionLength {
			return "", nil, domain.NewValidationError("Options must be at most 200 characters")
		}
		options = append(options, opt)
	}
	if len(options) < 2 {
		return "", nil, domain.NewValidationError("Poll must have at least 2 options")
	}

	return title, options, nil
}

func validatePaging(input ports.ListPollsInput) error {
	if input.Page < 1 {
		return domain.NewValidationError("Page number must be greater than 0")
	}
	if input.PageSize < 1 || input.PageSize > maxPageSize {
		return domain.NewValidationError("Page size must be between 1 and 100")
	}
	return nil
}

func newOptions(pollID uuid.UUID, texts []string) []domain.PollOption {
	options := make([]domain.PollOption, 0, len(texts))
	for _, text := range texts {
		options = append(options, domain.PollOption{
			ID:     uuid.New(),
			PollID: pollID,
			Text:   text,
		})
	}
	return options
}
