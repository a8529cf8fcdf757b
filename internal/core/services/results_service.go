package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type resultsService struct {
	pollRepo ports.PollRepository
}

func NewResultsService(pollRepo ports.PollRepository) ports.ResultsService {
	return &resultsService{
		pollRepo: pollRepo,
	}
}

func (s *resultsService) GetResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error) {
	agg, err := s.pollRepo.GetAggregate(ctx, pollID)
	if err != nil {
		return nil, err
	}

	results := domain.ComputeResults(agg)
	return &results, nil
}

// SummarizeAll skips polls deleted after the id listing.
func (s *resultsService) SummarizeAll(ctx context.Context) ([]domain.PollResults, error) {
	ids, err := s.pollRepo.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch all polls: %w", err)
	}

	summaries := make([]domain.PollResults, len(ids))
	found := make([]bool, len(ids))
	var wg sync.WaitGroup
	errChan := make(chan error, len(ids))

	for i, id := range ids {
		wg.Add(1)
		go func(i int, pID uuid.UUID) {
			defer wg.Done()
			res, err := s.GetResults(ctx, pID)
			if errors.Is(err, domain.ErrPollNotFound) {
				return
			}
			if err != nil {
				errChan <- fmt.Errorf("failed to summarize poll %s: %w", pID, err)
				return
			}
			summaries[i] = *res
			found[i] = true
		}(i, id)
	}

	wg.Wait()
	close(errChan)

	for err := range errChan {
		if err != nil {
			return nil, err
		}
	}

	out := summaries[:0]
	for i, res := range summaries {
		if found[i] {
			out = append(out, res)
		}
	}
	return out, nil
}
