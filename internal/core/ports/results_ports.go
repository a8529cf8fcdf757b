package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollspark/internal/core/domain"
)

type ResultsService interface {
	GetResults(ctx context.Context, pollID uuid.UUID) (*domain.PollResults, error)
	// SummarizeAll computes results for every poll without storing them.
	SummarizeAll(ctx context.Context) ([]domain.PollResults, error)
}
