package domain

import (
	"math"

	"github.com/google/uuid"
)

type PollResults struct {
	PollID     uuid.UUID      `json:"pollId"`
	Results    []OptionResult `json:"results"`
	TotalVotes int            `json:"totalVotes"`
}

type OptionResult struct {
	OptionID   uuid.UUID `json:"optionId"`
	OptionText string    `json:"optionText"`
	Votes      int       `json:"votes"`
	Percentage float64   `json:"percentage"`
}

// ComputeResults derives per-option counts and percentages, in option order.
// Votes referencing an option outside the poll are not counted.
func ComputeResults(agg *PollAggregate) PollResults {
	counts := make(map[uuid.UUID]int, len(agg.Poll.Options))
	for _, opt := range agg.Poll.Options {
		counts[opt.ID] = 0
	}

	total := 0
	for _, v := range agg.Votes {
		if v.PollID != agg.Poll.ID {
			continue
		}
		if _, ok := counts[v.OptionID]; !ok {
			continue
		}
		counts[v.OptionID]++
		total++
	}

	results := make([]OptionResult, 0, len(agg.Poll.Options))
	for _, opt := range agg.Poll.Options {
		votes := counts[opt.ID]
		results = append(results, OptionResult{
			OptionID:   opt.ID,
			OptionText: opt.Text,
			Votes:      votes,
			Percentage: percentage(votes, total),
		})
	}

	return PollResults{
		PollID:     agg.Poll.ID,
		Results:    results,
		TotalVotes: total,
	}
}

// percentage rounds half to even at one decimal place.
func percentage(votes, total int) float64 {
	if total == 0 {
		return 0
	}
	p := float64(votes) / float64(total) * 100
	return math.RoundToEven(p*10) / 10
}
