package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type VoteHandler struct {
	votes   ports.VoteService
	results ports.ResultsService
	logger  *zap.Logger
}

func NewVoteHandler(votes ports.VoteService, results ports.ResultsService, logger *zap.Logger) *VoteHandler {
	return &VoteHandler{
		votes:   votes,
		results: results,
		logger:  logger,
	}
}

type voteRequest struct {
	OptionID string `json:"optionId"`
}

type voteResponse struct {
	OptionID uuid.UUID `json:"optionId"`
}

// every expected vote failure is a 400 on this endpoint
var voteOverrides = statusOverride{
	domain.ErrPollNotFound: http.StatusBadRequest,
}

func (h *VoteHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Poll not found")
		return
	}

	var req voteRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}
	optionID, err := uuid.Parse(req.OptionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid option ID format")
		return
	}

	voter, err := currentVoter(r)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	vote, err := h.votes.Vote(r.Context(), ports.VoteInput{
		PollID:   pollID,
		OptionID: optionID,
		Voter:    voter,
	})
	if err != nil {
		respondError(w, r, h.logger, err, voteOverrides)
		return
	}

	writeJSON(w, http.StatusOK, voteResponse{OptionID: vote.OptionID})
}

func (h *VoteHandler) Results(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	results, err := h.results.GetResults(r.Context(), pollID)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// MyVote answers with the caller's option id, or null when they have not voted.
func (h *VoteHandler) MyVote(w http.ResponseWriter, r *http.Request) {
	pollID, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	// an unresolvable voter has simply not voted
	voter, _ := currentVoter(r)

	optionID, err := h.votes.MyVote(r.Context(), pollID, voter)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, optionID)
}
