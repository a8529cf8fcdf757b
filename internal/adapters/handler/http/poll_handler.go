package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/pollspark/internal/core/domain"
	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

const defaultPageSize = 10

type PollHandler struct {
	service ports.PollService
	logger  *zap.Logger
}

func NewPollHandler(service ports.PollService, logger *zap.Logger) *PollHandler {
	return &PollHandler{
		service: service,
		logger:  logger,
	}
}

type pollRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	IsPublic    *bool      `json:"isPublic"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	Options     []string   `json:"options"`
}

func (p pollRequest) public() bool {
	return p.IsPublic == nil || *p.IsPublic
}

func (h *PollHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req pollRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	poll, err := h.service.Create(r.Context(), ports.CreatePollInput{
		UserID:      currentUserID(r),
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.public(),
		ExpiresAt:   req.ExpiresAt,
		Options:     req.Options,
	})
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	writeJSON(w, http.StatusCreated, poll)
}

func (h *PollHandler) UpdatePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	var req pollRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	poll, err := h.service.Update(r.Context(), ports.UpdatePollInput{
		ID:          id,
		UserID:      currentUserID(r),
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.public(),
		ExpiresAt:   req.ExpiresAt,
		Options:     req.Options,
	})
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id, currentUserID(r)); err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *PollHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	id, ok := pollIDParam(w, r)
	if !ok {
		return
	}

	poll, err := h.service.GetPoll(r.Context(), id)
	if err != nil {
		respondError(w, r, h.logger, err, statusOverride{domain.ErrPollExpired: http.StatusNotFound})
		return
	}

	writeJSON(w, http.StatusOK, poll)
}

func (h *PollHandler) ListPolls(w http.ResponseWriter, r *http.Request) {
	input, err := pagingParams(r)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}
	input.Query = r.URL.Query().Get("q")

	page, err := h.service.ListPolls(r.Context(), input)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func (h *PollHandler) MyVotes(w http.ResponseWriter, r *http.Request) {
	input, err := pagingParams(r)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	voter, err := currentVoter(r)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	page, err := h.service.ListVotedPolls(r.Context(), voter, input)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// pollIDParam writes a 404 and reports false when {id} is not a uuid.
func pollIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Poll not found")
		return uuid.Nil, false
	}
	return id, true
}

func pagingParams(r *http.Request) (ports.ListPollsInput, error) {
	q := r.URL.Query()
	input := ports.ListPollsInput{Page: 1, PageSize: defaultPageSize}

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return input, domain.NewValidationError("Page number must be greater than 0")
		}
		input.Page = n
	}
	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return input, domain.NewValidationError("Page size must be between 1 and 100")
		}
		input.PageSize = n
	}
	return input, nil
}
