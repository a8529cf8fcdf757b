package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/vncsmyrnk/pollspark/internal/core/domain"
)

type errorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Message: message})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError("Invalid request body")
	}
	return nil
}

type errorStatus struct {
	err     error
	status  int
	message string
}

// errorStatuses maps expected domain failures to responses. Order matters:
// the first entry the error matches wins.
var errorStatuses = []errorStatus{
	{domain.ErrPollNotFound, http.StatusNotFound, "Poll not found"},
	{domain.ErrPollExpired, http.StatusBadRequest, "Poll has expired"},
	{domain.ErrInvalidOption, http.StatusBadRequest, "Invalid option for this poll"},
	{domain.ErrAlreadyVoted, http.StatusBadRequest, "You have already voted on this poll"},
	{domain.ErrForbidden, http.StatusForbidden, "You don't have permission to modify this poll"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "User not authenticated"},
	{domain.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{domain.ErrEmailTaken, http.StatusBadRequest, "Email already registered"},
	{domain.ErrUsernameTaken, http.StatusBadRequest, "Username already taken"},
	{domain.ErrInvalidCredentials, http.StatusBadRequest, "Invalid email or password"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
}

// statusOverride replaces the status for one error on a single endpoint.
type statusOverride map[error]int

func respondError(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, overrides statusOverride) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		writeError(w, http.StatusBadRequest, validation.Message)
		return
	}

	for _, es := range errorStatuses {
		if !errors.Is(err, es.err) {
			continue
		}
		status := es.status
		if s, ok := overrides[es.err]; ok {
			status = s
		}
		writeError(w, status, es.message)
		return
	}

	logger.Error("request failed",
		zap.Error(err),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
	)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}
