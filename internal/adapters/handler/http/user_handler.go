package http

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/vncsmyrnk/pollspark/internal/core/ports"
)

type UserHandler struct {
	service ports.UserService
	logger  *zap.Logger
}

func NewUserHandler(service ports.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
	}
}

func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID := currentUserID(r)
	if userID == nil {
		writeError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), *userID)
	if err != nil {
		respondError(w, r, h.logger, err, nil)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
