package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"session-auth/internal/middleware"
	"session-auth/internal/model"
	"session-auth/pkg/apierror"
)

type sessionService interface {
	List(ctx context.Context) ([]model.SessionView, error)
	Delete(ctx context.Context, rawID string) error
}

type AdminHandler struct {
	service sessionService
}

func NewAdminHandler(service sessionService) *AdminHandler {
	return &AdminHandler{service: service}
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	views, err := h.service.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// DeleteSession keeps the existing wire contract: a malformed id is a 500,
// not a 400. The cause is logged but never echoed to the caller.
func (h *AdminHandler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	actor := "unknown"
	if user, ok := middleware.UserFromContext(r.Context()); ok {
		actor = user.Username
	}

	err := h.service.Delete(r.Context(), sessionID)
	switch {
	case err == nil:
		slog.Info("admin deleted session", "actor", actor, "session_id", sessionID)
		writeMessage(w, http.StatusOK, "Session deleted successfully")
	case errors.Is(err, model.ErrSessionNotFound):
		writeError(w, apierror.NotFound("Session not found", ""))
	case errors.Is(err, model.ErrMalformedSession):
		slog.Warn("delete session rejected malformed id", "actor", actor, "error", err.Error())
		writeError(w, apierror.Internal("An error occurred while deleting the session"))
	default:
		slog.Error("delete session failed", "actor", actor, "session_id", sessionID, "error", err.Error())
		writeError(w, apierror.Internal("An error occurred while deleting the session"))
	}
}
