package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"session-auth/internal/model"
)

type authService interface {
	Register(ctx context.Context, username string, password string) error
	Login(ctx context.Context, username string, password string) (model.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
	ForgotPassword(ctx context.Context, username string, newPassword string) error
}

type AuthHandler struct {
	service authService
}

func NewAuthHandler(service authService) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Register(r.Context(), payload.Username, payload.Password); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusCreated, "User registered successfully")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Logout always answers 200. An unusable session reference is treated as
// already logged out; only store failures are worth a log line.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LogoutRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		slog.Debug("logout body ignored", "error", err.Error())
	} else if err := h.service.Logout(r.Context(), payload.SessionID); err != nil {
		switch {
		case errors.Is(err, model.ErrMalformedSession), errors.Is(err, model.ErrSessionNotFound):
			slog.Debug("logout matched no session", "error", err.Error())
		default:
			slog.Error("logout failed", "error", err.Error())
		}
	}

	writeMessage(w, http.StatusOK, "Logout successful")
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ForgotPasswordRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.ForgotPassword(r.Context(), payload.Username, payload.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "Password has been reset successfully")
}
