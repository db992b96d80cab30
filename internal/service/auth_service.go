package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"session-auth/internal/metrics"
	"session-auth/internal/model"
	"session-auth/pkg/apierror"
)

type AuthService struct {
	users    UserStore
	sessions SessionStore
	hasher   PasswordHasher
	tokens   TokenIssuer
	metrics  *metrics.Recorder
	now      func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore, hasher PasswordHasher, tokens TokenIssuer, rec *metrics.Recorder) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		metrics:  rec,
		now:      time.Now,
	}
}

// Register stores a new user with role user. Usernames are keys exactly as
// given: no trimming or case folding.
func (s *AuthService) Register(ctx context.Context, username string, password string) error {
	if username == "" || password == "" {
		return apierror.BadRequest("Username and password required")
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return apierror.Conflict("Username already exists", username)
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	err = s.users.Create(ctx, model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrUserAlreadyExists) {
		return apierror.Conflict("Username already exists", username)
	}
	if err != nil {
		return err
	}

	s.metrics.Registered()
	slog.Info("user registered", "username", username)
	return nil
}

// Login verifies credentials, opens a new session record and returns a token
// bound to it. Every successful call creates exactly one session.
func (s *AuthService) Login(ctx context.Context, username string, password string) (model.LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, model.ErrUserNotFound) {
		s.metrics.Login(metrics.LoginRejected)
		return model.LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		s.metrics.Login(metrics.LoginFailed)
		return model.LoginResult{}, err
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		s.metrics.Login(metrics.LoginRejected)
		return model.LoginResult{}, model.ErrInvalidCredentials
	}

	session := model.Session{
		ID:        uuid.New(),
		Username:  user.Username,
		LoginTime: s.now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		s.metrics.Login(metrics.LoginFailed)
		return model.LoginResult{}, err
	}

	role := user.Role
	if role == "" {
		role = model.RoleUser
	}

	token, err := s.tokens.Issue(user.Username, role, session.ID.String())
	if err != nil {
		s.metrics.Login(metrics.LoginFailed)
		return model.LoginResult{}, err
	}

	s.metrics.Login(metrics.LoginSucceeded)
	slog.Info("user logged in", "username", user.Username, "session_id", session.ID.String())
	return model.LoginResult{Token: token, SessionID: session.ID.String()}, nil
}

// Logout stamps the session's logout time. The returned error classifies why
// nothing was stamped (model.ErrMalformedSession, model.ErrSessionNotFound or
// a store failure); callers that honour the silent logout contract only log it.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return model.ErrMalformedSession
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("%w: %q", model.ErrMalformedSession, sessionID)
	}

	matched, err := s.sessions.SetLogout(ctx, id, s.now().UTC())
	if err != nil {
		return err
	}

	s.metrics.LoggedOut(matched)
	if !matched {
		return model.ErrSessionNotFound
	}

	slog.Info("session logged out", "session_id", id.String())
	return nil
}

// ForgotPassword overwrites the stored hash for a known username. It does not
// verify the caller's identity beyond the username.
func (s *AuthService) ForgotPassword(ctx context.Context, username string, newPassword string) error {
	if username == "" || newPassword == "" {
		return apierror.BadRequest("Username and new password are required")
	}

	if _, err := s.users.FindByUsername(ctx, username); errors.Is(err, model.ErrUserNotFound) {
		return apierror.NotFound("Username not found", username)
	} else if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	err = s.users.UpdatePassword(ctx, username, hash)
	if errors.Is(err, model.ErrUserNotFound) {
		return apierror.NotFound("Username not found", username)
	}
	if err != nil {
		return err
	}

	s.metrics.PasswordReset()
	slog.Info("password reset", "username", username)
	return nil
}

// EnsureAdmin creates an admin account when username is free. An existing
// account is left untouched; the return value reports whether one was made.
func (s *AuthService) EnsureAdmin(ctx context.Context, username string, password string) (bool, error) {
	if username == "" || password == "" {
		return false, apierror.BadRequest("Username and password required")
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return false, nil
	} else if !errors.Is(err, model.ErrUserNotFound) {
		return false, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	err = s.users.Create(ctx, model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if errors.Is(err, model.ErrUserAlreadyExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	return true, nil
}
