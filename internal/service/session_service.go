package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"session-auth/internal/metrics"
	"session-auth/internal/model"
)

// DisplayLayout renders dashboard times as day/month/year with a 12-hour clock.
const DisplayLayout = "02/01/2006, 03:04:05 PM"

type SessionService struct {
	sessions SessionStore
	location *time.Location
	metrics  *metrics.Recorder
}

func NewSessionService(sessions SessionStore, location *time.Location, rec *metrics.Recorder) *SessionService {
	if location == nil {
		location = time.UTC
	}
	return &SessionService{sessions: sessions, location: location, metrics: rec}
}

// List returns every session, most recent login first, with times rendered
// in the configured display timezone.
func (s *SessionService) List(ctx context.Context) ([]model.SessionView, error) {
	sessions, err := s.sessions.ListByLoginTimeDesc(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]model.SessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, s.view(session))
	}
	return views, nil
}

func (s *SessionService) view(session model.Session) model.SessionView {
	logout := model.ActiveMarker
	if session.LogoutTime != nil {
		logout = s.format(*session.LogoutTime)
	}

	return model.SessionView{
		ID:         session.ID.String(),
		Username:   session.Username,
		LoginTime:  s.format(session.LoginTime),
		LogoutTime: logout,
	}
}

func (s *SessionService) format(t time.Time) string {
	return t.In(s.location).Format(DisplayLayout)
}

// Delete removes one session. A malformed id yields model.ErrMalformedSession
// and an unknown one model.ErrSessionNotFound.
func (s *SessionService) Delete(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return fmt.Errorf("%w: %q", model.ErrMalformedSession, rawID)
	}

	if err := s.sessions.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.SessionDeleted()
	slog.Info("session deleted", "session_id", id.String())
	return nil
}
