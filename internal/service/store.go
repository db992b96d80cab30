package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"session-auth/internal/model"
)

// UserStore is the credential store. Implementations report a missing user
// as model.ErrUserNotFound and a duplicate as model.ErrUserAlreadyExists.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
	Create(ctx context.Context, user model.User) error
	UpdatePassword(ctx context.Context, username string, passwordHash []byte) error
}

// SessionStore is the session log. Delete reports a missing record as
// model.ErrSessionNotFound.
type SessionStore interface {
	Create(ctx context.Context, session model.Session) error
	SetLogout(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	ListByLoginTimeDesc(ctx context.Context) ([]model.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type PasswordHasher interface {
	Hash(password string) ([]byte, error)
	Verify(hash []byte, password string) bool
}

type TokenIssuer interface {
	Issue(username string, role model.Role, sessionID string) (string, error)
}
