package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"session-auth/internal/model"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

func (r *SessionRepository) Create(ctx context.Context, s model.Session) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO sessions (id, username, login_time, logout_time)
		 VALUES ($1, $2, $3, $4)`,
		s.ID, s.Username, s.LoginTime, s.LogoutTime)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// SetLogout stamps the logout time. It reports whether a row matched.
func (r *SessionRepository) SetLogout(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE sessions SET logout_time = $2 WHERE id = $1`, id, at)
	if err != nil {
		return false, fmt.Errorf("set session logout: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *SessionRepository) ListByLoginTimeDesc(ctx context.Context) ([]model.Session, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, login_time, logout_time
		 FROM sessions ORDER BY login_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]model.Session, 0)
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.Username, &s.LoginTime, &s.LogoutTime); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

func (r *SessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrSessionNotFound
	}
	return nil
}
