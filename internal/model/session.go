package model

import (
	"time"

	"github.com/google/uuid"
)

// Session is one login-to-logout interval. A nil LogoutTime means the
// session is still active.
type Session struct {
	ID         uuid.UUID
	Username   string
	LoginTime  time.Time
	LogoutTime *time.Time
}

func (s Session) Active() bool {
	return s.LogoutTime == nil
}

// ActiveMarker is rendered in place of a logout time for active sessions.
const ActiveMarker = "Active"

// SessionView is the admin dashboard row. Field names match the wire format
// existing dashboard clients read.
type SessionView struct {
	ID         string `json:"_id"`
	Username   string `json:"username"`
	LoginTime  string `json:"login_time_ist"`
	LogoutTime string `json:"logout_time_ist"`
}
