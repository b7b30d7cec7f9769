package models

import (
	"time"

	"github.com/google/uuid"
)

// Session - сессия аутентифицированного пользователя.
// Удаляется каскадно вместе с пользователем.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired сообщает, истекла ли сессия к моменту now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
