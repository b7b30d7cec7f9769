package models

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/register-service/pkg/redact"
)

// User - учётная запись пользователя.
// ID, CreatedAt и UpdatedAt заполняет БД при вставке.
// PasswordHash не сериализуется и не покидает слои storage/service.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string `json:"-"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// LogValue маскирует email и хэш пароля при логировании пользователя целиком.
func (u User) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("id", u.ID.String()),
		slog.String("email", redact.Email(u.Email)),
		slog.String("password_hash", redact.Credential()),
	)
}
