// storage задаёт контракты хранилища пользователей и сессий.
// Реализация для PostgreSQL находится в storage/postgres.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/pribylovaa/register-service/internal/models"
)

var (
	// ErrNotFound: запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists: нарушение уникальности (email пользователя, token сессии).
	// Для users это единственный авторитетный признак занятого email.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUserNotFound: сессия ссылается на несуществующего пользователя.
	ErrUserNotFound = errors.New("user not found")
)

//go:generate mockgen -destination=../../mocks/user_storage.go -package=mocks github.com/pribylovaa/register-service/internal/storage UserStorage

// UserStorage выполняет операции над пользователями.
type UserStorage interface {
	// SaveUser вставляет пользователя и заполняет ID/CreatedAt/UpdatedAt из БД.
	SaveUser(ctx context.Context, user *models.User) error
	// UserByEmail ищет пользователя по точному совпадению email.
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	// UserByID ищет пользователя по ID.
	UserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// DeleteUser удаляет пользователя вместе с его сессиями.
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// SessionStorage выполняет операции над сессиями.
type SessionStorage interface {
	// SaveSession вставляет сессию и заполняет ID/CreatedAt из БД.
	SaveSession(ctx context.Context, session *models.Session) error
	// SessionByToken ищет сессию по токену.
	SessionByToken(ctx context.Context, token string) (*models.Session, error)
	// SessionsByUserID возвращает все сессии пользователя.
	SessionsByUserID(ctx context.Context, userID uuid.UUID) ([]models.Session, error)
	// DeleteExpiredSessions удаляет сессии с expires_at <= now и возвращает их число.
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// Storage задает контракт работы с БД.
type Storage interface {
	UserStorage
	SessionStorage
	Ping(ctx context.Context) error
	Close()
}
