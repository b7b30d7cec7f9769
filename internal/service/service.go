// service содержит бизнес-логику регистрации пользователей:
// валидацию входных данных, проверку уникальности email, хэширование пароля
// и сохранение пользователя через интерфейсы из пакета storage.
//
// Service не хранит состояние запроса и безопасен для конкурентного
// использования, если переданные storage и hasher потокобезопасны.
package service

import (
	"errors"

	"github.com/pribylovaa/register-service/internal/password"
	"github.com/pribylovaa/register-service/internal/storage"
)

// ErrEmailTaken: e-mail уже зарегистрирован. Транспорт: HTTP 409 EMAIL_EXISTS.
var ErrEmailTaken = errors.New("email already registered")

// Service описывает бизнес-логику регистрации.
type Service struct {
	users  storage.UserStorage
	hasher password.Hasher
}

// New создаёт новый экземпляр Service.
func New(users storage.UserStorage, hasher password.Hasher) *Service {
	return &Service{
		users:  users,
		hasher: hasher,
	}
}
