// password хэширует и проверяет пароли пользователей.
package password

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost: стоимость bcrypt по умолчанию.
const DefaultCost = 10

// ErrInvalidCost: стоимость вне диапазона [bcrypt.MinCost, bcrypt.MaxCost].
var ErrInvalidCost = errors.New("invalid bcrypt cost")

//go:generate mockgen -destination=../../mocks/hasher.go -package=mocks github.com/pribylovaa/register-service/internal/password Hasher

// Hasher превращает пароль в необратимый хэш и проверяет пароль по хэшу.
type Hasher interface {
	Hash(ctx context.Context, plain string) (string, error)
	Verify(plain, hash string) bool
}

type Bcrypt struct {
	cost int
}

// NewBcrypt создаёт Hasher на bcrypt. cost == 0 означает DefaultCost.
func NewBcrypt(cost int) (*Bcrypt, error) {
	const op = "password.NewBcrypt"

	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%s: %w: %d", op, ErrInvalidCost, cost)
	}

	return &Bcrypt{cost: cost}, nil
}

// Cost возвращает стоимость хэширования.
func (b *Bcrypt) Cost() int { return b.cost }

// Hash хэширует пароль. Уже отменённый контекст возвращается как ошибка до хэширования.
func (b *Bcrypt) Hash(ctx context.Context, plain string) (string, error) {
	const op = "password.Hash"

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(plain), b.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return string(bytes), nil
}

// Verify сравнивает пароль с хэшем.
func (b *Bcrypt) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var _ Hasher = (*Bcrypt)(nil)
