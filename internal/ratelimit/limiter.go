// ratelimit реализует ограничение числа попыток по ключу (адресу клиента)
// в фиксированном окне.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrLimitExceeded: лимит попыток для ключа исчерпан.
var ErrLimitExceeded = errors.New("rate limit exceeded")

const (
	DefaultLimit  = 5
	DefaultWindow = time.Hour
)

type Limiter struct {
	store  Store
	limit  int
	window time.Duration
	now    func() time.Time
}

type Option func(*Limiter)

// WithClock подменяет источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) {
		l.now = now
	}
}

// New создаёт лимитер с политикой limit попыток за window.
// Нулевые значения заменяются на DefaultLimit/DefaultWindow.
func New(store Store, limit int, window time.Duration, opts ...Option) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if window <= 0 {
		window = DefaultWindow
	}

	l := &Limiter{
		store:  store,
		limit:  limit,
		window: window,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Allow засчитывает попытку для key по настроенной политике.
// Возвращает ErrLimitExceeded, если попытка отклонена.
func (l *Limiter) Allow(ctx context.Context, key string) error {
	const op = "ratelimit.Allow"

	ok, err := l.CheckAndConsume(ctx, key, l.limit, l.window)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return ErrLimitExceeded
	}

	return nil
}

// CheckAndConsume засчитывает попытку для key с явными limit и window.
func (l *Limiter) CheckAndConsume(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	const op = "ratelimit.CheckAndConsume"

	ok, err := l.store.Consume(ctx, key, limit, window.Truncate(time.Millisecond), l.now().Truncate(time.Millisecond))
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return ok, nil
}

// Reset сбрасывает счётчик для key.
func (l *Limiter) Reset(ctx context.Context, key string) error {
	const op = "ratelimit.Reset"

	if err := l.store.Reset(ctx, key); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Limit возвращает настроенный лимит попыток.
func (l *Limiter) Limit() int { return l.limit }

// Window возвращает настроенное окно.
func (l *Limiter) Window() time.Duration { return l.window }
