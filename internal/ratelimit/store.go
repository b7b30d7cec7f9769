package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Store хранит счётчики попыток по ключу.
type Store interface {
	// Consume засчитывает попытку для key и сообщает, разрешена ли она.
	Consume(ctx context.Context, key string, limit int, window time.Duration, now time.Time) (bool, error)
	// Reset удаляет запись для key.
	Reset(ctx context.Context, key string) error
}

// Record - счётчик попыток в рамках окна.
type Record struct {
	Count   int
	ResetAt time.Time
}

// MemoryStore - Store в памяти процесса. Записи не персистятся.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]*Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*Record)}
}

// Consume:
//   - записи нет или окно истекло (now строго позже ResetAt) - новое окно, Count=1, разрешено;
//   - Count >= limit - отказ, запись не меняется;
//   - иначе Count++ и разрешено.
func (s *MemoryStore) Consume(_ context.Context, key string, limit int, window time.Duration, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok || now.After(rec.ResetAt) {
		s.records[key] = &Record{Count: 1, ResetAt: now.Add(window)}
		return true, nil
	}

	if rec.Count >= limit {
		return false, nil
	}

	rec.Count++
	return true, nil
}

func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.records, key)
	s.mu.Unlock()
	return nil
}

// Sweep удаляет истёкшие записи и возвращает их число.
// now усекается до миллисекунд, как время в Limiter.CheckAndConsume: граница та же, что у Consume.
func (s *MemoryStore) Sweep(now time.Time) int {
	now = now.Truncate(time.Millisecond)

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key, rec := range s.records {
		if now.After(rec.ResetAt) {
			delete(s.records, key)
			n++
		}
	}
	return n
}

// Len возвращает число записей.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

var _ Store = (*MemoryStore)(nil)
