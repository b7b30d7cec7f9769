// janitor периодически выполняет фоновые задачи очистки:
// удаление просроченных сессий и истёкших записей лимитера.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pribylovaa/register-service/internal/metrics"
	"github.com/pribylovaa/register-service/internal/storage"
)

// Task: одна итерация очистки на момент now.
type Task func(ctx context.Context, now time.Time) error

// Sweeper удаляет истёкшие записи лимитера (ratelimit.MemoryStore).
type Sweeper interface {
	Sweep(now time.Time) int
}

// Janitor запускает задачи по тикеру до отмены контекста.
type Janitor struct {
	log *slog.Logger
	now func() time.Time
	wg  sync.WaitGroup
}

func New(log *slog.Logger) *Janitor {
	if log == nil {
		log = slog.Default()
	}
	return &Janitor{
		log: log,
		now: func() time.Time { return time.Now().UTC() },
	}
}

// Start запускает task раз в period в отдельной горутине.
// period <= 0 выключает задачу.
func (j *Janitor) Start(ctx context.Context, name string, period time.Duration, task Task) {
	if period <= 0 {
		return
	}

	j.wg.Add(1)
	go func() {
		defer j.wg.Done()

		t := time.NewTicker(period)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				if err := task(ctx, j.now()); err != nil {
					j.log.Error("janitor_failed", slog.String("task", name), slog.String("err", err.Error()))
				}
			}
		}
	}()
}

// Wait ждёт завершения всех задач после отмены контекста.
func (j *Janitor) Wait() {
	j.wg.Wait()
}

// SweepLimiter: задача очистки истёкших записей лимитера.
func SweepLimiter(s Sweeper, m *metrics.Metrics, log *slog.Logger) Task {
	return func(_ context.Context, now time.Time) error {
		n := s.Sweep(now)
		m.LimiterSwept(n)
		if n > 0 && log != nil {
			log.Debug("ratelimit_swept", slog.Int("removed", n))
		}
		return nil
	}
}

// DeleteExpiredSessions: задача удаления сессий с истёкшим сроком.
func DeleteExpiredSessions(st storage.SessionStorage, m *metrics.Metrics, log *slog.Logger) Task {
	return func(ctx context.Context, now time.Time) error {
		const op = "janitor.DeleteExpiredSessions"

		n, err := st.DeleteExpiredSessions(ctx, now)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		m.SessionsSwept(n)
		if n > 0 && log != nil {
			log.Info("sessions_expired_deleted", slog.Int64("deleted", n))
		}
		return nil
	}
}
