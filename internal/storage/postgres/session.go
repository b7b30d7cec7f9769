package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pribylovaa/register-service/internal/models"
	"github.com/pribylovaa/register-service/internal/storage"
)

// SaveSession сохраняет новую сессию пользователя.
func (s *Storage) SaveSession(ctx context.Context, session *models.Session) error {
	const op = "storage.postgres.SaveSession"

	query := `
		INSERT INTO sessions(user_id, token, expires_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := s.db.QueryRow(ctx, query,
		session.UserID,
		session.Token,
		session.ExpiresAt.UTC(),
	).Scan(&session.ID, &session.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case pgerrcode.UniqueViolation:
				return fmt.Errorf("%s: %w", op, storage.ErrAlreadyExists)
			case pgerrcode.ForeignKeyViolation:
				return fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
			}
		}

		return fmt.Errorf("%s: %w", op, err)
	}

	session.CreatedAt = session.CreatedAt.UTC()

	return nil
}

// SessionByToken находит сессию по токену.
func (s *Storage) SessionByToken(ctx context.Context, token string) (*models.Session, error) {
	const op = "storage.postgres.SessionByToken"

	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM sessions
		WHERE token = $1
	`

	var session models.Session
	err := s.db.QueryRow(ctx, query, token).Scan(
		&session.ID,
		&session.UserID,
		&session.Token,
		&session.ExpiresAt,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrNotFound)
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	session.ExpiresAt = session.ExpiresAt.UTC()
	session.CreatedAt = session.CreatedAt.UTC()

	return &session, nil
}

// SessionsByUserID возвращает сессии пользователя (новые первыми).
func (s *Storage) SessionsByUserID(ctx context.Context, userID uuid.UUID) ([]models.Session, error) {
	const op = "storage.postgres.SessionsByUserID"

	query := `
		SELECT id, user_id, token, expires_at, created_at
		FROM sessions
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		if err := rows.Scan(
			&session.ID,
			&session.UserID,
			&session.Token,
			&session.ExpiresAt,
			&session.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		session.ExpiresAt = session.ExpiresAt.UTC()
		session.CreatedAt = session.CreatedAt.UTC()
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return sessions, nil
}

// DeleteExpiredSessions удаляет все сессии с expires_at <= now.
func (s *Storage) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	const op = "storage.postgres.DeleteExpiredSessions"

	query := `
		DELETE FROM sessions
		WHERE expires_at <= $1
	`

	cmdTag, err := s.db.Exec(ctx, query, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return cmdTag.RowsAffected(), nil
}
