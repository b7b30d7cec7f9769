package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/pribylovaa/register-service/internal/models"
	"github.com/pribylovaa/register-service/internal/storage"
)

// RegisterUser регистрирует нового пользователя.
//
// Порядок: валидация → проверка занятости email → хэширование → вставка.
// Ошибки: *ValidationError, *ConflictError (errors.Is(err, ErrEmailTaken)),
// остальные - ошибки хранилища/хэширования.
func (s *Service) RegisterUser(ctx context.Context, email, password string) (*models.User, error) {
	const op = "service.register.RegisterUser"

	if verr := Validate(email, password); verr != nil {
		return nil, fmt.Errorf("%s: %w", op, verr)
	}

	_, err := s.users.UserByEmail(ctx, email)
	if err == nil {
		return nil, fmt.Errorf("%s: %w", op, &ConflictError{Email: email})
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	hash, err := s.hasher.Hash(ctx, password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
	}

	if err := s.users.SaveUser(ctx, user); err != nil {
		// параллельная регистрация того же email между проверкой и вставкой.
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, &ConflictError{Email: email})
		}

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}
