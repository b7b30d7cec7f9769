package service

import (
	"sort"
	"strings"
)

// ValidationError: входные данные не прошли проверку. Транспорт: HTTP 400.
// FieldErrors содержит сообщения по полям, FormErrors: ошибки запроса целиком.
type ValidationError struct {
	FormErrors  []string
	FieldErrors map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{
		FormErrors:  []string{},
		FieldErrors: map[string][]string{},
	}
}

// AddField добавляет сообщения для поля. Пустой список игнорируется.
func (e *ValidationError) AddField(field string, msgs ...string) {
	if len(msgs) == 0 {
		return
	}
	e.FieldErrors[field] = append(e.FieldErrors[field], msgs...)
}

// AddForm добавляет ошибку уровня запроса.
func (e *ValidationError) AddForm(msg string) {
	e.FormErrors = append(e.FormErrors, msg)
}

// Empty сообщает, что ошибок нет.
func (e *ValidationError) Empty() bool {
	return e == nil || (len(e.FormErrors) == 0 && len(e.FieldErrors) == 0)
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := append([]string{}, e.FormErrors...)
	for _, field := range fields {
		parts = append(parts, field+": "+strings.Join(e.FieldErrors[field], ", "))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// ConflictError: email уже занят. Оборачивает ErrEmailTaken.
type ConflictError struct {
	Email string
}

func (e *ConflictError) Error() string {
	return ErrEmailTaken.Error()
}

func (e *ConflictError) Unwrap() error {
	return ErrEmailTaken
}
