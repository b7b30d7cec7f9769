package service

import (
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	MsgInvalidEmail     = "Invalid email format"
	MsgEmailTooLong     = "Email must be at most 255 characters"
	MsgPasswordTooShort = "Password must be at least 8 characters"
	MsgPasswordTooLong  = "Password must be at most 72 bytes"
	MsgRequired         = "Required"
	MsgExpectedString   = "Expected string"

	// users.email: VARCHAR(255).
	maxEmailRunes    = 255
	minPasswordRunes = 8
	// bcrypt учитывает только первые 72 байта.
	maxPasswordBytes = 72
)

var tldRe = regexp.MustCompile(`^[A-Za-z]{2,}$`)

// CheckEmail возвращает сообщения об ошибках формата email (пусто: email корректен).
// Email не нормализуется: регистр и пробелы сохраняются как есть.
func CheckEmail(email string) []string {
	if !validEmail(email) {
		return []string{MsgInvalidEmail}
	}
	if utf8.RuneCountInString(email) > maxEmailRunes {
		return []string{MsgEmailTooLong}
	}
	return nil
}

// CheckPassword возвращает сообщения об ошибках политики пароля.
func CheckPassword(password string) []string {
	var msgs []string
	if utf8.RuneCountInString(password) < minPasswordRunes {
		msgs = append(msgs, MsgPasswordTooShort)
	}
	if len(password) > maxPasswordBytes {
		msgs = append(msgs, MsgPasswordTooLong)
	}
	return msgs
}

// Validate проверяет пару email/пароль и возвращает nil, если ошибок нет.
func Validate(email, password string) *ValidationError {
	verr := NewValidationError()
	verr.AddField("email", CheckEmail(email)...)
	verr.AddField("password", CheckPassword(password)...)
	if verr.Empty() {
		return nil
	}
	return verr
}

func validEmail(email string) bool {
	if email == "" || strings.TrimSpace(email) != email {
		return false
	}

	// Только голый адрес: без display name и угловых скобок.
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Name != "" || addr.Address != email {
		return false
	}

	at := strings.LastIndexByte(email, '@')
	labels := strings.Split(email[at+1:], ".")
	if len(labels) < 2 {
		return false
	}
	for _, l := range labels {
		if l == "" {
			return false
		}
	}

	return tldRe.MatchString(labels[len(labels)-1])
}
