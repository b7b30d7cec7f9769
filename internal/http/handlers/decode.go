package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/register-service/internal/service"
)

// maxBodyBytes ограничивает размер тела запроса.
const maxBodyBytes = 1 << 20

const (
	msgInvalidJSON    = "Invalid JSON body"
	msgExpectedObject = "Expected object"
	msgBodyTooLarge   = "Request body too large"
)

// registerRequest: разобранное тело POST /api/auth/register.
type registerRequest struct {
	Email    string
	Password string
}

// decodeRegister разбирает тело запроса регистрации и проверяет поля.
// Неизвестные поля игнорируются. Возвращает *service.ValidationError со всеми
// найденными ошибками: формат JSON, отсутствующие поля, неверные типы и формат значений.
func decodeRegister(w http.ResponseWriter, r *http.Request) (registerRequest, *service.ValidationError) {
	verr := service.NewValidationError()

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			verr.AddForm(msgBodyTooLarge)
		case errors.As(err, &typeErr):
			verr.AddForm(msgExpectedObject)
		default:
			verr.AddForm(msgInvalidJSON)
		}
		return registerRequest{}, verr
	}
	if dec.More() {
		verr.AddForm(msgInvalidJSON)
		return registerRequest{}, verr
	}
	if raw == nil {
		verr.AddForm(msgExpectedObject)
		return registerRequest{}, verr
	}

	var req registerRequest
	if email, ok := stringField(raw, "email", verr); ok {
		req.Email = email
		verr.AddField("email", service.CheckEmail(email)...)
	}
	if password, ok := stringField(raw, "password", verr); ok {
		req.Password = password
		verr.AddField("password", service.CheckPassword(password)...)
	}

	if verr.Empty() {
		return req, nil
	}
	return req, verr
}

// stringField достаёт строковое поле name. Отсутствие и неверный тип пишутся в verr.
func stringField(raw map[string]json.RawMessage, name string, verr *service.ValidationError) (string, bool) {
	msg, ok := raw[name]
	if !ok {
		verr.AddField(name, service.MsgRequired)
		return "", false
	}

	if len(msg) == 0 || msg[0] != '"' {
		verr.AddField(name, service.MsgExpectedString)
		return "", false
	}

	var s string
	if err := json.Unmarshal(msg, &s); err != nil {
		verr.AddField(name, service.MsgExpectedString)
		return "", false
	}

	return s, true
}
