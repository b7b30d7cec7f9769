// errors стандартизирует ответы об ошибках HTTP-слоя.
// На вход принимает доменную ошибку (service, ratelimit),
// на выход даёт HTTP-статус и конверт {error:{code,message,details}}
// без утечки внутренних деталей.
package errors

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/pribylovaa/register-service/internal/ratelimit"
	"github.com/pribylovaa/register-service/internal/service"
)

// Машиночитаемые коды ошибок.
const (
	CodeValidation  = "VALIDATION_ERROR"
	CodeEmailExists = "EMAIL_EXISTS"
	CodeRateLimit   = "RATE_LIMIT_EXCEEDED"
	CodeInternal    = "INTERNAL_ERROR"
)

const (
	MsgValidation  = "Invalid request data"
	MsgEmailExists = "Email already registered"
	MsgRateLimit   = "Too many registration attempts. Please try again later."
	MsgInternal    = "An error occurred during registration"
)

// APIError: единый формат ошибки для клиента.
// Details зависит от кода: поля валидации, занятый email или пустой объект.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

// ErrorResponse: корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ValidationDetails: details для VALIDATION_ERROR.
type ValidationDetails struct {
	FormErrors  []string            `json:"formErrors"`
	FieldErrors map[string][]string `json:"fieldErrors"`
}

// ConflictDetails: details для EMAIL_EXISTS.
type ConflictDetails struct {
	Email string `json:"email"`
}

// ToHTTP конвертирует ошибку в HTTP-статус и ответ.
//
//   - *service.ValidationError -> 400 VALIDATION_ERROR;
//   - *service.ConflictError -> 409 EMAIL_EXISTS;
//   - ratelimit.ErrLimitExceeded -> 429 RATE_LIMIT_EXCEEDED;
//   - nil и всё прочее -> 500 INTERNAL_ERROR.
func ToHTTP(err error) (int, ErrorResponse) {
	var verr *service.ValidationError
	if stderrors.As(err, &verr) {
		details := ValidationDetails{
			FormErrors:  verr.FormErrors,
			FieldErrors: verr.FieldErrors,
		}
		if details.FormErrors == nil {
			details.FormErrors = []string{}
		}
		if details.FieldErrors == nil {
			details.FieldErrors = map[string][]string{}
		}

		return http.StatusBadRequest, response(CodeValidation, MsgValidation, details)
	}

	var cerr *service.ConflictError
	if stderrors.As(err, &cerr) {
		return http.StatusConflict, response(CodeEmailExists, MsgEmailExists, ConflictDetails{Email: cerr.Email})
	}

	if stderrors.Is(err, ratelimit.ErrLimitExceeded) {
		return http.StatusTooManyRequests, response(CodeRateLimit, MsgRateLimit, struct{}{})
	}

	return http.StatusInternalServerError, response(CodeInternal, MsgInternal, struct{}{})
}

// WriteError: хелпер для HTTP-хендлеров: пишет статус и тело ошибки.
func WriteError(w http.ResponseWriter, err error) {
	status, resp := ToHTTP(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func response(code, msg string, details any) ErrorResponse {
	return ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
			Details: details,
		},
	}
}
