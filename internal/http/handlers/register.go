package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	apierrors "github.com/pribylovaa/register-service/internal/errors"
	"github.com/pribylovaa/register-service/internal/metrics"
	"github.com/pribylovaa/register-service/internal/ratelimit"
	"github.com/pribylovaa/register-service/internal/service"
	logctx "github.com/pribylovaa/register-service/pkg/log"
	"github.com/pribylovaa/register-service/pkg/redact"
)

// userView: публичное представление пользователя. Хэша пароля нет.
type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type registerResponse struct {
	User userView `json:"user"`
}

// RegisterUser обрабатывает POST /api/auth/register:
// лимит попыток → разбор тела → регистрация → 201 {user:{id,email,createdAt}}.
func (h *Handlers) RegisterUser(w http.ResponseWriter, r *http.Request) {
	addr := clientAddr(r)
	ctx := logctx.With(r.Context(), slog.String("client", redact.Addr(addr)))
	log := logctx.From(ctx)

	if err := h.limiter.Allow(ctx, addr); err != nil {
		if errors.Is(err, ratelimit.ErrLimitExceeded) {
			h.metrics.Registration(metrics.OutcomeRateLimited)
			log.Warn("rate_limited")
		} else {
			h.metrics.Registration(metrics.OutcomeError)
			log.Error("rate_limit_check_failed", slog.String("err", err.Error()))
		}
		apierrors.WriteError(w, err)
		return
	}

	in, verr := decodeRegister(w, r)
	if verr != nil {
		h.metrics.Registration(metrics.OutcomeInvalid)
		log.Info("registration_invalid",
			slog.Any("form_errors", verr.FormErrors),
			slog.Int("field_errors", len(verr.FieldErrors)),
		)
		apierrors.WriteError(w, verr)
		return
	}

	user, err := h.svc.RegisterUser(ctx, in.Email, in.Password)
	if err != nil {
		var vErr *service.ValidationError
		switch {
		case errors.As(err, &vErr):
			h.metrics.Registration(metrics.OutcomeInvalid)
		case errors.Is(err, service.ErrEmailTaken):
			h.metrics.Registration(metrics.OutcomeConflict)
			log.Info("registration_conflict", slog.String("email", redact.Email(in.Email)))
		default:
			h.metrics.Registration(metrics.OutcomeError)
			log.Error("registration_failed",
				slog.String("email", redact.Email(in.Email)),
				slog.String("err", err.Error()),
			)
		}
		apierrors.WriteError(w, err)
		return
	}

	h.metrics.Registration(metrics.OutcomeCreated)
	log.Info("user_registered", slog.Any("user", *user))

	writeJSON(w, http.StatusCreated, registerResponse{
		User: userView{
			ID:        user.ID.String(),
			Email:     user.Email,
			CreatedAt: user.CreatedAt.UTC(),
		},
	})
}
