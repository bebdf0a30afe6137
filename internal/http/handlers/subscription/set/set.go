// Package set реализует HTTP-обработчик записи премиум-статуса.
//
// Эндпоинт административный: маршрут закрыт JWT-middleware с ролью admin.
// Handler принимает JSON-запрос с email и значением статуса, валидирует его
// и перезаписывает серверную запись целиком через сервис.
package set

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/http/response"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/sl"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
)

// Service описывает интерфейс бизнес-логики записи премиум-статуса.
type Service interface {
	Set(ctx context.Context, email string, isPremium bool, sessionID string) error
}

// Handler управляет HTTP-запросами на запись премиум-статуса.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики записи статуса
	validate *validator.Validate // Валидатор структуры входящих данных
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.set"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.SetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.Set(r.Context(), req.Email, *req.IsPremium, req.StripeSessionID); err != nil {
		log.Error("failed to set premium status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not set premium status"))
		return
	}

	log.Info("premium status set", slog.Bool("is_premium", *req.IsPremium))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"success": true,
	}))
}
