// Package check реализует HTTP-обработчик проверки премиум-статуса по email.
//
// Handler принимает JSON-запрос с email, валидирует его, вызывает бизнес-логику
// проверки статуса и возвращает булев результат в JSON-формате. Ошибка
// обращения к хранилищу схлопывается сервисом в false, поэтому клиент всегда
// получает ответ 200 с isPremium.
package check

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

// Service описывает интерфейс бизнес-логики проверки премиум-статуса.
type Service interface {
	Check(ctx context.Context, email string) (bool, error)
}

// Handler управляет HTTP-запросами на проверку премиум-статуса.
type Handler struct {
	log      *slog.Logger        // Логгер для записи информации и ошибок
	service  Service             // Сервис бизнес-логики проверки статуса
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
	const op = "handlers.subscription.check"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.CheckRequest
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

	isPremium, err := h.service.Check(r.Context(), req.Email)
	if err != nil {
		log.Error("failed to check premium status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check premium status"))
		return
	}

	log.Info("premium status checked", slog.Bool("is_premium", isPremium))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"isPremium": isPremium,
	}))
}
