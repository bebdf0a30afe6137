// Package webhookevents реализует HTTP-обработчик чтения журнала
// webhook-событий. Эндпоинт административный: маршрут закрыт JWT-middleware
// с ролью admin. Поддерживается пагинация через query-параметры limit и offset.
package webhookevents

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/http/response"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/sl"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

// Service описывает интерфейс чтения журнала webhook-событий.
type Service interface {
	ListEvents(ctx context.Context, limit, offset int) ([]*models.WebhookEventRecord, error)
}

// Handler управляет HTTP-запросами на чтение журнала.
type Handler struct {
	log     *slog.Logger // Логгер для записи информации и ошибок
	service Service
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.webhookevents.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	limit := queryInt(r, "limit", defaultLimit)
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}
	offset := queryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}

	events, err := h.service.ListEvents(r.Context(), limit, offset)
	if err != nil {
		log.Error("failed to list webhook events", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list webhook events"))
		return
	}

	log.Info("webhook events listed", slog.Int("count", len(events)))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"events": events,
		"limit":  limit,
		"offset": offset,
	}))
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
