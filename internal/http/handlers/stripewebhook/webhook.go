// Package stripewebhook реализует HTTP-обработчик webhook-эндпоинта
// платёжного провайдера.
//
// Контракт провайдера требует всегда отвечать 200 OK с телом {"received": true},
// иначе доставка события будет повторяться. Исход обработки кодируется
// дополнительными полями ответа и записывается в журнал и метрики, а не в
// HTTP-статус. Единственное исключение — неверная подпись при включённой
// проверке: такой запрос отклоняется с 401.
package stripewebhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/sl"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/services/premium"
)

// Service описывает интерфейс обработки события платёжного провайдера.
type Service interface {
	HandlePaymentEvent(ctx context.Context, event *models.StripeEvent) string
}

// Handler принимает webhook-события платёжного провайдера.
type Handler struct {
	log           *slog.Logger // Логгер для записи информации и ошибок
	service       Service
	webhookSecret string // Секрет для проверки подписи; пустой — проверка выключена
}

// New создает новый Handler с переданными логгером, сервисом и секретом подписи.
func New(log *slog.Logger, service Service, secret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: secret,
	}
}

// Проверка подписи webhook (X-Webhook-Signature)
func (h *Handler) verifySignature(body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(h.webhookSecret))
	mac.Write(body)
	expectedSig := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expectedSig), []byte(signature))
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.stripewebhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		log.Error("failed to read webhook body", sl.Err(err))
		render.JSON(w, r, map[string]any{"received": true, "error": "invalid_payload"})
		return
	}
	defer r.Body.Close()

	if h.webhookSecret != "" {
		signature := r.Header.Get("X-Webhook-Signature")
		if signature == "" || !h.verifySignature(body, signature) {
			log.Error("invalid or missing webhook signature")
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
	}

	var event models.StripeEvent
	if err := json.Unmarshal(body, &event); err != nil {
		log.Error("failed to unmarshal webhook payload", sl.Err(err))
		render.JSON(w, r, map[string]any{"received": true, "error": "invalid_payload"})
		return
	}

	outcome := h.service.HandlePaymentEvent(r.Context(), &event)

	log.Info("webhook processed",
		slog.String("event", event.Type),
		slog.String("outcome", outcome))
	render.JSON(w, r, outcomeBody(outcome))
}

// outcomeBody формирует тело подтверждения по исходу обработки:
// успех — {"received":true,"outcome":"handled"}, нераспознанный тип —
// {"received":true,"ignored":true}, ошибки — {"received":true,"error":"<маркер>"}.
func outcomeBody(outcome string) map[string]any {
	body := map[string]any{"received": true}
	switch outcome {
	case premium.OutcomeHandled:
		body["outcome"] = outcome
	case premium.OutcomeIgnored:
		body["ignored"] = true
	default:
		body["error"] = outcome
	}
	return body
}
