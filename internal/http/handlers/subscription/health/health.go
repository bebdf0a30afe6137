// Package health реализует HTTP-обработчик проверки живости сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/http/response"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/sl"
)

// ReadinessChecker проверяет готовность журнала событий; nil отключает проверку.
type ReadinessChecker interface {
	CheckDatabaseReady(ctx context.Context) error
}

type Handler struct {
	log    *slog.Logger
	ledger ReadinessChecker
}

func New(log *slog.Logger, ledger ReadinessChecker) *Handler {
	return &Handler{
		log:    log,
		ledger: ledger,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.health"

	ledgerStatus := "ok"
	if h.ledger != nil {
		if err := h.ledger.CheckDatabaseReady(r.Context()); err != nil {
			h.log.Warn("ledger is not ready", slog.String("op", op), sl.Err(err))
			ledgerStatus = "unavailable"
		}
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status": "ok",
		"ledger": ledgerStatus,
	}))
}
