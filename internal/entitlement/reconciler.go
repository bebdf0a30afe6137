// Package entitlement реализует клиентскую часть премиум-доступа:
// сверку сигналов в единое значение "премиум активен" и поллер
// подтверждения оплаты после ухода пользователя на внешнюю страницу оплаты.
package entitlement

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/config"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/sl"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/purchases"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/surreal"
)

// now выведено в переменную для подмены времени в тестах.
var now = time.Now

// PurchasesClient описывает клиент SDK покупок.
type PurchasesClient interface {
	GetSubscriber(ctx context.Context, appUserID string) (*purchases.Subscriber, error)
}

// RemoteChecker описывает опциональный третий сигнал сверки:
// чтение серверной записи премиум-статуса, созданной webhook-обработчиком.
type RemoteChecker interface {
	CheckStatus(ctx context.Context, email string) (models.PremiumStatus, error)
}

// Reconciler сводит сигналы премиум-доступа в одно значение:
// allow-list → кэшированное состояние SDK покупок → (опционально) серверная запись.
// Попадание в allow-list всегда даёт StatusGranted; ошибки SDK и сервера
// дают StatusUnknown, который булево представление схлопывает в false.
type Reconciler struct {
	allow         map[string]struct{}
	entitlementID string
	purchases     PurchasesClient
	remote        RemoteChecker // nil, если consult_remote выключен
	log           *slog.Logger

	mu       sync.RWMutex
	snapshot *purchases.Subscriber
	staleErr error
}

// NewReconciler создает Reconciler. remote передаётся только при включённом
// consult_remote; nil отключает серверный сигнал.
func NewReconciler(cfg config.Entitlement, pc PurchasesClient, remote RemoteChecker, log *slog.Logger) *Reconciler {
	allow := make(map[string]struct{}, len(cfg.AllowList))
	for _, email := range cfg.AllowList {
		allow[surreal.NormalizeEmail(email)] = struct{}{}
	}
	if !cfg.ConsultRemote {
		remote = nil
	}
	return &Reconciler{
		allow:         allow,
		entitlementID: cfg.EntitlementID,
		purchases:     pc,
		remote:        remote,
		log:           log,
	}
}

// Allowed сообщает, входит ли email в операторский allow-list.
func (r *Reconciler) Allowed(email string) bool {
	_, ok := r.allow[surreal.NormalizeEmail(email)]
	return ok
}

// Refresh перечитывает состояние подписчика из SDK покупок.
// Ошибка сохраняется: до следующего успешного обновления Evaluate будет
// возвращать StatusUnknown, если другие сигналы не дали ответа.
func (r *Reconciler) Refresh(ctx context.Context, email string) error {
	const op = "entitlement.Refresh"

	sub, err := r.purchases.GetSubscriber(ctx, surreal.NormalizeEmail(email))

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.staleErr = err
		r.log.Warn("failed to refresh purchases snapshot", slog.String("op", op), sl.Err(err))
		return err
	}
	r.snapshot = sub
	r.staleErr = nil
	return nil
}

// Evaluate сводит текущие сигналы в трёхзначный статус без обращения к сети
// (кроме опционального серверного сигнала).
func (r *Reconciler) Evaluate(ctx context.Context, email string) models.PremiumStatus {
	const op = "entitlement.Evaluate"

	if r.Allowed(email) {
		return models.StatusGranted
	}

	r.mu.RLock()
	snapshot := r.snapshot
	staleErr := r.staleErr
	r.mu.RUnlock()

	if snapshot != nil {
		if ent, ok := snapshot.Entitlements[r.entitlementID]; ok && ent.Active(now()) {
			return models.StatusGranted
		}
	}

	if r.remote != nil {
		status, err := r.remote.CheckStatus(ctx, email)
		if err != nil {
			r.log.Warn("remote premium check failed", slog.String("op", op), sl.Err(err))
			return models.StatusUnknown
		}
		if status == models.StatusGranted {
			return status
		}
	}

	if snapshot == nil || staleErr != nil {
		return models.StatusUnknown
	}
	return models.StatusDenied
}

// IsPremium — булево представление сверки; StatusUnknown схлопывается
// в false (доступ не выдаётся, пока статус не подтверждён).
func (r *Reconciler) IsPremium(ctx context.Context, email string) bool {
	return r.Evaluate(ctx, email).Bool()
}
