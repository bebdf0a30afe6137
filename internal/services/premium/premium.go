// Package premium содержит бизнес-логику премиум-статуса: проверку и запись
// статуса в удалённом хранилище, кэширование результатов и обработку
// webhook-событий платёжного провайдера.
package premium

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/sl"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/metrics"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/surreal"
)

// Store определяет методы удалённого хранилища премиум-статусов.
type Store interface {
	// GetPremiumStatus возвращает трёхзначный статус по email.
	GetPremiumStatus(ctx context.Context, email string) (models.PremiumStatus, error)
	// SetPremiumStatus перезаписывает запись статуса целиком.
	SetPremiumStatus(ctx context.Context, email string, isPremium bool, sessionID string) error
}

// Ledger определяет журнал webhook-событий.
type Ledger interface {
	// CreateEvent фиксирует принятое событие и исход его обработки.
	CreateEvent(ctx context.Context, event models.WebhookEventRecord) (int, error)
	// ListEvents возвращает записи журнала с пагинацией.
	ListEvents(ctx context.Context, limit, offset int) ([]*models.WebhookEventRecord, error)
}

// Cache описывает методы для кэширования результатов проверки.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Publisher публикует сообщения брокера о выданных entitlement.
type Publisher interface {
	Publish(routingKey string, message any) error
}

// Service реализует операции премиум-статуса.
type Service struct {
	store     Store
	ledger    Ledger
	cache     Cache
	publisher Publisher
	cacheTTL  time.Duration
	log       *slog.Logger
}

// New создает новый экземпляр Service. Ledger, cache и publisher опциональны:
// nil отключает соответствующий побочный эффект. Без ledger запись событий
// пропускается, а ListEvents возвращает ошибку.
func New(store Store, ledger Ledger, cache Cache, publisher Publisher, cacheTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		store:     store,
		ledger:    ledger,
		cache:     cache,
		publisher: publisher,
		cacheTTL:  cacheTTL,
		log:       log,
	}
}

// CheckStatus возвращает трёхзначный премиум-статус по email.
// Ошибка хранилища не скрывается: вызывающая сторона видит StatusUnknown
// вместе с причиной.
func (s *Service) CheckStatus(ctx context.Context, email string) (models.PremiumStatus, error) {
	const op = "services.premium.CheckStatus"

	key := surreal.NormalizeEmail(email)

	if s.cache != nil {
		var cached bool
		found, err := s.cache.Get(ctx, cacheKey(key), &cached)
		if err != nil {
			s.log.Warn("cache lookup failed", slog.String("op", op), sl.Err(err))
		}
		if found {
			if cached {
				return models.StatusGranted, nil
			}
			return models.StatusDenied, nil
		}
	}

	status, err := s.store.GetPremiumStatus(ctx, key)
	metrics.EntitlementChecksTotal.WithLabelValues(status.String()).Inc()
	if err != nil {
		return models.StatusUnknown, err
	}

	if s.cache != nil {
		if cErr := s.cache.Set(ctx, cacheKey(key), status.Bool(), s.cacheTTL); cErr != nil {
			s.log.Warn("failed to cache premium status", slog.String("op", op), sl.Err(cErr))
		}
	}
	return status, nil
}

// Check возвращает булев премиум-статус для RPC subscription.check.
// Неопределённый статус схлопывается в false (fail closed); различие
// сохраняется в логах и метриках.
func (s *Service) Check(ctx context.Context, email string) (bool, error) {
	const op = "services.premium.Check"

	status, err := s.CheckStatus(ctx, email)
	if err != nil {
		s.log.Warn("premium status lookup degraded to false", slog.String("op", op), sl.Err(err))
		return false, nil
	}
	return status.Bool(), nil
}

// Set перезаписывает премиум-статус и инвалидирует кэш.
func (s *Service) Set(ctx context.Context, email string, isPremium bool, sessionID string) error {
	const op = "services.premium.Set"

	key := surreal.NormalizeEmail(email)

	if err := s.store.SetPremiumStatus(ctx, key, isPremium, sessionID); err != nil {
		metrics.StoreWritesTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.StoreWritesTotal.WithLabelValues("ok").Inc()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cacheKey(key)); err != nil {
			s.log.Warn("failed to invalidate cache", slog.String("op", op), sl.Err(err))
		}
	}

	s.log.Info("premium status written",
		slog.String("email", key),
		slog.Bool("is_premium", isPremium))
	return nil
}

// ListEvents возвращает записи журнала webhook-событий.
// При отключённом журнале возвращает ошибку: листинг без ledger невозможен.
func (s *Service) ListEvents(ctx context.Context, limit, offset int) ([]*models.WebhookEventRecord, error) {
	const op = "services.premium.ListEvents"
	if s.ledger == nil {
		return nil, fmt.Errorf("%s: ledger is not configured", op)
	}
	return s.ledger.ListEvents(ctx, limit, offset)
}

func cacheKey(email string) string {
	return "premium:" + email
}
