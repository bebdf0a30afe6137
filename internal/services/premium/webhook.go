package premium

import (
	"context"
	"log/slog"
	"time"

	"github.com/streadway/amqp"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/sl"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/metrics"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/rabbitmq"
	"github.com/Gagan625-cmd/shikshasetu-premium/internal/surreal"
)

// Типы событий платёжного провайдера, приводящие к записи статуса.
const (
	EventCheckoutSessionCompleted = "checkout.session.completed"
	EventPaymentIntentSucceeded   = "payment_intent.succeeded"
)

// Исходы обработки webhook-события. Возвращаются обработчиком в теле ответа
// и фиксируются в журнале.
const (
	OutcomeHandled          = "handled"
	OutcomeIgnored          = "ignored"
	OutcomeNoEmail          = "no_email"
	OutcomeStoreWriteFailed = "store_write_failed"
)

// HandlePaymentEvent обрабатывает событие платёжного провайдера:
// извлекает email плательщика, записывает премиум-статус в хранилище,
// фиксирует исход в журнале и публикует сообщение о выдаче entitlement.
//
// Ошибки не возвращаются: webhook-контракт провайдера требует подтверждать
// приём всегда, иначе доставка будет повторяться бесконечно. Исход обработки
// кодируется строкой и остаётся видимым в логах, журнале и метриках.
func (s *Service) HandlePaymentEvent(ctx context.Context, event *models.StripeEvent) string {
	const op = "services.premium.HandlePaymentEvent"
	log := s.log.With(
		slog.String("op", op),
		slog.String("event_id", event.ID),
		slog.String("event_type", event.Type),
	)

	switch event.Type {
	case EventCheckoutSessionCompleted, EventPaymentIntentSucceeded:
	default:
		log.Info("ignored webhook event")
		s.recordEvent(ctx, event, "", OutcomeIgnored)
		return OutcomeIgnored
	}

	email := surreal.NormalizeEmail(event.Data.Object.PayerEmail())
	if email == "" {
		log.Warn("no payer email in webhook payload")
		s.recordEvent(ctx, event, "", OutcomeNoEmail)
		return OutcomeNoEmail
	}

	sessionID := event.Data.Object.ID
	if err := s.store.SetPremiumStatus(ctx, email, true, sessionID); err != nil {
		log.Error("failed to write premium status", sl.Err(err))
		metrics.StoreWritesTotal.WithLabelValues("error").Inc()
		s.recordEvent(ctx, event, email, OutcomeStoreWriteFailed)
		return OutcomeStoreWriteFailed
	}
	metrics.StoreWritesTotal.WithLabelValues("ok").Inc()

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, cacheKey(email)); err != nil {
			log.Warn("failed to invalidate cache after webhook", sl.Err(err))
		}
	}

	if s.publisher != nil {
		grant := models.EntitlementGrant{
			Email:           email,
			StripeSessionID: sessionID,
			GrantedAt:       time.Now().UTC(),
		}
		if err := s.publisher.Publish("granted", grant); err != nil {
			log.Warn("failed to publish entitlement grant", sl.Err(err))
		}
	}

	s.recordEvent(ctx, event, email, OutcomeHandled)
	log.Info("premium granted via webhook", slog.String("email", email))
	return OutcomeHandled
}

// recordEvent фиксирует событие в журнале; ошибка журнала не влияет
// на исход обработки.
func (s *Service) recordEvent(ctx context.Context, event *models.StripeEvent, email, outcome string) {
	metrics.WebhookEventsTotal.WithLabelValues(outcome).Inc()
	if s.ledger == nil {
		return
	}
	_, err := s.ledger.CreateEvent(ctx, models.WebhookEventRecord{
		StripeEventID:   event.ID,
		EventType:       event.Type,
		Email:           email,
		StripeSessionID: event.Data.Object.ID,
		Outcome:         outcome,
	})
	if err != nil {
		s.log.Warn("failed to record webhook event in ledger", sl.Err(err))
	}
}

// ChannelPublisher адаптирует канал RabbitMQ к интерфейсу Publisher.
type ChannelPublisher struct {
	Channel *amqp.Channel
}

// Publish публикует сообщение в обменник entitlements.
func (p *ChannelPublisher) Publish(routingKey string, message any) error {
	return rabbitmq.PublishMessage(p.Channel, rabbitmq.Exchange, routingKey, message)
}
