package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/lib/sl"
)

// DefaultPrefetch — верхняя граница одновременно обрабатываемых сообщений.
// Письма-подтверждения некритичны к порядку, поэтому доставка параллелится.
const DefaultPrefetch = 10

// ConsumerMessage запускает потребителя очереди выданных entitlement.
// Каждое сообщение обрабатывается в отдельной горутине, число одновременных
// обработок ограничено maxInFlight (<=0 — DefaultPrefetch). Ошибка handler-а
// приводит к nack с повторной постановкой: недоставленное письмо вернётся
// в очередь.
func ConsumerMessage(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queueName string, maxInFlight int, handler func([]byte) error) error {
	const op = "rabbitmq.ConsumerMessage"

	if maxInFlight <= 0 {
		maxInFlight = DefaultPrefetch
	}

	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("op", op), slog.String("queue", queueName))

	sem := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-delivery:
				if !ok {
					return
				}
				sem <- struct{}{}
				go func(delivery amqp.Delivery) {
					defer func() { <-sem }()
					if err := handler(delivery.Body); err != nil {
						if nackErr := delivery.Nack(false, true); nackErr != nil {
							log.Error("failed to nack message", sl.Err(nackErr))
						}
						return
					}
					if ackErr := delivery.Ack(false); ackErr != nil {
						log.Error("failed to ack message", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
