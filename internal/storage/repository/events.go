package repository

import (
	"context"
	"fmt"

	"github.com/Gagan625-cmd/shikshasetu-premium/internal/models"
)

// CreateEvent вставляет запись журнала webhook-событий и возвращает её ID.
func (s *Storage) CreateEvent(ctx context.Context, event models.WebhookEventRecord) (int, error) {
	const op = "storage.CreateEvent"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO webhook_events (stripe_event_id, event_type, email,
			      stripe_session_id, outcome)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		event.StripeEventID, event.EventType, event.Email,
		event.StripeSessionID, event.Outcome).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListEvents возвращает записи журнала с пагинацией, от новых к старым.
func (s *Storage) ListEvents(ctx context.Context, limit, offset int) ([]*models.WebhookEventRecord, error) {
	const op = "storage.ListEvents"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, stripe_event_id, event_type, email, stripe_session_id,
				outcome, received_at
			  FROM webhook_events
			  ORDER BY received_at DESC, id DESC
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var results []*models.WebhookEventRecord
	for rows.Next() {
		var rec models.WebhookEventRecord
		if err := rows.Scan(&rec.ID, &rec.StripeEventID, &rec.EventType, &rec.Email,
			&rec.StripeSessionID, &rec.Outcome, &rec.ReceivedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		results = append(results, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return results, nil
}

// CountEventsByEmail возвращает число записей журнала для email.
func (s *Storage) CountEventsByEmail(ctx context.Context, email string) (int, error) {
	const op = "storage.CountEventsByEmail"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM webhook_events WHERE email = $1`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, email).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
