package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/repository"
)

type webhookEventRepository struct {
	db DBTX
}

func NewWebhookEventRepository(db DBTX) repository.WebhookEventRepository {
	return &webhookEventRepository{db: db}
}

func (r *webhookEventRepository) Create(ctx context.Context, event *domain.WebhookEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	query := `INSERT INTO webhook_events (id, event_type, received_checksum, calculated_checksum,
	            is_valid, payload, processed, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		event.ID, event.EventType, event.ReceivedChecksum, event.CalculatedChecksum,
		event.IsValid, event.Payload, event.Processed, time.Now(),
	).Scan(&event.CreatedAt)
}

func (r *webhookEventRepository) MarkProcessed(ctx context.Context, id string, processedAt time.Time, errorMessage *string, paymentTransactionID *string) error {
	query := `UPDATE webhook_events
	          SET processed = true, processed_at = $1, error_message = $2, payment_transaction_id = $3
	          WHERE id = $4`
	_, err := r.db.ExecContext(ctx, query, processedAt, errorMessage, paymentTransactionID, id)
	return err
}

func (r *webhookEventRepository) GetByID(ctx context.Context, id string) (*domain.WebhookEvent, error) {
	query := `SELECT id, event_type, received_checksum, calculated_checksum, is_valid, payload,
	                 processed, processed_at, error_message, payment_transaction_id, created_at
	          FROM webhook_events WHERE id = $1`
	e := &domain.WebhookEvent{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&e.ID, &e.EventType, &e.ReceivedChecksum, &e.CalculatedChecksum, &e.IsValid, &e.Payload,
		&e.Processed, &e.ProcessedAt, &e.ErrorMessage, &e.PaymentTransactionID, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}
