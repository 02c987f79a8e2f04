package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"arrienda-backend/internal/repository"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.PropertyRepository
	repository.LeaseRepository
	repository.TenantProfileRepository
	repository.OtpRepository
	repository.PaymentRepository
	repository.WebhookEventRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		UserRepository:          NewUserRepository(db),
		PropertyRepository:      NewPropertyRepository(db),
		LeaseRepository:         NewLeaseRepository(db),
		TenantProfileRepository: NewTenantProfileRepository(db),
		OtpRepository:           NewOtpRepository(db),
		PaymentRepository:       NewPaymentRepository(db),
		WebhookEventRepository:  NewWebhookEventRepository(db),
	}
}

// WithTx runs fn against repositories bound to a single database
// transaction. The transaction commits when fn returns nil and rolls back
// otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	repos := repository.Repositories{
		Users:         NewUserRepository(tx),
		Properties:    NewPropertyRepository(tx),
		Leases:        NewLeaseRepository(tx),
		Profiles:      NewTenantProfileRepository(tx),
		Otps:          NewOtpRepository(tx),
		Payments:      NewPaymentRepository(tx),
		WebhookEvents: NewWebhookEventRepository(tx),
	}

	if err := fn(repos); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	return tx.Commit()
}
