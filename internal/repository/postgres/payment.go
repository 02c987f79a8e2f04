package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"arrienda-backend/internal/domain"
	"arrienda-backend/internal/logger"
	"arrienda-backend/internal/repository"
)

type paymentRepository struct {
	db DBTX
}

func NewPaymentRepository(db DBTX) repository.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentColumns = `id, wompi_reference, wompi_transaction_id, amount, currency, status,
	payment_method, user_id, wompi_checkout_url, integrity_signature, metadata,
	paid_at, voided_at, created_at, updated_at`

func (r *paymentRepository) CreatePayment(ctx context.Context, p *domain.PaymentTransaction) error {
	logger.EnterMethod("paymentRepository.CreatePayment", "reference", p.WompiReference)

	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return err
	}
	query := `INSERT INTO payment_transactions (id, wompi_reference, amount, currency, status,
	            user_id, wompi_checkout_url, integrity_signature, metadata, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	          RETURNING created_at, updated_at`
	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		p.ID, p.WompiReference, p.Amount, p.Currency, p.Status,
		p.UserID, p.WompiCheckoutURL, p.IntegritySignature, meta, now, now,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		logger.ExitMethodWithError("paymentRepository.CreatePayment", err, "reference", p.WompiReference)
		return err
	}
	logger.ExitMethod("paymentRepository.CreatePayment", "paymentID", p.ID)
	return nil
}

func (r *paymentRepository) GetPaymentByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE id = $1`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, id))
}

func (r *paymentRepository) GetPaymentByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions WHERE wompi_reference = $1`
	return r.scanPayment(r.db.QueryRowContext(ctx, query, reference))
}

func (r *paymentRepository) UpdatePaymentStatus(ctx context.Context, p *domain.PaymentTransaction) error {
	query := `UPDATE payment_transactions
	          SET wompi_transaction_id=$1, status=$2, payment_method=$3, paid_at=$4, voided_at=$5, updated_at=$6
	          WHERE id=$7`
	_, err := r.db.ExecContext(ctx, query,
		p.WompiTransactionID, p.Status, p.PaymentMethod, p.PaidAt, p.VoidedAt, time.Now(), p.ID)
	return err
}

func (r *paymentRepository) ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.PaymentTransaction, error) {
	query := `SELECT ` + paymentColumns + ` FROM payment_transactions
	          WHERE status = 'pending' AND created_at < $1`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.PaymentTransaction
	for rows.Next() {
		p, err := scanPaymentRow(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}

func (r *paymentRepository) CreateFee(ctx context.Context, fee *domain.LeaseApprovalFee) error {
	if fee.ID == "" {
		fee.ID = uuid.NewString()
	}
	query := `INSERT INTO lease_approval_fees (id, lease_id, payment_transaction_id, monthly_rent,
	            fee_percentage, fee_amount, is_paid, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING created_at, updated_at`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		fee.ID, fee.LeaseID, fee.PaymentTransactionID, fee.MonthlyRent,
		fee.FeePercentage, fee.FeeAmount, fee.IsPaid, now, now,
	).Scan(&fee.CreatedAt, &fee.UpdatedAt)
}

func (r *paymentRepository) GetFeeByLeaseID(ctx context.Context, leaseID string) (*domain.LeaseApprovalFee, error) {
	query := `SELECT id, lease_id, payment_transaction_id, monthly_rent, fee_percentage, fee_amount,
	                 is_paid, paid_at, created_at, updated_at
	          FROM lease_approval_fees WHERE lease_id = $1`
	return r.scanFee(r.db.QueryRowContext(ctx, query, leaseID))
}

func (r *paymentRepository) GetFeeByPaymentID(ctx context.Context, paymentID string) (*domain.LeaseApprovalFee, error) {
	query := `SELECT id, lease_id, payment_transaction_id, monthly_rent, fee_percentage, fee_amount,
	                 is_paid, paid_at, created_at, updated_at
	          FROM lease_approval_fees WHERE payment_transaction_id = $1`
	return r.scanFee(r.db.QueryRowContext(ctx, query, paymentID))
}

func (r *paymentRepository) RelinkFeePayment(ctx context.Context, feeID, paymentID string) error {
	query := `UPDATE lease_approval_fees SET payment_transaction_id = $1, updated_at = $2
	          WHERE id = $3 AND is_paid = false`
	_, err := r.db.ExecContext(ctx, query, paymentID, time.Now(), feeID)
	return err
}

func (r *paymentRepository) MarkFeePaid(ctx context.Context, feeID string, paidAt time.Time) error {
	query := `UPDATE lease_approval_fees SET is_paid = true, paid_at = $1, updated_at = $2 WHERE id = $3`
	_, err := r.db.ExecContext(ctx, query, paidAt, time.Now(), feeID)
	return err
}

func (r *paymentRepository) scanPayment(row *sql.Row) (*domain.PaymentTransaction, error) {
	p := &domain.PaymentTransaction{}
	var meta []byte
	err := row.Scan(
		&p.ID, &p.WompiReference, &p.WompiTransactionID, &p.Amount, &p.Currency, &p.Status,
		&p.PaymentMethod, &p.UserID, &p.WompiCheckoutURL, &p.IntegritySignature, &meta,
		&p.PaidAt, &p.VoidedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(meta) > 0 {
		_ = json.Unmarshal(meta, &p.Metadata)
	}
	return p, nil
}

func scanPaymentRow(rows *sql.Rows) (*domain.PaymentTransaction, error) {
	p := &domain.PaymentTransaction{}
	var meta []byte
	err := rows.Scan(
		&p.ID, &p.WompiReference, &p.WompiTransactionID, &p.Amount, &p.Currency, &p.Status,
		&p.PaymentMethod, &p.UserID, &p.WompiCheckoutURL, &p.IntegritySignature, &meta,
		&p.PaidAt, &p.VoidedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(meta) > 0 {
		_ = json.Unmarshal(meta, &p.Metadata)
	}
	return p, nil
}

func (r *paymentRepository) scanFee(row *sql.Row) (*domain.LeaseApprovalFee, error) {
	f := &domain.LeaseApprovalFee{}
	err := row.Scan(
		&f.ID, &f.LeaseID, &f.PaymentTransactionID, &f.MonthlyRent, &f.FeePercentage, &f.FeeAmount,
		&f.IsPaid, &f.PaidAt, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
