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

type otpRepository struct {
	db DBTX
}

func NewOtpRepository(db DBTX) repository.OtpRepository {
	return &otpRepository{db: db}
}

const otpColumns = `id, user_id, lease_id, code, expires_at, used_at, created_at`

func (r *otpRepository) Create(ctx context.Context, code *domain.OtpCode) error {
	if code.ID == "" {
		code.ID = uuid.NewString()
	}
	query := `INSERT INTO otp_codes (id, user_id, lease_id, code, expires_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING created_at`
	return r.db.QueryRowContext(ctx, query,
		code.ID, code.UserID, code.LeaseID, code.Code, code.ExpiresAt, time.Now(),
	).Scan(&code.CreatedAt)
}

func (r *otpRepository) FindLive(ctx context.Context, leaseID, userID string, now time.Time) (*domain.OtpCode, error) {
	query := `SELECT ` + otpColumns + ` FROM otp_codes
	          WHERE lease_id = $1 AND user_id = $2 AND used_at IS NULL AND expires_at > $3
	          ORDER BY created_at DESC LIMIT 1`
	return r.scanOtp(r.db.QueryRowContext(ctx, query, leaseID, userID, now))
}

func (r *otpRepository) FindUnused(ctx context.Context, leaseID, userID, code string) (*domain.OtpCode, error) {
	query := `SELECT ` + otpColumns + ` FROM otp_codes
	          WHERE lease_id = $1 AND user_id = $2 AND code = $3 AND used_at IS NULL
	          ORDER BY created_at DESC LIMIT 1`
	return r.scanOtp(r.db.QueryRowContext(ctx, query, leaseID, userID, code))
}

func (r *otpRepository) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	query := `UPDATE otp_codes SET used_at = $1 WHERE id = $2 AND used_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, usedAt, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrInvalidOtpCode
	}
	return nil
}

func (r *otpRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM otp_codes WHERE used_at IS NULL AND expires_at < $1`
	res, err := r.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *otpRepository) scanOtp(row *sql.Row) (*domain.OtpCode, error) {
	c := &domain.OtpCode{}
	err := row.Scan(&c.ID, &c.UserID, &c.LeaseID, &c.Code, &c.ExpiresAt, &c.UsedAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}
