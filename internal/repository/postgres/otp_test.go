package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"arrienda-backend/internal/domain"
)

func TestOtpRepository_FindUnused(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewOtpRepository(db)

	t.Run("Found", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows([]string{"id", "user_id", "lease_id", "code", "expires_at", "used_at", "created_at"}).
			AddRow("otp-1", "tenant-1", "lease-1", "123456", now.Add(3*time.Minute), nil, now)
		mock.ExpectQuery("SELECT (.+) FROM otp_codes").
			WithArgs("lease-1", "tenant-1", "123456").
			WillReturnRows(rows)

		otp, err := repo.FindUnused(context.Background(), "lease-1", "tenant-1", "123456")
		assert.NoError(t, err)
		assert.Equal(t, "otp-1", otp.ID)
		assert.Nil(t, otp.UsedAt)
	})

	t.Run("WrongCodeReturnsNil", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM otp_codes").
			WithArgs("lease-1", "tenant-1", "000000").
			WillReturnError(sql.ErrNoRows)

		otp, err := repo.FindUnused(context.Background(), "lease-1", "tenant-1", "000000")
		assert.NoError(t, err)
		assert.Nil(t, otp)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOtpRepository_MarkUsed(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewOtpRepository(db)

	t.Run("ConsumesOnce", func(t *testing.T) {
		usedAt := time.Now()
		mock.ExpectExec("UPDATE otp_codes SET used_at = \\$1 WHERE id = \\$2 AND used_at IS NULL").
			WithArgs(usedAt, "otp-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.MarkUsed(context.Background(), "otp-1", usedAt)
		assert.NoError(t, err)
	})

	t.Run("AlreadyConsumedIsInvalid", func(t *testing.T) {
		mock.ExpectExec("UPDATE otp_codes SET used_at = \\$1 WHERE id = \\$2 AND used_at IS NULL").
			WithArgs(sqlmock.AnyArg(), "otp-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.MarkUsed(context.Background(), "otp-1", time.Now())
		assert.ErrorIs(t, err, domain.ErrInvalidOtpCode)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOtpRepository_DeleteExpiredBefore(t *testing.T) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	repo := NewOtpRepository(db)

	cutoff := time.Now().Add(-24 * time.Hour)
	mock.ExpectExec("DELETE FROM otp_codes WHERE used_at IS NULL AND expires_at < \\$1").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	n, err := repo.DeleteExpiredBefore(context.Background(), cutoff)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
