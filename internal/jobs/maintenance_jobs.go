package jobs

import (
	"context"
	"time"

	"arrienda-backend/internal/logger"
)

// Expired unused codes older than this are removed rather than kept for
// audit. Used codes are never deleted, they back the signature record.
const otpRetention = 24 * time.Hour

// Pending payments younger than this are left alone: the landlord may still
// be inside the checkout.
const reconcileAge = 30 * time.Minute

// PurgeExpiredOtpCodes removes expired, unused signature codes.
func (jr *JobRunner) PurgeExpiredOtpCodes() {
	jr.runWithRecovery("PurgeExpiredOtpCodes", func() {
		ctx := context.Background()

		cutoff := time.Now().Add(-otpRetention)
		deleted, err := jr.store.OtpRepository.DeleteExpiredBefore(ctx, cutoff)
		if err != nil {
			logger.Error("Failed to purge expired otp codes", "error", err)
			return
		}
		logger.Info("Purged expired otp codes", "count", deleted)
	})
}

// ReconcilePendingPayments asks the provider about stale pending payments
// whose webhook may have been lost.
func (jr *JobRunner) ReconcilePendingPayments() {
	jr.runWithRecovery("ReconcilePendingPayments", func() {
		ctx := context.Background()

		reconciled, err := jr.payments.ReconcilePendingPayments(ctx, reconcileAge)
		if err != nil {
			logger.Error("Failed to reconcile pending payments", "error", err)
			return
		}
		logger.Info("Reconciled pending payments", "count", reconciled)
	})
}
