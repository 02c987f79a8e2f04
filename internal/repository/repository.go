package repository

import (
	"context"
	"time"

	"arrienda-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	AddRole(ctx context.Context, userID string, role domain.Role) error
}

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
	ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Property, error)
}

type LeaseRepository interface {
	Create(ctx context.Context, lease *domain.Lease) error
	GetByID(ctx context.Context, id string) (*domain.Lease, error)
	// FindActiveByPropertyAndTenant returns the non-terminal lease for the
	// pair, or nil when none is in flight.
	FindActiveByPropertyAndTenant(ctx context.Context, propertyID, tenantID string) (*domain.Lease, error)
	// AdvanceStep performs a guarded compare-and-set transition. It returns
	// false without writing when the lease is no longer in the expected
	// (status, step) state.
	AdvanceStep(ctx context.Context, id string, fromStatus domain.LeaseStatus, fromStep int32, toStatus domain.LeaseStatus, toStep int32) (bool, error)
	// SaveContract persists the generated contract and advances 3->4 under
	// the same guard discipline.
	SaveContract(ctx context.Context, id string, content string) (bool, error)
	// MarkSigned advances 4->5 recording the signature artifacts.
	MarkSigned(ctx context.Context, id string, signedAt time.Time, signatureHash string) (bool, error)
	// Respond records the landlord decision on a pending_landlord_approval
	// lease.
	Respond(ctx context.Context, id string, status domain.LeaseStatus, respondedAt time.Time, notes *string) (bool, error)
	// Cancel aborts a lease the tenant has not yet signed.
	Cancel(ctx context.Context, id string) (bool, error)
	ListByTenant(ctx context.Context, tenantID string) ([]domain.Lease, error)
	ListByLandlord(ctx context.Context, landlordID string) ([]domain.Lease, error)
}

type TenantProfileRepository interface {
	// Upsert creates the profile on first submission and overwrites it on
	// every subsequent one. One row per user.
	Upsert(ctx context.Context, profile *domain.TenantProfile) error
	GetByUserID(ctx context.Context, userID string) (*domain.TenantProfile, error)
}

type OtpRepository interface {
	Create(ctx context.Context, code *domain.OtpCode) error
	// FindLive returns an unexpired, unused code for the pair, or nil.
	FindLive(ctx context.Context, leaseID, userID string, now time.Time) (*domain.OtpCode, error)
	// FindUnused returns the unused row matching the submitted code, or nil.
	// Expiry is checked by the caller so an expired code is reported as
	// expired rather than consumed.
	FindUnused(ctx context.Context, leaseID, userID, code string) (*domain.OtpCode, error)
	MarkUsed(ctx context.Context, id string, usedAt time.Time) error
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type PaymentRepository interface {
	CreatePayment(ctx context.Context, p *domain.PaymentTransaction) error
	GetPaymentByID(ctx context.Context, id string) (*domain.PaymentTransaction, error)
	GetPaymentByReference(ctx context.Context, reference string) (*domain.PaymentTransaction, error)
	// UpdatePaymentStatus applies a provider status update to a payment.
	UpdatePaymentStatus(ctx context.Context, p *domain.PaymentTransaction) error
	ListPendingOlderThan(ctx context.Context, cutoff time.Time) ([]domain.PaymentTransaction, error)

	CreateFee(ctx context.Context, fee *domain.LeaseApprovalFee) error
	GetFeeByLeaseID(ctx context.Context, leaseID string) (*domain.LeaseApprovalFee, error)
	GetFeeByPaymentID(ctx context.Context, paymentID string) (*domain.LeaseApprovalFee, error)
	// RelinkFeePayment points an unpaid fee at a replacement payment after
	// the previous checkout died.
	RelinkFeePayment(ctx context.Context, feeID, paymentID string) error
	// MarkFeePaid is the only write path that flips is_paid.
	MarkFeePaid(ctx context.Context, feeID string, paidAt time.Time) error
}

// Repositories bundles every repository bound to one unit of work.
type Repositories struct {
	Users         UserRepository
	Properties    PropertyRepository
	Leases        LeaseRepository
	Profiles      TenantProfileRepository
	Otps          OtpRepository
	Payments      PaymentRepository
	WebhookEvents WebhookEventRepository
}

// Transactor runs a function against transaction-bound repositories so
// multi-record writes commit or roll back together.
type Transactor interface {
	WithTx(ctx context.Context, fn func(r Repositories) error) error
}

type WebhookEventRepository interface {
	Create(ctx context.Context, event *domain.WebhookEvent) error
	MarkProcessed(ctx context.Context, id string, processedAt time.Time, errorMessage *string, paymentTransactionID *string) error
	GetByID(ctx context.Context, id string) (*domain.WebhookEvent, error)
}
