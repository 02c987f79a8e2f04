package service

import (
	"context"
	"time"

	"arrienda-backend/internal/domain"
)

// TokenPair is the access/refresh token bundle returned by auth operations.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type AuthService interface {
	Register(ctx context.Context, name, email, phone, password string) (*domain.User, *TokenPair, error)
	Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error)
	RefreshToken(ctx context.Context, refresh string) (*TokenPair, error)
	// BecomeLandlord grants the landlord role to the calling user.
	BecomeLandlord(ctx context.Context, principal domain.Principal) (*domain.User, error)
	GetProfile(ctx context.Context, principal domain.Principal) (*domain.User, error)
}

type PropertyService interface {
	Create(ctx context.Context, principal domain.Principal, p *domain.Property) error
	Get(ctx context.Context, id string) (*domain.Property, error)
	Update(ctx context.Context, principal domain.Principal, p *domain.Property) error
	ListAvailable(ctx context.Context, city string, page, pageSize int32) ([]domain.Property, int32, error)
	ListMine(ctx context.Context, principal domain.Principal) ([]domain.Property, error)
}

// VerificationInput is the tenant verification data submitted in step 2.
type VerificationInput struct {
	DocumentType      string `json:"document_type"`
	DocumentNumber    string `json:"document_number"`
	Occupation        string `json:"occupation"`
	MonthlyIncome     string `json:"monthly_income"`
	ReferenceName     string `json:"reference_name"`
	ReferencePhone    string `json:"reference_phone"`
	ReferenceRelation string `json:"reference_relation"`
}

type LeaseService interface {
	// Create opens a draft lease at step 1 with an economic snapshot of the
	// property. Fails with ActiveLeaseError while another lease for the same
	// (property, tenant) pair is still in flight.
	Create(ctx context.Context, principal domain.Principal, propertyID string) (*domain.Lease, error)
	Get(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error)
	// ConfirmSummary advances step 1 -> 2.
	ConfirmSummary(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error)
	// SubmitVerification stores the tenant profile and advances step 2 -> 3.
	SubmitVerification(ctx context.Context, principal domain.Principal, leaseID string, input VerificationInput) (*domain.Lease, error)
	// GetContract renders the contract for review without persisting it.
	GetContract(ctx context.Context, principal domain.Principal, leaseID string) (string, error)
	// AcceptContract freezes the contract text and advances step 3 -> 4.
	AcceptContract(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error)
	// Respond records the landlord decision. Approval requires the approval
	// fee to be paid.
	Respond(ctx context.Context, principal domain.Principal, leaseID string, approve bool, notes string) (*domain.Lease, error)
	Cancel(ctx context.Context, principal domain.Principal, leaseID string) (*domain.Lease, error)
	ListAsTenant(ctx context.Context, principal domain.Principal) ([]domain.Lease, error)
	ListAsLandlord(ctx context.Context, principal domain.Principal) ([]domain.Lease, error)
}

// OtpIssue describes an issued signature code. TestCode is populated only in
// test mode.
type OtpIssue struct {
	ExpiresAt time.Time `json:"expires_at"`
	TestCode  string    `json:"test_code,omitempty"`
}

type OtpService interface {
	// RequestCode issues a signature code for a lease awaiting signature.
	// While a live code exists the same issue is returned instead of minting
	// a new one.
	RequestCode(ctx context.Context, principal domain.Principal, leaseID string) (*OtpIssue, error)
	// VerifyCode consumes the code and records the tenant signature in a
	// single transaction, advancing step 4 -> 5.
	VerifyCode(ctx context.Context, principal domain.Principal, leaseID, code string) (*domain.Lease, error)
}

// FeeCheckout is everything the landlord client needs to pay the approval
// fee through the hosted checkout.
type FeeCheckout struct {
	Fee         *domain.LeaseApprovalFee `json:"fee"`
	Reference   string                   `json:"reference"`
	CheckoutURL string                   `json:"checkout_url"`
	AmountCents int64                    `json:"amount_in_cents"`
	Currency    string                   `json:"currency"`
	Signature   string                   `json:"integrity_signature"`
	PublicKey   string                   `json:"public_key"`
}

// FeeStatus is the current fee and payment state for a lease.
type FeeStatus struct {
	Fee     *domain.LeaseApprovalFee   `json:"fee"`
	Payment *domain.PaymentTransaction `json:"payment"`
}

type PaymentService interface {
	// CreateApprovalFee creates the fee and its pending payment, or returns
	// the existing checkout when one is already open.
	CreateApprovalFee(ctx context.Context, principal domain.Principal, leaseID string) (*FeeCheckout, error)
	GetFeeStatus(ctx context.Context, principal domain.Principal, leaseID string) (*FeeStatus, error)
	// ProcessWebhookEvent verifies, audits and applies an inbound provider
	// event. Every event is persisted before any other handling.
	ProcessWebhookEvent(ctx context.Context, body []byte, checksumHeader string) error
	// ReconcilePendingPayments re-fetches stale pending payments from the
	// provider and applies their final state through the webhook path.
	ReconcilePendingPayments(ctx context.Context, olderThan time.Duration) (int, error)
}
