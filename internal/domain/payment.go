package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "pending"
	PaymentStatusProcessing PaymentStatus = "processing"
	PaymentStatusApproved   PaymentStatus = "approved"
	PaymentStatusDeclined   PaymentStatus = "declined"
	PaymentStatusVoided     PaymentStatus = "voided"
	PaymentStatusError      PaymentStatus = "error"
)

// PaymentMetadata is the typed payload attached to a payment transaction.
type PaymentMetadata struct {
	LeaseID   string `json:"lease_id,omitempty"`
	UserEmail string `json:"user_email,omitempty"`
	Purpose   string `json:"purpose,omitempty"`
}

// PaymentTransaction is one attempt to pay the approval fee. WompiReference
// is globally unique and is the lookup key for provider webhooks.
type PaymentTransaction struct {
	ID                 string          `json:"id"`
	WompiReference     string          `json:"wompi_reference"`
	WompiTransactionID *string         `json:"wompi_transaction_id,omitempty"`
	Amount             string          `json:"amount"`
	Currency           string          `json:"currency"`
	Status             PaymentStatus   `json:"status"`
	PaymentMethod      *string         `json:"payment_method,omitempty"`
	UserID             string          `json:"user_id"`
	WompiCheckoutURL   string          `json:"wompi_checkout_url"`
	IntegritySignature string          `json:"-"`
	Metadata           PaymentMetadata `json:"metadata"`
	PaidAt             *time.Time      `json:"paid_at,omitempty"`
	VoidedAt           *time.Time      `json:"voided_at,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// LeaseApprovalFee links a lease to the payment that unlocks landlord
// approval. The fee calculation inputs are persisted so a later rate change
// never rewrites history. IsPaid is flipped only by webhook processing.
type LeaseApprovalFee struct {
	ID                   string     `json:"id"`
	LeaseID              string     `json:"lease_id"`
	PaymentTransactionID string     `json:"payment_transaction_id"`
	MonthlyRent          string     `json:"monthly_rent"`
	FeePercentage        string     `json:"fee_percentage"`
	FeeAmount            string     `json:"fee_amount"`
	IsPaid               bool       `json:"is_paid"`
	PaidAt               *time.Time `json:"paid_at,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}
