package domain

import "time"

type LeaseStatus string

const (
	LeaseStatusDraft                   LeaseStatus = "draft"
	LeaseStatusPendingSignature        LeaseStatus = "pending_signature"
	LeaseStatusPendingLandlordApproval LeaseStatus = "pending_landlord_approval"
	LeaseStatusApproved                LeaseStatus = "approved"
	LeaseStatusRejected                LeaseStatus = "rejected"
	LeaseStatusCancelled               LeaseStatus = "cancelled"
	LeaseStatusActive                  LeaseStatus = "active"
	LeaseStatusCompleted               LeaseStatus = "completed"
)

// Origination steps. Steps 1-3 run in draft, step 4 in pending_signature,
// step 5 freezes at pending_landlord_approval.
const (
	StepSummary          int32 = 1
	StepVerification     int32 = 2
	StepContract         int32 = 3
	StepSignature        int32 = 4
	StepAwaitingApproval int32 = 5
)

type Lease struct {
	ID         string `json:"id"`
	PropertyID string `json:"property_id"`
	TenantID   string `json:"tenant_id"`
	// LandlordID is denormalized from the property owner at creation time
	// so authorization checks never need a property lookup.
	LandlordID string `json:"landlord_id"`
	// Economic snapshot copied from the property at lease creation. Later
	// property edits must not alter an in-flight lease.
	MonthlyRent   string `json:"monthly_rent"`
	Currency      string `json:"currency"`
	DepositAmount string `json:"deposit_amount"`

	Status      LeaseStatus `json:"status"`
	CurrentStep int32       `json:"current_step"`

	// Term dates stay unset during origination and are agreed after approval.
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`

	ContractContent     *string    `json:"contract_content,omitempty"`
	TenantSignedAt      *time.Time `json:"tenant_signed_at,omitempty"`
	TenantSignatureHash *string    `json:"tenant_signature_hash,omitempty"`
	LandlordRespondedAt *time.Time `json:"landlord_responded_at,omitempty"`
	LandlordNotes       *string    `json:"landlord_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsTerminal reports whether the lease can no longer move through the
// origination flow. A new lease for the same (property, tenant) pair may
// only be opened once the previous one is terminal.
func (s LeaseStatus) IsTerminal() bool {
	switch s {
	case LeaseStatusRejected, LeaseStatusCancelled, LeaseStatusCompleted:
		return true
	}
	return false
}
