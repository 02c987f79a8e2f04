package domain

import "time"

type DocumentType string

const (
	DocumentTypeCC       DocumentType = "cc"
	DocumentTypeCE       DocumentType = "ce"
	DocumentTypePassport DocumentType = "passport"
)

// TenantProfile holds the verification data a tenant submits in step 2.
// One row per user; resubmitting overwrites the existing profile and the
// data persists across leases.
type TenantProfile struct {
	ID                string       `json:"id"`
	UserID            string       `json:"user_id"`
	DocumentType      DocumentType `json:"document_type"`
	DocumentNumber    string       `json:"document_number"`
	Occupation        string       `json:"occupation"`
	MonthlyIncome     string       `json:"monthly_income"`
	ReferenceName     string       `json:"reference_name"`
	ReferencePhone    string       `json:"reference_phone"`
	ReferenceRelation string       `json:"reference_relation"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}
