package domain

import "time"

// WebhookEvent is the append-only audit record of every inbound provider
// notification, valid or not. Only the processed fields are ever updated.
type WebhookEvent struct {
	ID                   string     `json:"id"`
	EventType            string     `json:"event_type"`
	ReceivedChecksum     string     `json:"received_checksum"`
	CalculatedChecksum   string     `json:"calculated_checksum"`
	IsValid              bool       `json:"is_valid"`
	Payload              string     `json:"payload"`
	Processed            bool       `json:"processed"`
	ProcessedAt          *time.Time `json:"processed_at,omitempty"`
	ErrorMessage         *string    `json:"error_message,omitempty"`
	PaymentTransactionID *string    `json:"payment_transaction_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
}
