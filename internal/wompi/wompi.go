// Package wompi implements the integrity and event signature schemes of the
// Wompi payment provider plus a thin API client used for reconciliation.
package wompi

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// IntegritySignature computes the checkout integrity signature:
// SHA256(reference + amountInCents + currency + integritySecret), hex.
// It proves to the provider that the amount was not tampered with
// client-side.
func IntegritySignature(reference string, amountInCents int64, currency, integritySecret string) string {
	concatenated := fmt.Sprintf("%s%d%s%s", reference, amountInCents, currency, integritySecret)
	sum := sha256.Sum256([]byte(concatenated))
	return hex.EncodeToString(sum[:])
}

// EventChecksum computes the webhook event checksum over the resolved
// signature property values, in order, followed by the event timestamp and
// the shared events secret.
func EventChecksum(properties []string, timestamp int64, eventsSecret string) string {
	var b strings.Builder
	for _, p := range properties {
		b.WriteString(p)
	}
	b.WriteString(fmt.Sprintf("%d", timestamp))
	b.WriteString(eventsSecret)
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// ValidEventChecksum compares a received checksum against the recalculated
// one, case-insensitively.
func ValidEventChecksum(properties []string, timestamp int64, eventsSecret, receivedChecksum string) bool {
	return strings.EqualFold(EventChecksum(properties, timestamp, eventsSecret), receivedChecksum)
}

// PaymentReference builds the globally unique reference for an approval fee
// payment: LEASE-{leaseId}-{millis}. The timestamp salt keeps references
// unique across retries for the same lease.
func PaymentReference(leaseID string) string {
	return fmt.Sprintf("LEASE-%s-%d", leaseID, time.Now().UnixMilli())
}

// CheckoutURL builds the hosted checkout URL for a payment reference.
func CheckoutURL(checkoutBaseURL, reference string) string {
	return checkoutBaseURL + reference
}
