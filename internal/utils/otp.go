package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const OtpLength = 6

// TestOtpCode is the deterministic code issued in test mode so automated
// flows can sign without an out-of-band channel.
const TestOtpCode = "123456"

// GenerateOtpCode returns a random numeric code of OtpLength digits with
// leading zeros preserved.
func GenerateOtpCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}
	return fmt.Sprintf("%0*d", OtpLength, n.Int64()), nil
}

// SignatureHash computes the one-way digest recording a signing event:
// SHA256("code:leaseID:userID:timestamp").
func SignatureHash(code, leaseID, userID string, signedAt time.Time) string {
	data := fmt.Sprintf("%s:%s:%s:%s", code, leaseID, userID, signedAt.UTC().Format(time.RFC3339Nano))
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
