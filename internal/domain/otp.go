package domain

import "time"

// OtpCode is one issued signature code for a (user, lease) pair. Reissue
// after expiry creates a new row; a code is live while it is unexpired and
// unused.
type OtpCode struct {
	ID        string     `json:"id"`
	UserID    string     `json:"user_id"`
	LeaseID   string     `json:"lease_id"`
	Code      string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (c *OtpCode) IsExpired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

func (c *OtpCode) IsLive(now time.Time) bool {
	return c.UsedAt == nil && !c.IsExpired(now)
}
