package domain

import "time"

type Role string

const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Roles        []Role    `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Principal is the authenticated identity passed explicitly into every
// service operation. It carries nothing beyond the user id and role set.
type Principal struct {
	UserID string
	Roles  []Role
}

func (p Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// CanViewLease reports whether the principal may read the given lease:
// the lease's tenant, its landlord, or an admin.
func (p Principal) CanViewLease(l *Lease) bool {
	return l.TenantID == p.UserID || l.LandlordID == p.UserID || p.HasRole(RoleAdmin)
}
