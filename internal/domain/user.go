package domain

import (
	"strings"
	"time"
)

// NormalizeEmail lowercases and trims an address so that lookups and
// uniqueness treat User@Example.com and user@example.com as the same
// account.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type User struct {
	ID              uint       `json:"id"`
	Email           string     `json:"email"`
	Password        string     `json:"-"`
	Nickname        string     `json:"nickname"`
	Role            *Role      `json:"role,omitempty"`
	Group           *UserGroup `json:"group,omitempty"`
	ExperiencePoint int        `json:"experience_point"`
	EarnedCoins     int        `json:"coins"`
	EmailConfirmed  bool       `json:"email_confirmed"`
	LastLogin       *time.Time `json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// HasCapability reports whether the user's role grants the capability.
// Users without a role (or anonymous callers represented by the zero
// value) hold no capabilities at all.
func (u User) HasCapability(cap Capability) bool {
	if u.Role == nil {
		return false
	}

	return u.Role.HasCapability(cap)
}

func (u User) IsAdministrator() bool {
	return u.HasCapability(CapabilityAdmin)
}

// CanManage reports whether the user may mutate a row owned by the given
// group. Admins bypass group scoping; editors are restricted to rows
// owned by their own group.
func (u User) CanManage(ownerGroupID *uint) bool {
	if u.IsAdministrator() {
		return true
	}
	if !u.HasCapability(CapabilityEdit) {
		return false
	}
	if u.Group == nil || ownerGroupID == nil {
		return false
	}

	return u.Group.ID == *ownerGroupID
}

// CanView reports whether the user may read a row owned by the given
// group. Same scoping as CanManage, but the view capability suffices.
func (u User) CanView(ownerGroupID *uint) bool {
	if u.IsAdministrator() {
		return true
	}
	if !u.HasCapability(CapabilityView) {
		return false
	}
	if u.Group == nil || ownerGroupID == nil {
		return false
	}

	return u.Group.ID == *ownerGroupID
}

// UserReward is one row of the redemption ledger. A user may receive the
// same reward more than once; rows are ordered by Timestamp.
type UserReward struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	RewardID  uint      `json:"reward_id"`
	Timestamp time.Time `json:"timestamp"`
}
