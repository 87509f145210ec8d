package diary

import (
	"fmt"

	"github.com/dmitrijs2005/swapdiary/internal/common"
)

// Profile is the single source of truth for role-based queries. Role is
// fixed at creation; only AvatarRef and PartnerID change afterwards.
type Profile struct {
	ID          string `json:"uid"`
	DisplayName string `json:"username"`
	Email       string `json:"email,omitempty"`
	AvatarRef   string `json:"avatarUrl,omitempty"`
	Role        Role   `json:"role"`
	PartnerID   string `json:"partnerUid,omitempty"`
}

// GuestProfile is the device-local profile used without an account.
func GuestProfile(role Role) Profile {
	return Profile{
		ID:          common.GuestIdentity,
		DisplayName: common.GuestDisplayName,
		Role:        role,
	}
}

func (p Profile) IsGuest() bool {
	return p.ID == common.GuestIdentity
}

func (p Profile) HasPartner() bool {
	return p.PartnerID != ""
}

// Validate checks the fields every store relies on.
func (p Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("%w: profile has no identity", common.ErrValidation)
	}
	if !p.Role.Valid() {
		return fmt.Errorf("%w: profile role %q", common.ErrRoleRequired, p.Role)
	}
	return nil
}
