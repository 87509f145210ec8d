// Package diary is the domain core of SwapDiary: the two personas, the
// day-parity rule deciding whose diary is visible today, the entry and
// profile models, and the Store contract both backends implement.
package diary

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/swapdiary/internal/common"
)

// Role is one of the two fixed personas an account is assigned at registration.
type Role string

const (
	RoleTaki    Role = "taki"
	RoleMitsuha Role = "mitsuha"
)

// Roles lists every valid role.
var Roles = []Role{RoleTaki, RoleMitsuha}

// ParseRole accepts a role name in any case.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", common.ErrValidation, s)
	}
	return r, nil
}

func (r Role) Valid() bool {
	return r == RoleTaki || r == RoleMitsuha
}

// Other returns the partner persona. Other(Other(r)) == r.
func (r Role) Other() Role {
	if r == RoleTaki {
		return RoleMitsuha
	}
	return RoleTaki
}

// DisplayName is the capitalised persona name shown in notices.
func (r Role) DisplayName() string {
	switch r {
	case RoleTaki:
		return "Taki"
	case RoleMitsuha:
		return "Mitsuha"
	default:
		return string(r)
	}
}

func (r Role) String() string { return string(r) }
