package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Role is a role tag held by a user. A user may hold several.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleStudent    Role = "student"
	RoleHOD        Role = "hod"
	RoleAdvisor    Role = "advisor"
	RoleCounsellor Role = "counsellor"
)

// AllRoles lists every role in a fixed order.
var AllRoles = []Role{RoleAdmin, RoleStudent, RoleHOD, RoleAdvisor, RoleCounsellor}

// ParseRole converts a string into a Role, ignoring case and surrounding space.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if r.bit() == 0 {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// IsStaff reports whether r is one of the department staff roles.
func (r Role) IsStaff() bool {
	return r == RoleHOD || r == RoleAdvisor || r == RoleCounsellor
}

func (r Role) bit() RoleSet {
	switch r {
	case RoleAdmin:
		return 1 << 0
	case RoleStudent:
		return 1 << 1
	case RoleHOD:
		return 1 << 2
	case RoleAdvisor:
		return 1 << 3
	case RoleCounsellor:
		return 1 << 4
	}
	return 0
}

// RoleSet is the closed set of role tags held by one user.
type RoleSet uint8

// NewRoleSet builds a set from the given roles. Unknown roles are ignored.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s |= r.bit()
	}
	return s
}

// Has reports whether r is in the set.
func (s RoleSet) Has(r Role) bool {
	b := r.bit()
	return b != 0 && s&b == b
}

// With returns a copy of the set that also contains r.
func (s RoleSet) With(r Role) RoleSet {
	return s | r.bit()
}

// Empty reports whether the set holds no role.
func (s RoleSet) Empty() bool {
	return s == 0
}

// Roles returns the members in AllRoles order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(AllRoles))
	for _, r := range AllRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Strings returns the members as plain strings.
func (s RoleSet) Strings() []string {
	roles := s.Roles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

func (s RoleSet) String() string {
	return strings.Join(s.Strings(), ",")
}

// MarshalJSON encodes the set as an array of role names.
func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes an array of role names.
func (s *RoleSet) UnmarshalJSON(data []byte) error {
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return err
	}
	var set RoleSet
	for _, n := range names {
		r, err := ParseRole(n)
		if err != nil {
			return err
		}
		set = set.With(r)
	}
	*s = set
	return nil
}
