package domain

import (
	"fmt"
	"strings"
)

// Role is a capability level. Roles form a total order:
// Viewer < Editor < Admin. The zero value is RoleUnknown and ranks below all of them.
type Role int

const (
	RoleUnknown Role = iota
	RoleViewer
	RoleEditor
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleViewer: "Viewer",
	RoleEditor: "Editor",
	RoleAdmin:  "Admin",
}

// AllRoles returns the known roles from lowest to highest.
func AllRoles() []Role {
	return []Role{RoleViewer, RoleEditor, RoleAdmin}
}

// ParseRole converts a wire name ("Admin", "Editor", "Viewer") into a Role.
// Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	name := strings.TrimSpace(s)
	for r, n := range roleNames {
		if strings.EqualFold(n, name) {
			return r, nil
		}
	}
	return RoleUnknown, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// String returns the wire name of the role.
func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	_, ok := roleNames[r]
	return ok
}

// MarshalText encodes the role by name so JSON payloads carry "Admin" rather than 3.
func (r Role) MarshalText() ([]byte, error) {
	if !r.IsValid() {
		return []byte(""), nil
	}
	return []byte(r.String()), nil
}

// UnmarshalText accepts any known role name. An empty string decodes to RoleUnknown.
func (r *Role) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*r = RoleUnknown
		return nil
	}
	parsed, err := ParseRole(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// IsAtLeast reports whether r ranks at or above min. Unknown roles never qualify.
func (r Role) IsAtLeast(min Role) bool {
	return r.IsValid() && min.IsValid() && r >= min
}

// Next returns the role directly above r.
func (r Role) Next() (Role, bool) {
	if !r.IsValid() || r == RoleAdmin {
		return RoleUnknown, false
	}
	return r + 1, true
}

// Prev returns the role directly below r.
func (r Role) Prev() (Role, bool) {
	if !r.IsValid() || r == RoleViewer {
		return RoleUnknown, false
	}
	return r - 1, true
}

// CanCreate reports whether the role may generate new sites.
func (r Role) CanCreate() bool {
	return r.IsAtLeast(RoleEditor)
}

// CanManageUsers reports whether the role may list users and change their roles.
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// CanModify reports whether a user with this role and id may edit or delete
// a site owned by ownerID.
func (r Role) CanModify(ownerID, userID string) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleEditor:
		return userID != "" && ownerID == userID
	default:
		return false
	}
}

// ContainsRole reports whether role is a member of set.
func ContainsRole(set []Role, role Role) bool {
	for _, r := range set {
		if r == role {
			return true
		}
	}
	return false
}
