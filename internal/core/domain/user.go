package domain

// ManagedUser is a user account as listed in the admin panel.
// RoleName is kept verbatim so that a role this client does not know
// still shows up in the listing.
type ManagedUser struct {
	ID        string    `json:"_id"`
	Email     string    `json:"email"`
	RoleName  string    `json:"role"`
	CreatedAt Timestamp `json:"created_at"`
}

// Role parses RoleName, returning RoleUnknown for unrecognised names.
func (u ManagedUser) Role() Role {
	r, err := ParseRole(u.RoleName)
	if err != nil {
		return RoleUnknown
	}
	return r
}

// RoleRecord is a role definition as stored by the backend.
type RoleRecord struct {
	ID          string   `json:"_id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions,omitempty"`
}

// Identity is the backend's answer to "who am I".
type Identity struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}
