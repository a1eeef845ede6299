package domain

// Phase is the lifecycle stage of the session store.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseResolved
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseResolved:
		return "resolved"
	default:
		return "uninitialized"
	}
}

// MarshalText renders the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Session is the confirmed identity of the current user.
type Session struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Snapshot is an immutable view of the session store at one point in time.
// A resolved snapshot with a nil Session is anonymous.
type Snapshot struct {
	Phase   Phase
	Session *Session
}

// Resolved reports whether initialization has finished.
func (s Snapshot) Resolved() bool {
	return s.Phase == PhaseResolved
}

// Authenticated reports whether a confirmed identity is present.
func (s Snapshot) Authenticated() bool {
	return s.Phase == PhaseResolved && s.Session != nil
}

// Role returns the session role, or RoleUnknown when anonymous.
func (s Snapshot) Role() Role {
	if s.Session == nil {
		return RoleUnknown
	}
	return s.Session.Role
}

// UserID returns the session user id, or "" when anonymous.
func (s Snapshot) UserID() string {
	if s.Session == nil {
		return ""
	}
	return s.Session.ID
}

// Anonymous returns a resolved snapshot without identity.
func Anonymous() Snapshot {
	return Snapshot{Phase: PhaseResolved}
}

// AuthenticatedAs returns a resolved snapshot for the given identity.
func AuthenticatedAs(id string, role Role) Snapshot {
	return Snapshot{Phase: PhaseResolved, Session: &Session{ID: id, Role: role}}
}
