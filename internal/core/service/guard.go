package service

import (
	"net/url"
	"strings"

	"github.com/growthzi/dashboard/internal/core/domain"
)

const (
	LoginPath   = "/login"
	LandingPath = "/"

	DeniedMessage = "You don't have permission to access this page."
)

// Outcome is what the guard decided to do with a navigation.
type Outcome int

const (
	OutcomeRender Outcome = iota
	OutcomeLogin
	OutcomeDeny
)

func (o Outcome) String() string {
	switch o {
	case OutcomeLogin:
		return "login"
	case OutcomeDeny:
		return "deny"
	default:
		return "render"
	}
}

// GuardInput is everything a guard decision depends on.
type GuardInput struct {
	Authenticated bool
	Role          domain.Role
	// Required is the set of roles admitted to the route; empty admits any
	// authenticated role.
	Required []domain.Role
	// Location is the requested path (with query), remembered for the
	// post-login return.
	Location string
}

// Decision is the result of Decide.
type Decision struct {
	Outcome  Outcome
	Redirect string
	Notice   *domain.Notice
}

// Decide applies the route guard rules. It has no state and no side effects.
func Decide(in GuardInput) Decision {
	if !in.Authenticated {
		return Decision{Outcome: OutcomeLogin, Redirect: LoginRedirect(in.Location)}
	}
	if len(in.Required) > 0 && !domain.ContainsRole(in.Required, in.Role) {
		n := domain.ErrorNotice(DeniedMessage)
		return Decision{Outcome: OutcomeDeny, Redirect: LandingPath, Notice: &n}
	}
	return Decision{Outcome: OutcomeRender}
}

// DecideFor is Decide fed from a session snapshot.
func DecideFor(snap domain.Snapshot, location string, required ...domain.Role) Decision {
	return Decide(GuardInput{
		Authenticated: snap.Authenticated(),
		Role:          snap.Role(),
		Required:      required,
		Location:      location,
	})
}

// LoginRedirect builds the login URL that remembers where the user was going.
func LoginRedirect(from string) string {
	from = SafeReturnPath(from)
	if from == LandingPath || strings.HasPrefix(from, LoginPath) {
		return LoginPath
	}
	return LoginPath + "?from=" + url.QueryEscape(from)
}

// SafeReturnPath returns from if it is a local absolute path, else the landing page.
func SafeReturnPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, `/\`) {
		return LandingPath
	}
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" {
		return LandingPath
	}
	return from
}
