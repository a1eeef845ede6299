package ports

import (
	"context"

	"github.com/growthzi/dashboard/internal/core/domain"
)

// SessionManager owns the current user's session. It is the only writer of
// session state; everyone else reads snapshots.
type SessionManager interface {
	Snapshot() domain.Snapshot
	Subscribe() (<-chan domain.Snapshot, func())
	Initialize(ctx context.Context) domain.Snapshot
	Login(ctx context.Context, creds Credentials) error
	Signup(ctx context.Context, creds Credentials) error
	Logout(ctx context.Context)
}
