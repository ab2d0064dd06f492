package ports

import (
	"context"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

// SessionManager owns the one session this process holds. All writes to
// session state and to the persisted storage keys funnel through it; readers
// get copies via Snapshot or the observer mechanism.
//
// Login and Signup report success as a boolean: failures are delivered
// through the notification side channel, never as an error the caller has to
// branch on.
type SessionManager interface {
	// Snapshot returns the current session state. Loading is true only
	// between Start and the resolution of the startup validation.
	Snapshot() domain.Snapshot

	// Subscribe registers an observer invoked after every state change with
	// the new snapshot. The returned function removes the observer.
	Subscribe(fn func(domain.Snapshot)) (unsubscribe func())

	Login(ctx context.Context, email, password string) bool
	Signup(ctx context.Context, name, email, password string) bool
	Logout(ctx context.Context)

	// ReconcileSubscription refreshes the locally held tier from the
	// subscription service. Best-effort: failures are logged and swallowed.
	ReconcileSubscription(ctx context.Context)

	// UpdateIdentity shallow-merges the patch into the current identity and
	// re-persists it. No-op when anonymous.
	UpdateIdentity(ctx context.Context, patch domain.IdentityPatch)

	IsAdmin() bool
}
