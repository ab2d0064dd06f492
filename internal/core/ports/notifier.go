package ports

import (
	"context"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

// Notifier is the user-facing notification side channel. Emitting must never
// block the caller for long or fail loudly; delivery is best-effort.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}
