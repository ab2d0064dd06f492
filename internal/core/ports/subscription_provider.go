package ports

import (
	"context"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

// SubscriptionProvider is the remote subscription service. Status reports the
// authoritative tier for the member owning the token.
type SubscriptionProvider interface {
	Status(ctx context.Context, token string) (domain.SubscriptionStatus, error)
}
