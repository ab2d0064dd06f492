package ports

import (
	"context"

	"github.com/fitpulse/session-agent/internal/core/domain"
)

// AuthProvider is the remote auth service consumed by the session manager.
// Login and Register return the normalized identity together with the opaque
// bearer token issued for it. CurrentUser validates a persisted token; any
// error from it is treated as an invalid token.
type AuthProvider interface {
	Register(ctx context.Context, name, email, password string) (*domain.Identity, string, error)
	Login(ctx context.Context, email, password string) (*domain.Identity, string, error)
	CurrentUser(ctx context.Context, token string) (*domain.Identity, error)
}
