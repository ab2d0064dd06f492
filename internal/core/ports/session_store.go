package ports

import "context"

// SessionStore is the durable client-local key-value storage for the session:
// one key holding the serialized identity blob, one holding the raw bearer
// token. Reads return domain.ErrNoSession when the key is absent. Clear
// removes both keys; WriteToken may update the token independently of the
// blob (token refresh).
type SessionStore interface {
	ReadIdentity(ctx context.Context) ([]byte, error)
	WriteIdentity(ctx context.Context, blob []byte) error
	ReadToken(ctx context.Context) (string, error)
	WriteToken(ctx context.Context, token string) error
	Clear(ctx context.Context) error
	Ping(ctx context.Context) error
}
